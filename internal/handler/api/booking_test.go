//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/handler/api"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"
	commandsmock "clinic-scheduler/tests/mock/commands"
	queriesmock "clinic-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/bookings", s.handler.CreateBooking)
	s.router.GET("/api/bookings/:id", s.handler.GetBooking)
	s.router.POST("/api/bookings/:id/confirm", s.handler.ConfirmBooking)
	s.router.POST("/api/bookings/:id/cancel", s.handler.CancelBooking)
	s.router.POST("/api/bookings/:id/complete", s.handler.CompleteBooking)
	s.router.POST("/api/bookings/:id/no-show", s.handler.MarkNoShow)
	s.router.POST("/api/bookings/:id/reschedule", s.handler.RescheduleBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) validCreateBody() map[string]any {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return map[string]any{
		"staff_id":   uuid.New().String(),
		"branch_id":  uuid.New().String(),
		"type_id":    uuid.New().String(),
		"patient_id": uuid.New().String(),
		"starts_at":  start.Format(time.RFC3339),
		"ends_at":    start.Add(30 * time.Minute).Format(time.RFC3339),
		"source":     "manual",
	}
}

func (s *BookingHandlerTestSuite) sampleBooking() *booking.Booking {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	iv, err := booking.NewInterval(start, start.Add(30*time.Minute))
	s.Require().NoError(err)
	return booking.Reconstruct(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		nil, iv, booking.StatusConfirmed, booking.SourceManual, "",
		start, start,
	)
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/api/bookings"

	s.Run("returns 201 with the created booking", func() {
		b := s.sampleBooking()
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(b, nil)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, s.validCreateBody())
		s.Equal(http.StatusCreated, rec.Code)
		body := decodeBody(s.T(), rec)
		s.Equal(b.ID().String(), body["id"])
		s.Equal(string(booking.StatusConfirmed), body["status"])
	})

	s.Run("draft flag creates a draft booking", func() {
		start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		iv, err := booking.NewInterval(start, start.Add(30*time.Minute))
		s.Require().NoError(err)
		draft := booking.Reconstruct(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			nil, iv, booking.StatusDraft, booking.SourceOnline, "",
			start, start,
		)
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p commands.ReserveParams) (*booking.Booking, error) {
				s.True(p.AsDraft)
				return draft, nil
			})

		body := s.validCreateBody()
		body["draft"] = true
		rec := performRequest(s.T(), s.router, http.MethodPost, url, body)
		s.Equal(http.StatusCreated, rec.Code)
		resp := decodeBody(s.T(), rec)
		s.Equal(string(booking.StatusDraft), resp["status"])
	})

	s.Run("missing required field is 400", func() {
		body := s.validCreateBody()
		delete(body, "staff_id")
		rec := performRequest(s.T(), s.router, http.MethodPost, url, body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown source value is 400", func() {
		body := s.validCreateBody()
		body["source"] = "phone"
		rec := performRequest(s.T(), s.router, http.MethodPost, url, body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("conflict is 409 with the blocking booking id", func() {
		blocking := uuid.New()
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			Return(nil, &commands.SlotConflictError{ConflictingBookingID: blocking})

		rec := performRequest(s.T(), s.router, http.MethodPost, url, s.validCreateBody())
		s.Equal(http.StatusConflict, rec.Code)
		body := decodeBody(s.T(), rec)
		s.Equal(blocking.String(), body["conflicting_booking_id"])
	})

	s.Run("online booking forbidden is 403", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrOnlineNotPermitted)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, s.validCreateBody())
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("minimum notice violation is 400", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrMinNoticeViolated)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, s.validCreateBody())
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown appointment type is 404", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrTypeNotFound)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, s.validCreateBody())
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("marked unknown type error is still 404", func() {
		cause := errs.Mark(errs.New("no rows"), commands.ErrTypeNotFound)
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil, cause)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, s.validCreateBody())
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("unexpected error is 500", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			Return(nil, errs.New("connection reset"))

		rec := performRequest(s.T(), s.router, http.MethodPost, url, s.validCreateBody())
		s.Equal(http.StatusInternalServerError, rec.Code)
		body := decodeBody(s.T(), rec)
		errBody, ok := body["error"].(map[string]any)
		s.Require().True(ok)
		s.Equal("Internal server error", errBody["message"])
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	s.Run("returns 200 with the view", func() {
		id := uuid.New()
		view := &queries.BookingView{
			ID:       id,
			StaffID:  uuid.New(),
			StartsAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
			Status:   "confirmed",
			Source:   "manual",
		}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(view, nil)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/api/bookings/"+id.String(), nil)
		s.Equal(http.StatusOK, rec.Code)
		body := decodeBody(s.T(), rec)
		s.Equal(id.String(), body["id"])
	})

	s.Run("unknown booking is 404", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(nil, queries.ErrBookingNotFound)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/api/bookings/"+id.String(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("malformed id is 400", func() {
		rec := performRequest(s.T(), s.router, http.MethodGet, "/api/bookings/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestLifecycleEndpoints() {
	id := uuid.New()

	s.Run("cancel returns 204", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id).Return(nil)
		rec := performRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+id.String()+"/cancel", nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("closed window is 422", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id).Return(commands.ErrWindowClosed)
		rec := performRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+id.String()+"/cancel", nil)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("invalid transition is 422", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), id).Return(commands.ErrInvalidTransition)
		rec := performRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+id.String()+"/complete", nil)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("no-show returns 204", func() {
		s.mockCommands.EXPECT().MarkNoShow(gomock.Any(), id).Return(nil)
		rec := performRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+id.String()+"/no-show", nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("malformed id is 400", func() {
		rec := performRequest(s.T(), s.router, http.MethodPost, "/api/bookings/nope/confirm", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestRescheduleBooking() {
	id := uuid.New()
	url := "/api/bookings/" + id.String() + "/reschedule"
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	body := map[string]any{
		"starts_at": start.Format(time.RFC3339),
		"ends_at":   start.Add(30 * time.Minute).Format(time.RFC3339),
	}

	s.Run("returns 200 with the moved booking", func() {
		b := s.sampleBooking()
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), gomock.Any()).Return(b, nil)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, body)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("conflict is 409", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), gomock.Any()).
			Return(nil, &commands.SlotConflictError{ConflictingBookingID: uuid.New()})

		rec := performRequest(s.T(), s.router, http.MethodPost, url, body)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("missing interval is 400", func() {
		rec := performRequest(s.T(), s.router, http.MethodPost, url, map[string]any{})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
