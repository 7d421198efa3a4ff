//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"clinic-scheduler/internal/handler/dto/request"
	"clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/tests/common/dbtest"
	"clinic-scheduler/tests/common/httptest"
	"clinic-scheduler/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
	slotsURL    = "/api/slots"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// nextMonday returns the first Monday at least seven days from now, at
// midnight UTC, so every test books well clear of the minimum notice window.
func nextMonday() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func reserveRequest(staffID, branchID, typeID uuid.UUID, start time.Time) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		StaffID:   staffID,
		BranchID:  branchID,
		TypeID:    typeID,
		PatientID: uuid.New(),
		StartsAt:  start,
		EndsAt:    start.Add(30 * time.Minute),
		Source:    "manual",
	}
}

// =============================================================================
// TestReserveBooking - Booking creation API tests
// =============================================================================

func (s *BookingSuite) TestReserveBooking() {
	s.Run("Normal case: Booking is created with confirmed status", func() {
		t := s.T()

		typeID := uuid.New()
		staffID := uuid.New()
		require.NoError(t, dbtest.SeedTypeRule(s.DB, typeID, []uuid.UUID{staffID}))

		start := nextMonday().Add(9 * time.Hour)
		reqBody := reserveRequest(staffID, uuid.New(), typeID, start)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody)
		require.Equal(t, http.StatusCreated, w.Code, "Response: %s", w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.NotEqual(t, uuid.Nil, created.ID)
		require.Equal(t, "confirmed", created.Status)
		require.True(t, created.StartsAt.Equal(start))

		// The booking is readable back through the query side.
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, dw.Code)
	})

	s.Run("Normal case: Back-to-back bookings on adjacent intervals both succeed", func() {
		t := s.T()

		typeID := uuid.New()
		staffID := uuid.New()
		branchID := uuid.New()
		require.NoError(t, dbtest.SeedTypeRule(s.DB, typeID, []uuid.UUID{staffID}))

		start := nextMonday().Add(9 * time.Hour)

		first := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			reserveRequest(staffID, branchID, typeID, start))
		require.Equal(t, http.StatusCreated, first.Code, "Response: %s", first.Body.String())

		second := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			reserveRequest(staffID, branchID, typeID, start.Add(30*time.Minute)))
		require.Equal(t, http.StatusCreated, second.Code, "Response: %s", second.Body.String())
	})

	s.Run("Error case: Overlapping booking for the same staff is rejected", func() {
		t := s.T()

		typeID := uuid.New()
		staffID := uuid.New()
		branchID := uuid.New()
		require.NoError(t, dbtest.SeedTypeRule(s.DB, typeID, []uuid.UUID{staffID}))

		start := nextMonday().Add(10 * time.Hour)

		first := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			reserveRequest(staffID, branchID, typeID, start))
		require.Equal(t, http.StatusCreated, first.Code)

		second := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			reserveRequest(staffID, branchID, typeID, start.Add(15*time.Minute)))
		require.Equal(t, http.StatusConflict, second.Code, "Response: %s", second.Body.String())
	})
}

// =============================================================================
// TestConcurrentReservation - Conflict guard under parallel writers
// =============================================================================

func (s *BookingSuite) TestConcurrentReservation() {
	s.Run("Normal case: Exactly one of two concurrent identical bookings wins", func() {
		t := s.T()

		typeID := uuid.New()
		staffID := uuid.New()
		branchID := uuid.New()
		require.NoError(t, dbtest.SeedTypeRule(s.DB, typeID, []uuid.UUID{staffID}))

		start := nextMonday().Add(11 * time.Hour)
		reqBody := reserveRequest(staffID, branchID, typeID, start)

		codes := make([]int, 2)
		var wg sync.WaitGroup
		for i := range codes {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		conflicted := 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		require.Equal(t, 1, created, "exactly one reservation should win, got codes %v", codes)
		require.Equal(t, 1, conflicted, "the loser should see a conflict, got codes %v", codes)
	})
}

// =============================================================================
// TestSlotListingReflectsBookings - Generation, cache invalidation, lifecycle
// =============================================================================

func (s *BookingSuite) TestSlotListingReflectsBookings() {
	s.Run("Normal case: Booking a slot removes it from the next listing", func() {
		t := s.T()

		typeID := uuid.New()
		staffID := uuid.New()
		branchID := uuid.New()
		require.NoError(t, dbtest.SeedTypeRule(s.DB, typeID, []uuid.UUID{staffID}))

		day := nextMonday()
		weekday := (int(day.Weekday()) + 6) % 7
		require.NoError(t, dbtest.SeedWorkingHours(s.DB, staffID, branchID, weekday, 9*60, 12*60))

		listURL := fmt.Sprintf("%s?type_id=%s&staff_id=%s&date_from=%s&date_to=%s",
			slotsURL, typeID, staffID, day.Format("2006-01-02"), day.Format("2006-01-02"))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, listURL, nil)
		require.Equal(t, http.StatusOK, w.Code, "Response: %s", w.Body.String())

		var before response.SlotListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &before))
		require.Equal(t, 6, before.Count, "three hours of 30-minute slots expected")

		nineAM := day.Add(9 * time.Hour)
		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			reserveRequest(staffID, branchID, typeID, nineAM))
		require.Equal(t, http.StatusCreated, bw.Code, "Response: %s", bw.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, listURL, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var after response.SlotListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &after))
		require.Equal(t, 5, after.Count, "the booked slot should be carved out")
		for _, sl := range after.Slots {
			require.False(t, sl.Start.Equal(nineAM), "booked slot still listed")
		}
	})

	s.Run("Normal case: Cancelling the booking frees the slot again", func() {
		t := s.T()

		typeID := uuid.New()
		staffID := uuid.New()
		branchID := uuid.New()
		require.NoError(t, dbtest.SeedTypeRule(s.DB, typeID, []uuid.UUID{staffID}))

		day := nextMonday()
		weekday := (int(day.Weekday()) + 6) % 7
		require.NoError(t, dbtest.SeedWorkingHours(s.DB, staffID, branchID, weekday, 9*60, 12*60))

		nineAM := day.Add(9 * time.Hour)
		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			reserveRequest(staffID, branchID, typeID, nineAM))
		require.Equal(t, http.StatusCreated, bw.Code)

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, bw.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+created.ID.String()+"/cancel", nil)
		require.Equal(t, http.StatusNoContent, cw.Code, "Response: %s", cw.Body.String())

		listURL := fmt.Sprintf("%s?type_id=%s&staff_id=%s&date_from=%s&date_to=%s",
			slotsURL, typeID, staffID, day.Format("2006-01-02"), day.Format("2006-01-02"))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, listURL, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var listing response.SlotListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &listing))
		require.Equal(t, 6, listing.Count, "cancelled booking should not block the grid")
	})
}
