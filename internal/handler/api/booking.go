package api

import (
	"context"
	"errors"
	"net/http"

	"clinic-scheduler/internal/domain/booking"
	reqdto "clinic-scheduler/internal/handler/dto/request"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	source := booking.SourceManual
	if req.Source != "" {
		source = booking.Source(req.Source)
	}

	b, err := h.bookingCommands.Reserve(c.Request.Context(), commands.ReserveParams{
		StaffID:   req.StaffID,
		BranchID:  req.BranchID,
		RoomID:    req.RoomID,
		TypeID:    req.TypeID,
		PatientID: req.PatientID,
		Start:     req.StartsAt,
		End:       req.EndsAt,
		Source:    source,
		Note:      req.Note,
		AsDraft:   req.Draft,
	})
	if err != nil {
		h.renderCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBooking(b))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}
	v, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errs.Is(err, queries.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(v))
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context)  { h.lifecycle(c, h.bookingCommands.Confirm) }
func (h *BookingHandler) CancelBooking(c *gin.Context)   { h.lifecycle(c, h.bookingCommands.Cancel) }
func (h *BookingHandler) CompleteBooking(c *gin.Context) { h.lifecycle(c, h.bookingCommands.Complete) }
func (h *BookingHandler) MarkNoShow(c *gin.Context)      { h.lifecycle(c, h.bookingCommands.MarkNoShow) }

func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}
	var req reqdto.RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	b, err := h.bookingCommands.Reschedule(c.Request.Context(), commands.RescheduleParams{
		BookingID: id,
		Start:     req.StartsAt,
		End:       req.EndsAt,
		RoomID:    req.RoomID,
	})
	if err != nil {
		h.renderCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

func (h *BookingHandler) lifecycle(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		h.renderCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) renderCommandError(c *gin.Context, err error) {
	var conflict *commands.SlotConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":                  "Slot already booked",
			"conflicting_booking_id": conflict.ConflictingBookingID,
		})
	case errs.Is(err, commands.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot already booked"})
	case errs.Is(err, commands.ErrTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment type not found"})
	case errs.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errs.Is(err, commands.ErrOnlineNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": "Online booking not permitted for this appointment type"})
	case errs.Is(err, commands.ErrPastStart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking cannot start in the past"})
	case errs.Is(err, commands.ErrMinNoticeViolated):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking violates minimum notice"})
	case errs.Is(err, commands.ErrWindowClosed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Lead-time window for this change has closed"})
	case errs.Is(err, commands.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid booking status transition"})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
