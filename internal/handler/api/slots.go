package api

import (
	"net/http"
	"time"

	reqdto "clinic-scheduler/internal/handler/dto/request"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	slotQueries queries.SlotQueries
	engineCfg   config.EngineConfig
}

func NewSlotHandler(slotQueries queries.SlotQueries, engineCfg config.EngineConfig) *SlotHandler {
	return &SlotHandler{
		slotQueries: slotQueries,
		engineCfg:   engineCfg,
	}
}

// ListSlots returns the candidate slots for an appointment type over a date
// range, optionally narrowed to one staff member.
func (h *SlotHandler) ListSlots(c *gin.Context) {
	var req reqdto.ListSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	from, to, err := req.Dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}
	typeID, err := req.Type()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type_id"})
		return
	}
	staffID, err := req.Staff()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff_id"})
		return
	}

	slots, err := h.slotQueries.Generate(c.Request.Context(), queries.GenerateParams{
		TypeID:   typeID,
		StaffID:  staffID,
		DateFrom: from,
		DateTo:   to,
		Timezone: h.timezone(req.Timezone),
	})
	if err != nil {
		h.renderQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlots(slots))
}

// NextSlot returns the earliest available slot at or after the given date.
func (h *SlotHandler) NextSlot(c *gin.Context) {
	var req reqdto.NextSlotRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	from, err := req.FromDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}
	if from.IsZero() {
		from = time.Now().UTC().Truncate(24 * time.Hour)
	}
	typeID, err := req.Type()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type_id"})
		return
	}
	staffID, err := req.Staff()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff_id"})
		return
	}

	s, err := h.slotQueries.NextAvailableSlot(c.Request.Context(), queries.GenerateParams{
		TypeID:   typeID,
		StaffID:  staffID,
		DateFrom: from,
		Timezone: h.timezone(req.Timezone),
	})
	if err != nil {
		h.renderQueryError(c, err)
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No available slot within the booking horizon"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlot(*s))
}

// CheckSlot confirms a single (staff, start) candidate.
func (h *SlotHandler) CheckSlot(c *gin.Context) {
	var req reqdto.CheckSlotRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	typeID, err := req.Type()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type_id"})
		return
	}
	staffID, err := req.Staff()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff_id"})
		return
	}

	result, err := h.slotQueries.CheckAvailability(c.Request.Context(), queries.CheckParams{
		TypeID:   typeID,
		StaffID:  staffID,
		Start:    req.Start,
		Timezone: h.timezone(req.Timezone),
	})
	if err != nil {
		h.renderQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SlotHandler) timezone(requested string) string {
	if requested != "" {
		return requested
	}
	return h.engineCfg.Timezone
}

func (h *SlotHandler) renderQueryError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, queries.ErrRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment type not found"})
	case errs.Is(err, queries.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
	case errs.Is(err, queries.ErrInvalidTimezone):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timezone"})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
