package api

import (
	"net/http"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	reqdto "clinic-scheduler/internal/handler/dto/request"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScheduleHandler struct {
	scheduleCommands commands.ScheduleCommands
	typeRuleCommands commands.TypeRuleCommands
}

func NewScheduleHandler(scheduleCommands commands.ScheduleCommands, typeRuleCommands commands.TypeRuleCommands) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleCommands: scheduleCommands,
		typeRuleCommands: typeRuleCommands,
	}
}

func (h *ScheduleHandler) CreateWorkingHours(c *gin.Context) {
	p, ok := h.bindWorkingHours(c)
	if !ok {
		return
	}
	rule, err := h.scheduleCommands.CreateWorkingHours(c.Request.Context(), p)
	if err != nil {
		h.renderScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromWorkingHours(rule))
}

func (h *ScheduleHandler) UpdateWorkingHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
		return
	}
	p, ok := h.bindWorkingHours(c)
	if !ok {
		return
	}
	if err := h.scheduleCommands.UpdateWorkingHours(c.Request.Context(), id, p); err != nil {
		h.renderScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) DeleteWorkingHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
		return
	}
	if err := h.scheduleCommands.DeleteWorkingHours(c.Request.Context(), id); err != nil {
		h.renderScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) CreateException(c *gin.Context) {
	var req reqdto.ExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	date, err := req.ParsedDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	exc, err := h.scheduleCommands.CreateException(c.Request.Context(), commands.ExceptionParams{
		StaffID:     req.StaffID,
		Date:        date,
		Kind:        schedule.ExceptionKind(req.Kind),
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		Reason:      req.Reason,
	})
	if err != nil {
		h.renderScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromException(exc))
}

func (h *ScheduleHandler) DeleteException(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exception ID"})
		return
	}
	if err := h.scheduleCommands.DeleteException(c.Request.Context(), id); err != nil {
		h.renderScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) CreateTypeRule(c *gin.Context) {
	p, ok := h.bindTypeRule(c)
	if !ok {
		return
	}
	rule, err := h.typeRuleCommands.Create(c.Request.Context(), p)
	if err != nil {
		h.renderScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rule.ID()})
}

func (h *ScheduleHandler) UpdateTypeRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type rule ID"})
		return
	}
	p, ok := h.bindTypeRule(c)
	if !ok {
		return
	}
	if err := h.typeRuleCommands.Update(c.Request.Context(), id, p); err != nil {
		h.renderScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) bindWorkingHours(c *gin.Context) (commands.WorkingHoursParams, bool) {
	var req reqdto.WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return commands.WorkingHoursParams{}, false
	}
	dateFrom, dateTo, err := req.DateBounds()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return commands.WorkingHoursParams{}, false
	}
	return commands.WorkingHoursParams{
		StaffID:      req.StaffID,
		BranchID:     req.BranchID,
		Weekday:      *req.Weekday,
		Start:        req.Start,
		End:          req.End,
		BreakStart:   req.BreakStart,
		BreakEnd:     req.BreakEnd,
		SlotDuration: time.Duration(req.SlotDurationMin) * time.Minute,
		RoomIDs:      req.RoomIDs,
		DateFrom:     dateFrom,
		DateTo:       dateTo,
	}, true
}

func (h *ScheduleHandler) bindTypeRule(c *gin.Context) (commands.TypeRuleParams, bool) {
	var req reqdto.TypeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return commands.TypeRuleParams{}, false
	}
	return commands.TypeRuleParams{
		Name:                 req.Name,
		DefaultDuration:      time.Duration(req.DefaultDurationMin) * time.Minute,
		BufferBefore:         time.Duration(req.BufferBeforeMin) * time.Minute,
		BufferAfter:          time.Duration(req.BufferAfterMin) * time.Minute,
		CapacityPerSlot:      req.CapacityPerSlot,
		AllowedStaffIDs:      req.AllowedStaffIDs,
		AllowOnlineBooking:   req.AllowOnlineBooking,
		MinNoticeHours:       req.MinNoticeHours,
		MaxDaysAhead:         req.MaxDaysAhead,
		CancelLimitHours:     req.CancelLimitHours,
		RescheduleLimitHours: req.RescheduleLimitHours,
	}, true
}

func (h *ScheduleHandler) renderScheduleError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
	case errs.Is(err, commands.ErrRuleNotFound),
		errs.Is(err, commands.ErrExcNotFound),
		errs.Is(err, commands.ErrTypeRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case infra.IsKind(err, infra.KindDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "A conflicting record already exists"})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
