package commands

import (
	"context"
	"log/slog"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRuleNotFound     = errs.New("working hours rule not found")
	ErrExcNotFound      = errs.New("availability exception not found")
	ErrDomainValidation = errs.New("domain validation error")
)

type WorkingHoursParams struct {
	StaffID      uuid.UUID
	BranchID     uuid.UUID
	Weekday      int
	Start        string // "HH:MM"
	End          string
	BreakStart   *string
	BreakEnd     *string
	SlotDuration time.Duration
	RoomIDs      []uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
}

type ExceptionParams struct {
	StaffID     uuid.UUID
	Date        time.Time
	Kind        schedule.ExceptionKind
	WindowStart *string
	WindowEnd   *string
	Reason      string
}

type ScheduleCommands interface {
	CreateWorkingHours(ctx context.Context, p WorkingHoursParams) (*schedule.WorkingHoursRule, error)
	UpdateWorkingHours(ctx context.Context, id uuid.UUID, p WorkingHoursParams) error
	DeleteWorkingHours(ctx context.Context, id uuid.UUID) error
	CreateException(ctx context.Context, p ExceptionParams) (*schedule.AvailabilityException, error)
	DeleteException(ctx context.Context, id uuid.UUID) error
}

type scheduleCommandsImpl struct {
	uow   shared.UnitOfWork
	cache cache.SlotCache
}

func NewScheduleCommands(uow shared.UnitOfWork, slotCache cache.SlotCache) ScheduleCommands {
	return &scheduleCommandsImpl{uow: uow, cache: slotCache}
}

func (c *scheduleCommandsImpl) CreateWorkingHours(ctx context.Context, p WorkingHoursParams) (*schedule.WorkingHoursRule, error) {
	rule, err := buildWorkingHoursRule(p)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Schedule().CreateWorkingHours(ctx, rule); err != nil {
			return err
		}
		c.invalidateStaff(ctx, p.StaffID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (c *scheduleCommandsImpl) UpdateWorkingHours(ctx context.Context, id uuid.UUID, p WorkingHoursParams) error {
	rule, err := buildWorkingHoursRule(p)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}
	rule = rule.WithID(id)
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Schedule().UpdateWorkingHours(ctx, rule); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrRuleNotFound)
			}
			return err
		}
		c.invalidateStaff(ctx, p.StaffID)
		return nil
	})
}

func (c *scheduleCommandsImpl) DeleteWorkingHours(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		staffID, err := tx.Schedule().FindWorkingHoursStaff(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrRuleNotFound)
			}
			return err
		}
		if err := tx.Schedule().DeleteWorkingHours(ctx, id); err != nil {
			return err
		}
		c.invalidateStaff(ctx, staffID)
		return nil
	})
}

func (c *scheduleCommandsImpl) CreateException(ctx context.Context, p ExceptionParams) (*schedule.AvailabilityException, error) {
	window, err := parseSpan(p.WindowStart, p.WindowEnd)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	exc, err := schedule.NewAvailabilityException(p.StaffID, p.Date, p.Kind, window, p.Reason)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Schedule().CreateException(ctx, exc); err != nil {
			return err
		}
		c.invalidateStaff(ctx, p.StaffID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exc, nil
}

func (c *scheduleCommandsImpl) DeleteException(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		staffID, err := tx.Schedule().FindExceptionStaff(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrExcNotFound)
			}
			return err
		}
		if err := tx.Schedule().DeleteException(ctx, id); err != nil {
			return err
		}
		c.invalidateStaff(ctx, staffID)
		return nil
	})
}

func (c *scheduleCommandsImpl) invalidateStaff(ctx context.Context, staffID uuid.UUID) {
	if err := c.cache.Invalidate(ctx, cache.StaffTag(staffID)); err != nil {
		slog.Warn("slot cache invalidation failed", "error", err.Error())
	}
}

func buildWorkingHoursRule(p WorkingHoursParams) (*schedule.WorkingHoursRule, error) {
	start, err := schedule.ParseClock(p.Start)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseClock(p.End)
	if err != nil {
		return nil, err
	}
	breakSpan, err := parseSpan(p.BreakStart, p.BreakEnd)
	if err != nil {
		return nil, err
	}
	return schedule.NewWorkingHoursRule(
		p.StaffID, p.BranchID,
		schedule.Weekday(p.Weekday),
		start, end, breakSpan,
		p.SlotDuration, p.RoomIDs,
		p.DateFrom, p.DateTo,
	)
}

func parseSpan(fromStr, toStr *string) (*schedule.Span, error) {
	if fromStr == nil || toStr == nil {
		return nil, nil
	}
	from, err := schedule.ParseClock(*fromStr)
	if err != nil {
		return nil, err
	}
	to, err := schedule.ParseClock(*toStr)
	if err != nil {
		return nil, err
	}
	return &schedule.Span{From: from, To: to}, nil
}
