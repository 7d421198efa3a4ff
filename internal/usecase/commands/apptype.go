package commands

import (
	"context"
	"log/slog"
	"time"

	"clinic-scheduler/internal/domain/apptype"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrTypeRuleNotFound = errs.New("appointment type rule not found")

type TypeRuleParams struct {
	Name                 string
	DefaultDuration      time.Duration
	BufferBefore         time.Duration
	BufferAfter          time.Duration
	CapacityPerSlot      int
	AllowedStaffIDs      []uuid.UUID
	AllowOnlineBooking   bool
	MinNoticeHours       float64
	MaxDaysAhead         int
	CancelLimitHours     float64
	RescheduleLimitHours float64
}

type TypeRuleCommands interface {
	Create(ctx context.Context, p TypeRuleParams) (*apptype.Rule, error)
	Update(ctx context.Context, id uuid.UUID, p TypeRuleParams) error
}

type typeRuleCommandsImpl struct {
	uow   shared.UnitOfWork
	cache cache.SlotCache
}

func NewTypeRuleCommands(uow shared.UnitOfWork, slotCache cache.SlotCache) TypeRuleCommands {
	return &typeRuleCommandsImpl{uow: uow, cache: slotCache}
}

func (c *typeRuleCommandsImpl) Create(ctx context.Context, p TypeRuleParams) (*apptype.Rule, error) {
	rule, err := buildTypeRule(p)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.TypeRules().Create(ctx, rule)
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// Update rewrites the rule and expires every cached slot list derived from
// it. Duration, buffer, and capacity changes all alter the emitted grid.
func (c *typeRuleCommandsImpl) Update(ctx context.Context, id uuid.UUID, p TypeRuleParams) error {
	rule, err := buildTypeRule(p)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}
	rule = rule.WithID(id)
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.TypeRules().Update(ctx, rule); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrTypeRuleNotFound)
			}
			return err
		}
		if err := c.cache.Invalidate(ctx, cache.TypeTag(id)); err != nil {
			slog.Warn("slot cache invalidation failed", "error", err.Error())
		}
		return nil
	})
}

func buildTypeRule(p TypeRuleParams) (*apptype.Rule, error) {
	return apptype.NewRule(
		p.Name,
		p.DefaultDuration, p.BufferBefore, p.BufferAfter,
		p.CapacityPerSlot,
		p.AllowedStaffIDs,
		p.AllowOnlineBooking,
		p.MinNoticeHours,
		p.MaxDaysAhead,
		p.CancelLimitHours, p.RescheduleLimitHours,
	)
}
