package repository

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/apptype"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"
)

type TypeRuleRepository struct {
	db db.DBTX
}

func NewTypeRuleRepository(dbtx db.DBTX) *TypeRuleRepository {
	return &TypeRuleRepository{db: dbtx}
}

func (r *TypeRuleRepository) Create(ctx context.Context, rule *apptype.Rule) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointment_type_rules
			(id, name, default_duration_min, buffer_before_min, buffer_after_min,
			 capacity_per_slot, allowed_staff_ids, allow_online_booking,
			 min_notice_hours, max_days_ahead, cancel_limit_hours,
			 reschedule_limit_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`,
		rule.ID(), rule.Name(),
		int16(rule.DefaultDuration()/time.Minute),
		int16(rule.BufferBefore()/time.Minute),
		int16(rule.BufferAfter()/time.Minute),
		int16(rule.CapacityPerSlot()), rule.AllowedStaffIDs(), rule.AllowOnlineBooking(),
		rule.MinNoticeHours(), int16(rule.MaxDaysAhead()),
		rule.CancelLimitHours(), rule.RescheduleLimitHours())
	if err != nil {
		return infra.WrapRepoErr("failed to create appointment type rule", err, kindFromPgErr(err))
	}
	return nil
}

func (r *TypeRuleRepository) Update(ctx context.Context, rule *apptype.Rule) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointment_type_rules
		SET name = $2, default_duration_min = $3, buffer_before_min = $4,
		    buffer_after_min = $5, capacity_per_slot = $6, allowed_staff_ids = $7,
		    allow_online_booking = $8, min_notice_hours = $9, max_days_ahead = $10,
		    cancel_limit_hours = $11, reschedule_limit_hours = $12, updated_at = now()
		WHERE id = $1`,
		rule.ID(), rule.Name(),
		int16(rule.DefaultDuration()/time.Minute),
		int16(rule.BufferBefore()/time.Minute),
		int16(rule.BufferAfter()/time.Minute),
		int16(rule.CapacityPerSlot()), rule.AllowedStaffIDs(), rule.AllowOnlineBooking(),
		rule.MinNoticeHours(), int16(rule.MaxDaysAhead()),
		rule.CancelLimitHours(), rule.RescheduleLimitHours())
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment type rule", err, kindFromPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment type rule not found", nil, infra.KindNotFound)
	}
	return nil
}
