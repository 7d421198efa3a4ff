package readstore

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/apptype"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type TypeRuleReadStore struct {
	db db.DBTX
}

func NewTypeRuleReadStore(dbtx db.DBTX) *TypeRuleReadStore {
	return &TypeRuleReadStore{db: dbtx}
}

const typeRuleCols = `id, name, default_duration_min, buffer_before_min, buffer_after_min,
	capacity_per_slot, allowed_staff_ids, allow_online_booking, min_notice_hours,
	max_days_ahead, cancel_limit_hours, reschedule_limit_hours, created_at, updated_at`

func (s *TypeRuleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*apptype.Rule, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+typeRuleCols+`
		FROM appointment_type_rules
		WHERE id = $1`, id)

	rule, err := scanTypeRule(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment type not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load appointment type", err)
	}
	return rule, nil
}

func scanTypeRule(row rowScanner) (*apptype.Rule, error) {
	var (
		id                                 uuid.UUID
		name                               string
		durationMin, bufBefore, bufAfter   int16
		capacity                           int16
		allowedStaffIDs                    []uuid.UUID
		allowOnline                        bool
		minNoticeHours                     float64
		maxDaysAhead                       int16
		cancelLimitHours, rescheduleLimitH float64
		createdAt, updatedAt               time.Time
	)
	if err := row.Scan(&id, &name, &durationMin, &bufBefore, &bufAfter,
		&capacity, &allowedStaffIDs, &allowOnline, &minNoticeHours,
		&maxDaysAhead, &cancelLimitHours, &rescheduleLimitH,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return apptype.Reconstruct(
		id, name,
		time.Duration(durationMin)*time.Minute,
		time.Duration(bufBefore)*time.Minute,
		time.Duration(bufAfter)*time.Minute,
		int(capacity),
		allowedStaffIDs,
		allowOnline,
		minNoticeHours,
		int(maxDaysAhead),
		cancelLimitHours, rescheduleLimitH,
		createdAt, updatedAt,
	), nil
}
