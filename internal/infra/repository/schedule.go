package repository

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ScheduleRepository struct {
	db db.DBTX
}

func NewScheduleRepository(dbtx db.DBTX) *ScheduleRepository {
	return &ScheduleRepository{db: dbtx}
}

func (r *ScheduleRepository) CreateWorkingHours(ctx context.Context, rule *schedule.WorkingHoursRule) error {
	var breakStart, breakEnd pgtype.Int2
	if br := rule.Break(); br != nil {
		breakStart = pgtype.Int2{Int16: int16(br.From), Valid: true}
		breakEnd = pgtype.Int2{Int16: int16(br.To), Valid: true}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO working_hours_rules
			(id, staff_id, branch_id, weekday, start_min, end_min,
			 break_start_min, break_end_min, slot_duration_min, room_ids,
			 date_from, date_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`,
		rule.ID(), rule.StaffID(), rule.BranchID(), int16(rule.Weekday()),
		int16(rule.Start()), int16(rule.End()), breakStart, breakEnd,
		int16(rule.SlotDuration()/time.Minute), rule.RoomIDs(),
		datePtr(rule.DateFrom()), datePtr(rule.DateTo()))
	if err != nil {
		return infra.WrapRepoErr("failed to create working hours rule", err, kindFromPgErr(err))
	}
	return nil
}

func (r *ScheduleRepository) UpdateWorkingHours(ctx context.Context, rule *schedule.WorkingHoursRule) error {
	var breakStart, breakEnd pgtype.Int2
	if br := rule.Break(); br != nil {
		breakStart = pgtype.Int2{Int16: int16(br.From), Valid: true}
		breakEnd = pgtype.Int2{Int16: int16(br.To), Valid: true}
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE working_hours_rules
		SET weekday = $2, start_min = $3, end_min = $4,
		    break_start_min = $5, break_end_min = $6, slot_duration_min = $7,
		    room_ids = $8, date_from = $9, date_to = $10, updated_at = now()
		WHERE id = $1`,
		rule.ID(), int16(rule.Weekday()), int16(rule.Start()), int16(rule.End()),
		breakStart, breakEnd, int16(rule.SlotDuration()/time.Minute),
		rule.RoomIDs(), datePtr(rule.DateFrom()), datePtr(rule.DateTo()))
	if err != nil {
		return infra.WrapRepoErr("failed to update working hours rule", err, kindFromPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("working hours rule not found", nil, infra.KindNotFound)
	}
	return nil
}

// FindWorkingHoursStaff resolves the owning staff member of a rule, used to
// tag cache invalidation on schedule changes.
func (r *ScheduleRepository) FindWorkingHoursStaff(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var staffID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT staff_id FROM working_hours_rules WHERE id = $1`, id).Scan(&staffID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("working hours rule not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to load working hours rule", err)
	}
	return staffID, nil
}

func (r *ScheduleRepository) DeleteWorkingHours(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM working_hours_rules WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete working hours rule", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("working hours rule not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ScheduleRepository) CreateException(ctx context.Context, exc *schedule.AvailabilityException) error {
	var startMin, endMin pgtype.Int2
	if w := exc.Window(); w != nil {
		startMin = pgtype.Int2{Int16: int16(w.From), Valid: true}
		endMin = pgtype.Int2{Int16: int16(w.To), Valid: true}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO availability_exceptions
			(id, staff_id, date, kind, start_min, end_min, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		exc.ID(), exc.StaffID(), exc.Date(), string(exc.Kind()), startMin, endMin, exc.Reason())
	if err != nil {
		return infra.WrapRepoErr("failed to create availability exception", err, kindFromPgErr(err))
	}
	return nil
}

// FindExceptionStaff resolves the owning staff member of an exception.
func (r *ScheduleRepository) FindExceptionStaff(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var staffID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT staff_id FROM availability_exceptions WHERE id = $1`, id).Scan(&staffID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("availability exception not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to load availability exception", err)
	}
	return staffID, nil
}

func (r *ScheduleRepository) DeleteException(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_exceptions WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete availability exception", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("availability exception not found", nil, infra.KindNotFound)
	}
	return nil
}

func datePtr(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
