package readstore

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/domain/slot"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ScheduleReadStore bulk-loads working-hours rules and availability
// exceptions. Each method is one query regardless of staff-set size; the
// generation path depends on that.
type ScheduleReadStore struct {
	db db.DBTX
}

func NewScheduleReadStore(dbtx db.DBTX) *ScheduleReadStore {
	return &ScheduleReadStore{db: dbtx}
}

const workingHoursCols = `id, staff_id, branch_id, weekday, start_min, end_min,
	break_start_min, break_end_min, slot_duration_min, room_ids, date_from, date_to,
	created_at, updated_at`

// WorkingHoursByStaff loads every weekly rule for the given staff set in one
// query, grouped by staff member.
func (s *ScheduleReadStore) WorkingHoursByStaff(ctx context.Context, staffIDs []uuid.UUID) (map[uuid.UUID][]*schedule.WorkingHoursRule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+workingHoursCols+`
		FROM working_hours_rules
		WHERE staff_id = ANY($1)
		ORDER BY staff_id, weekday`, staffIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load working hours", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]*schedule.WorkingHoursRule)
	for rows.Next() {
		rule, err := scanWorkingHoursRule(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan working hours rule", err)
		}
		out[rule.StaffID()] = append(out[rule.StaffID()], rule)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate working hours", err)
	}
	return out, nil
}

// ExceptionsByStaff loads every availability exception for the staff set in
// the date range, keyed by staff then by date.
func (s *ScheduleReadStore) ExceptionsByStaff(ctx context.Context, staffIDs []uuid.UUID, dateFrom, dateTo time.Time) (map[uuid.UUID]map[string]*schedule.AvailabilityException, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, staff_id, date, kind, start_min, end_min, reason
		FROM availability_exceptions
		WHERE staff_id = ANY($1) AND date BETWEEN $2 AND $3
		ORDER BY staff_id, date`, staffIDs, dateFrom, dateTo)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load availability exceptions", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]map[string]*schedule.AvailabilityException)
	for rows.Next() {
		exc, err := scanException(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan availability exception", err)
		}
		byDate, ok := out[exc.StaffID()]
		if !ok {
			byDate = make(map[string]*schedule.AvailabilityException)
			out[exc.StaffID()] = byDate
		}
		byDate[slot.DateKey(exc.Date())] = exc
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate availability exceptions", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkingHoursRule(row rowScanner) (*schedule.WorkingHoursRule, error) {
	var (
		id, staffID, branchID uuid.UUID
		weekday               int16
		startMin, endMin      int16
		breakStart, breakEnd  pgtype.Int2
		slotDurationMin       int16
		roomIDs               []uuid.UUID
		dateFrom, dateTo      pgtype.Date
		createdAt, updatedAt  time.Time
	)
	if err := row.Scan(&id, &staffID, &branchID, &weekday, &startMin, &endMin,
		&breakStart, &breakEnd, &slotDurationMin, &roomIDs, &dateFrom, &dateTo,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var breakSpan *schedule.Span
	if breakStart.Valid && breakEnd.Valid {
		breakSpan = &schedule.Span{
			From: schedule.MinuteOfDay(breakStart.Int16),
			To:   schedule.MinuteOfDay(breakEnd.Int16),
		}
	}
	var from, to *time.Time
	if dateFrom.Valid {
		from = &dateFrom.Time
	}
	if dateTo.Valid {
		to = &dateTo.Time
	}

	return schedule.ReconstructWorkingHoursRule(
		id, staffID, branchID,
		schedule.Weekday(weekday),
		schedule.MinuteOfDay(startMin), schedule.MinuteOfDay(endMin),
		breakSpan,
		time.Duration(slotDurationMin)*time.Minute,
		roomIDs,
		from, to,
		createdAt, updatedAt,
	), nil
}

func scanException(row rowScanner) (*schedule.AvailabilityException, error) {
	var (
		id, staffID      uuid.UUID
		date             time.Time
		kind             string
		startMin, endMin pgtype.Int2
		reason           pgtype.Text
	)
	if err := row.Scan(&id, &staffID, &date, &kind, &startMin, &endMin, &reason); err != nil {
		return nil, err
	}

	var window *schedule.Span
	if startMin.Valid && endMin.Valid {
		window = &schedule.Span{
			From: schedule.MinuteOfDay(startMin.Int16),
			To:   schedule.MinuteOfDay(endMin.Int16),
		}
	}

	return schedule.ReconstructAvailabilityException(
		id, staffID, date,
		schedule.ExceptionKind(kind),
		window,
		reason.String,
	), nil
}
