package readstore

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/pkg/pgconv"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingReadStore serves the generation path with bulk interval lookups.
// Cancelled and no-show bookings never block the schedule, so they are
// filtered at the query level.
type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

// IntervalsByStaff returns the blocking booking intervals per staff member
// that overlap [from, to), in one query.
func (s *BookingReadStore) IntervalsByStaff(ctx context.Context, staffIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]booking.Interval, error) {
	rows, err := s.db.Query(ctx, `
		SELECT staff_id, starts_at, ends_at
		FROM bookings
		WHERE staff_id = ANY($1)
		  AND status NOT IN ('cancelled', 'no_show')
		  AND starts_at < $3 AND ends_at > $2
		ORDER BY staff_id, starts_at`, staffIDs, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load staff booking intervals", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]booking.Interval)
	for rows.Next() {
		var (
			staffID          uuid.UUID
			startsAt, endsAt time.Time
		)
		if err := rows.Scan(&staffID, &startsAt, &endsAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking interval", err)
		}
		iv, err := booking.NewInterval(startsAt, endsAt)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking interval in storage", err)
		}
		out[staffID] = append(out[staffID], iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking intervals", err)
	}
	return out, nil
}

// IntervalsByRoom returns the blocking booking intervals per room that
// overlap [from, to). Bookings without a room assignment are skipped.
func (s *BookingReadStore) IntervalsByRoom(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]booking.Interval, error) {
	rows, err := s.db.Query(ctx, `
		SELECT room_id, starts_at, ends_at
		FROM bookings
		WHERE room_id = ANY($1)
		  AND status NOT IN ('cancelled', 'no_show')
		  AND starts_at < $3 AND ends_at > $2
		ORDER BY room_id, starts_at`, roomIDs, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load room booking intervals", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]booking.Interval)
	for rows.Next() {
		var (
			roomID           uuid.UUID
			startsAt, endsAt time.Time
		)
		if err := rows.Scan(&roomID, &startsAt, &endsAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room booking interval", err)
		}
		iv, err := booking.NewInterval(startsAt, endsAt)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking interval in storage", err)
		}
		out[roomID] = append(out[roomID], iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate room booking intervals", err)
	}
	return out, nil
}

const bookingViewCols = `id, staff_id, branch_id, room_id, type_id, patient_id,
	starts_at, ends_at, status, source, note, created_at, updated_at`

// FindView loads the read model of one booking.
func (s *BookingReadStore) FindView(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+bookingViewCols+`
		FROM bookings
		WHERE id = $1`, id)

	v, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking view", err)
	}
	return v, nil
}

// ListViewsByStaff lists a staff member's bookings overlapping [from, to) in
// start order.
func (s *BookingReadStore) ListViewsByStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*queries.BookingView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+bookingViewCols+`
		FROM bookings
		WHERE staff_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at`, staffID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*queries.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking views", err)
	}
	return out, nil
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var (
		v      queries.BookingView
		roomID pgtype.UUID
	)
	if err := row.Scan(&v.ID, &v.StaffID, &v.BranchID, &roomID, &v.TypeID, &v.PatientID,
		&v.StartsAt, &v.EndsAt, &v.Status, &v.Source, &v.Note, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.RoomID = pgconv.UUIDPtrFromPgtype(roomID)
	return &v, nil
}
