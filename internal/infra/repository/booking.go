package repository

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const bookingCols = `id, staff_id, branch_id, room_id, type_id, patient_id,
	starts_at, ends_at, status, source, note, created_at, updated_at`

// LockSchedule serializes writers on the same staff member (and room) for the
// duration of the surrounding transaction. Takes xact-scoped advisory locks,
// so the caller must hold an open transaction.
func (r *BookingRepository) LockSchedule(ctx context.Context, staffID uuid.UUID, roomID *uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, staffID); err != nil {
		return infra.WrapRepoErr("failed to lock staff schedule", err)
	}
	if roomID != nil {
		if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 1))`, *roomID); err != nil {
			return infra.WrapRepoErr("failed to lock room schedule", err)
		}
	}
	return nil
}

// FindConflicting returns the id of a blocking booking that overlaps the
// interval for the staff member or room, excluding excludeID when rescheduling
// an existing booking. Back-to-back bookings do not conflict.
func (r *BookingRepository) FindConflicting(ctx context.Context, staffID uuid.UUID, roomID *uuid.UUID, iv booking.Interval, excludeID *uuid.UUID) (*uuid.UUID, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id
		FROM bookings
		WHERE (staff_id = $1 OR room_id = $2)
		  AND status NOT IN ('cancelled', 'no_show')
		  AND starts_at < $4 AND ends_at > $3
		  AND ($5::uuid IS NULL OR id <> $5)
		ORDER BY starts_at
		LIMIT 1`,
		staffID, pgconv.UUIDPtrToPgtype(roomID), iv.Start(), iv.End(), pgconv.UUIDPtrToPgtype(excludeID))

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to check booking conflicts", err)
	}
	return &id, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (`+bookingCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`,
		b.ID(), b.StaffID(), b.BranchID(), pgconv.UUIDPtrToPgtype(b.RoomID()), b.TypeID(), b.PatientID(),
		b.Interval().Start(), b.Interval().End(), string(b.Status()), string(b.Source()), b.Note())
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err, kindFromPgErr(err))
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+bookingCols+`
		FROM bookings
		WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking", err)
	}
	return b, nil
}

// Update persists the mutable fields of an existing booking.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET starts_at = $2, ends_at = $3, room_id = $4, status = $5, note = $6, updated_at = now()
		WHERE id = $1`,
		b.ID(), b.Interval().Start(), b.Interval().End(), pgconv.UUIDPtrToPgtype(b.RoomID()),
		string(b.Status()), b.Note())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err, kindFromPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, staffID, branchID uuid.UUID
		roomID                pgtype.UUID
		typeID, patientID     uuid.UUID
		startsAt, endsAt      time.Time
		status, source, note  string
		createdAt, updatedAt  time.Time
	)
	if err := row.Scan(&id, &staffID, &branchID, &roomID, &typeID, &patientID,
		&startsAt, &endsAt, &status, &source, &note, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	iv, err := booking.NewInterval(startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(
		id, staffID, branchID, typeID, patientID,
		pgconv.UUIDPtrFromPgtype(roomID), iv,
		booking.Status(status), booking.Source(source), note,
		createdAt, updatedAt,
	), nil
}
