package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrBookingTerminal    = errors.New("booking is in a terminal state")
	ErrWindowClosed       = errors.New("lead-time window for this change has closed")
	ErrPastStart          = errors.New("booking cannot start in the past")
	ErrOnlineNotPermitted = errors.New("online booking not permitted for this appointment type")
)

// Booking is a committed appointment interval for a staff member. It is the
// only persisted output of the engine; slots are derived and never
// authoritative.
type Booking struct {
	id        uuid.UUID
	staffID   uuid.UUID
	branchID  uuid.UUID
	roomID    *uuid.UUID
	typeID    uuid.UUID
	patientID uuid.UUID
	interval  Interval
	status    Status
	source    Source
	note      string
	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(
	staffID, branchID, typeID, patientID uuid.UUID,
	roomID *uuid.UUID,
	interval Interval,
	source Source,
	note string,
	now time.Time,
) (*Booking, error) {
	return newWithStatus(staffID, branchID, typeID, patientID, roomID, interval, StatusConfirmed, source, note, now)
}

// NewDraft creates a booking that holds its interval on the schedule but
// still needs an explicit confirmation before it counts as committed.
func NewDraft(
	staffID, branchID, typeID, patientID uuid.UUID,
	roomID *uuid.UUID,
	interval Interval,
	source Source,
	note string,
	now time.Time,
) (*Booking, error) {
	return newWithStatus(staffID, branchID, typeID, patientID, roomID, interval, StatusDraft, source, note, now)
}

func newWithStatus(
	staffID, branchID, typeID, patientID uuid.UUID,
	roomID *uuid.UUID,
	interval Interval,
	status Status,
	source Source,
	note string,
	now time.Time,
) (*Booking, error) {
	if interval.Start().Before(now) {
		return nil, ErrPastStart
	}
	return &Booking{
		id:        uuid.New(),
		staffID:   staffID,
		branchID:  branchID,
		roomID:    roomID,
		typeID:    typeID,
		patientID: patientID,
		interval:  interval,
		status:    status,
		source:    source,
		note:      note,
	}, nil
}

func Reconstruct(
	id, staffID, branchID, typeID, patientID uuid.UUID,
	roomID *uuid.UUID,
	interval Interval,
	status Status,
	source Source,
	note string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		staffID:   staffID,
		branchID:  branchID,
		roomID:    roomID,
		typeID:    typeID,
		patientID: patientID,
		interval:  interval,
		status:    status,
		source:    source,
		note:      note,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Transition moves the booking to the target status, enforcing the
// append-only lifecycle.
func (b *Booking) Transition(to Status) error {
	if b.status.IsTerminal() {
		return ErrBookingTerminal
	}
	if !CanTransition(b.status, to) {
		return ErrInvalidTransition
	}
	b.status = to
	return nil
}

// WithinLeadLimit reports whether a change gated by limitHours may still be
// applied at now. A zero limit disables the gate.
func (b *Booking) WithinLeadLimit(now time.Time, limitHours float64) bool {
	if limitHours <= 0 {
		return true
	}
	deadline := b.interval.Start().Add(-time.Duration(limitHours * float64(time.Hour)))
	return now.Before(deadline)
}

// Reschedule replaces the interval of a non-terminal booking.
func (b *Booking) Reschedule(interval Interval, now time.Time) error {
	if b.status.IsTerminal() {
		return ErrBookingTerminal
	}
	if interval.Start().Before(now) {
		return ErrPastStart
	}
	b.interval = interval
	return nil
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) StaffID() uuid.UUID    { return b.staffID }
func (b *Booking) BranchID() uuid.UUID   { return b.branchID }
func (b *Booking) RoomID() *uuid.UUID    { return b.roomID }
func (b *Booking) TypeID() uuid.UUID     { return b.typeID }
func (b *Booking) PatientID() uuid.UUID  { return b.patientID }
func (b *Booking) Interval() Interval    { return b.interval }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) Source() Source        { return b.source }
func (b *Booking) Note() string          { return b.note }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }
