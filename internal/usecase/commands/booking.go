package commands

import (
	"context"
	"log/slog"
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/metrics"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTypeNotFound       = errs.New("appointment type not found")
	ErrBookingNotFound    = errs.New("booking not found")
	ErrSlotConflict       = errs.New("slot already booked")
	ErrOnlineNotPermitted = errs.New("online booking not permitted")
	ErrPastStart          = errs.New("booking cannot start in the past")
	ErrMinNoticeViolated  = errs.New("booking violates minimum notice")
	ErrWindowClosed       = errs.New("lead-time window has closed")
	ErrInvalidTransition  = errs.New("invalid booking status transition")
)

// SlotConflictError reports which existing booking blocks the requested
// interval.
type SlotConflictError struct {
	ConflictingBookingID uuid.UUID
}

func (e *SlotConflictError) Error() string {
	return "slot already booked by " + e.ConflictingBookingID.String()
}

func (e *SlotConflictError) Unwrap() error { return ErrSlotConflict }

type ReserveParams struct {
	StaffID   uuid.UUID
	BranchID  uuid.UUID
	RoomID    *uuid.UUID
	TypeID    uuid.UUID
	PatientID uuid.UUID
	Start     time.Time
	End       time.Time
	Source    booking.Source
	Note      string
	AsDraft   bool
}

type RescheduleParams struct {
	BookingID uuid.UUID
	Start     time.Time
	End       time.Time
	RoomID    *uuid.UUID
}

type BookingCommands interface {
	Reserve(ctx context.Context, p ReserveParams) (*booking.Booking, error)
	Confirm(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	MarkNoShow(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, p RescheduleParams) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	cache cache.SlotCache
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, slotCache cache.SlotCache, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{uow: uow, cache: slotCache, clock: clk}
}

// Reserve books an interval for a staff member. The conflict check runs under
// per-staff (and per-room) advisory locks inside the transaction, so two
// concurrent requests for the same slot serialize and exactly one wins.
// Back-to-back bookings never conflict.
func (c *bookingCommandsImpl) Reserve(ctx context.Context, p ReserveParams) (*booking.Booking, error) {
	iv, err := booking.NewInterval(p.Start, p.End)
	if err != nil {
		return nil, errs.Mark(err, ErrPastStart)
	}

	var created *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rule, err := tx.Reads().TypeRuleByID(ctx, p.TypeID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrTypeNotFound)
			}
			return err
		}

		now := c.clock.Now()
		if p.Source == booking.SourceOnline {
			if !rule.AllowOnlineBooking {
				return ErrOnlineNotPermitted
			}
			if iv.Start().Before(now.Add(rule.MinNotice)) {
				return ErrMinNoticeViolated
			}
		}

		if err := tx.Bookings().LockSchedule(ctx, p.StaffID, p.RoomID); err != nil {
			return err
		}
		conflicting, err := tx.Bookings().FindConflicting(ctx, p.StaffID, p.RoomID, iv, nil)
		if err != nil {
			return err
		}
		if conflicting != nil {
			metrics.IncBookingConflict()
			return &SlotConflictError{ConflictingBookingID: *conflicting}
		}

		// Drafts hold the interval on the schedule until confirmed, so they
		// go through the same lock and conflict path as committed bookings.
		construct := booking.NewBooking
		if p.AsDraft {
			construct = booking.NewDraft
		}
		b, err := construct(p.StaffID, p.BranchID, p.TypeID, p.PatientID, p.RoomID, iv, p.Source, p.Note, now)
		if err != nil {
			return errs.Mark(err, ErrPastStart)
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				metrics.IncBookingConflict()
				return errs.Mark(err, ErrSlotConflict)
			}
			return err
		}

		c.invalidate(ctx, p.TypeID, p.StaffID)
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncBookingCreated(string(p.Source))
	return created, nil
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, booking.StatusConfirmed)
}

// Cancel frees the interval. The cancel lead-time limit of the appointment
// type applies to both booking sources.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		rule, err := tx.Reads().TypeRuleByID(ctx, b.TypeID())
		if err != nil {
			return err
		}
		if !b.WithinLeadLimit(c.clock.Now(), rule.CancelLimitHours) {
			return ErrWindowClosed
		}
		if err := b.Transition(booking.StatusCancelled); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		c.invalidate(ctx, b.TypeID(), b.StaffID())
		return nil
	})
}

func (c *bookingCommandsImpl) Complete(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, booking.StatusDone)
}

func (c *bookingCommandsImpl) MarkNoShow(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		if err := b.Transition(booking.StatusNoShow); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		// A no-show frees the interval for rebooking.
		c.invalidate(ctx, b.TypeID(), b.StaffID())
		return nil
	})
}

// Reschedule moves a booking to a new interval under the same locks as
// Reserve, excluding the booking itself from the conflict check.
func (c *bookingCommandsImpl) Reschedule(ctx context.Context, p RescheduleParams) (*booking.Booking, error) {
	iv, err := booking.NewInterval(p.Start, p.End)
	if err != nil {
		return nil, errs.Mark(err, ErrPastStart)
	}

	var moved *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, p.BookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		rule, err := tx.Reads().TypeRuleByID(ctx, b.TypeID())
		if err != nil {
			return err
		}
		now := c.clock.Now()
		if !b.WithinLeadLimit(now, rule.RescheduleLimitHours) {
			return ErrWindowClosed
		}

		roomID := p.RoomID
		if roomID == nil {
			roomID = b.RoomID()
		}
		if err := tx.Bookings().LockSchedule(ctx, b.StaffID(), roomID); err != nil {
			return err
		}
		excl := b.ID()
		conflicting, err := tx.Bookings().FindConflicting(ctx, b.StaffID(), roomID, iv, &excl)
		if err != nil {
			return err
		}
		if conflicting != nil {
			metrics.IncBookingConflict()
			return &SlotConflictError{ConflictingBookingID: *conflicting}
		}

		if err := b.Reschedule(iv, now); err != nil {
			return errs.Mark(err, ErrPastStart)
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		c.invalidate(ctx, b.TypeID(), b.StaffID())
		moved = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func (c *bookingCommandsImpl) transition(ctx context.Context, id uuid.UUID, to booking.Status) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		if err := b.Transition(to); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return tx.Bookings().Update(ctx, b)
	})
}

// invalidate expires every cached slot list the write can have changed.
// Cache failures are logged, never surfaced: the next read recomputes.
func (c *bookingCommandsImpl) invalidate(ctx context.Context, typeID, staffID uuid.UUID) {
	if err := c.cache.Invalidate(ctx, cache.TypeTag(typeID), cache.StaffTag(staffID)); err != nil {
		slog.Warn("slot cache invalidation failed", "error", err.Error())
	}
}
