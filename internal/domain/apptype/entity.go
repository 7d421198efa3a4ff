package apptype

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("default duration must be positive")
	ErrInvalidCapacity = errors.New("capacity per slot must be at least 1")
	ErrNegativeBuffer  = errors.New("buffers must not be negative")
	ErrInvalidHorizon  = errors.New("max days ahead must be at least 1")
)

// Rule is the per-service-type scheduling policy. It is immutable during a
// single slot-generation call; scheduling-relevant edits invalidate every
// cached result for the type.
type Rule struct {
	id                    uuid.UUID
	name                  string
	defaultDuration       time.Duration
	bufferBefore          time.Duration
	bufferAfter           time.Duration
	capacityPerSlot       int
	allowedStaffIDs       []uuid.UUID
	allowOnlineBooking    bool
	minNoticeHours        float64
	maxDaysAhead          int
	cancelLimitHours      float64
	rescheduleLimitHours  float64
	createdAt             time.Time
	updatedAt             time.Time
}

func NewRule(
	name string,
	defaultDuration, bufferBefore, bufferAfter time.Duration,
	capacityPerSlot int,
	allowedStaffIDs []uuid.UUID,
	allowOnlineBooking bool,
	minNoticeHours float64,
	maxDaysAhead int,
	cancelLimitHours, rescheduleLimitHours float64,
) (*Rule, error) {
	if defaultDuration <= 0 {
		return nil, ErrInvalidDuration
	}
	if bufferBefore < 0 || bufferAfter < 0 {
		return nil, ErrNegativeBuffer
	}
	if capacityPerSlot < 1 {
		return nil, ErrInvalidCapacity
	}
	if maxDaysAhead < 1 {
		return nil, ErrInvalidHorizon
	}
	return &Rule{
		id:                   uuid.New(),
		name:                 name,
		defaultDuration:      defaultDuration,
		bufferBefore:         bufferBefore,
		bufferAfter:          bufferAfter,
		capacityPerSlot:      capacityPerSlot,
		allowedStaffIDs:      allowedStaffIDs,
		allowOnlineBooking:   allowOnlineBooking,
		minNoticeHours:       minNoticeHours,
		maxDaysAhead:         maxDaysAhead,
		cancelLimitHours:     cancelLimitHours,
		rescheduleLimitHours: rescheduleLimitHours,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	name string,
	defaultDuration, bufferBefore, bufferAfter time.Duration,
	capacityPerSlot int,
	allowedStaffIDs []uuid.UUID,
	allowOnlineBooking bool,
	minNoticeHours float64,
	maxDaysAhead int,
	cancelLimitHours, rescheduleLimitHours float64,
	createdAt, updatedAt time.Time,
) *Rule {
	return &Rule{
		id:                   id,
		name:                 name,
		defaultDuration:      defaultDuration,
		bufferBefore:         bufferBefore,
		bufferAfter:          bufferAfter,
		capacityPerSlot:      capacityPerSlot,
		allowedStaffIDs:      allowedStaffIDs,
		allowOnlineBooking:   allowOnlineBooking,
		minNoticeHours:       minNoticeHours,
		maxDaysAhead:         maxDaysAhead,
		cancelLimitHours:     cancelLimitHours,
		rescheduleLimitHours: rescheduleLimitHours,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// WithID returns a copy of the rule carrying the given identity.
func (r *Rule) WithID(id uuid.UUID) *Rule {
	c := *r
	c.id = id
	return &c
}

// AllowsStaff reports whether the staff member is whitelisted for this type.
func (r *Rule) AllowsStaff(staffID uuid.UUID) bool {
	for _, id := range r.allowedStaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// EligibleStaff narrows the whitelist to a single requested staff member, or
// returns the whole whitelist when none is requested. An empty result is not
// an error: it simply yields no slots.
func (r *Rule) EligibleStaff(staffID *uuid.UUID) []uuid.UUID {
	if staffID == nil {
		return r.allowedStaffIDs
	}
	if r.AllowsStaff(*staffID) {
		return []uuid.UUID{*staffID}
	}
	return nil
}

// MinNotice is the earliest bookable offset from "now".
func (r *Rule) MinNotice() time.Duration {
	return time.Duration(r.minNoticeHours * float64(time.Hour))
}

func (r *Rule) ID() uuid.UUID                  { return r.id }
func (r *Rule) Name() string                   { return r.name }
func (r *Rule) DefaultDuration() time.Duration { return r.defaultDuration }
func (r *Rule) BufferBefore() time.Duration    { return r.bufferBefore }
func (r *Rule) BufferAfter() time.Duration     { return r.bufferAfter }
func (r *Rule) CapacityPerSlot() int           { return r.capacityPerSlot }
func (r *Rule) AllowedStaffIDs() []uuid.UUID   { return r.allowedStaffIDs }
func (r *Rule) AllowOnlineBooking() bool       { return r.allowOnlineBooking }
func (r *Rule) MinNoticeHours() float64        { return r.minNoticeHours }
func (r *Rule) MaxDaysAhead() int              { return r.maxDaysAhead }
func (r *Rule) CancelLimitHours() float64      { return r.cancelLimitHours }
func (r *Rule) RescheduleLimitHours() float64  { return r.rescheduleLimitHours }
