package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidHours    = errors.New("end time must be after start time")
	ErrInvalidBreak    = errors.New("break must lie within working hours")
	ErrHalfBreak       = errors.New("both break start and break end must be set")
	ErrInvalidWeekday  = errors.New("weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidDates    = errors.New("rule start date must not be after end date")
	ErrLimitedNoWindow = errors.New("limited exception requires a start and end time")
)

// WorkingHoursRule is the weekly availability declaration for one staff
// member at one branch: at most one rule per (staff, weekday, branch).
// Read-only to the generation algorithm.
type WorkingHoursRule struct {
	id           uuid.UUID
	staffID      uuid.UUID
	branchID     uuid.UUID
	weekday      Weekday
	start        MinuteOfDay
	end          MinuteOfDay
	breakSpan    *Span
	slotDuration time.Duration // 0 means "use the appointment type default"
	roomIDs      []uuid.UUID
	dateFrom     *time.Time // optional bounds for temporary rules
	dateTo       *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewWorkingHoursRule(
	staffID, branchID uuid.UUID,
	weekday Weekday,
	start, end MinuteOfDay,
	breakSpan *Span,
	slotDuration time.Duration,
	roomIDs []uuid.UUID,
	dateFrom, dateTo *time.Time,
) (*WorkingHoursRule, error) {
	if !weekday.Valid() {
		return nil, ErrInvalidWeekday
	}
	if !start.Valid() || !end.Valid() || end <= start {
		return nil, ErrInvalidHours
	}
	if breakSpan != nil {
		if breakSpan.From >= breakSpan.To {
			return nil, ErrInvalidBreak
		}
		if breakSpan.From < start || breakSpan.To > end {
			return nil, ErrInvalidBreak
		}
	}
	if dateFrom != nil && dateTo != nil && dateFrom.After(*dateTo) {
		return nil, ErrInvalidDates
	}
	return &WorkingHoursRule{
		id:           uuid.New(),
		staffID:      staffID,
		branchID:     branchID,
		weekday:      weekday,
		start:        start,
		end:          end,
		breakSpan:    breakSpan,
		slotDuration: slotDuration,
		roomIDs:      roomIDs,
		dateFrom:     dateFrom,
		dateTo:       dateTo,
	}, nil
}

func ReconstructWorkingHoursRule(
	id, staffID, branchID uuid.UUID,
	weekday Weekday,
	start, end MinuteOfDay,
	breakSpan *Span,
	slotDuration time.Duration,
	roomIDs []uuid.UUID,
	dateFrom, dateTo *time.Time,
	createdAt, updatedAt time.Time,
) *WorkingHoursRule {
	return &WorkingHoursRule{
		id:           id,
		staffID:      staffID,
		branchID:     branchID,
		weekday:      weekday,
		start:        start,
		end:          end,
		breakSpan:    breakSpan,
		slotDuration: slotDuration,
		roomIDs:      roomIDs,
		dateFrom:     dateFrom,
		dateTo:       dateTo,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// WithID returns a copy of the rule carrying the given identity, used when an
// update replaces an existing row.
func (r *WorkingHoursRule) WithID(id uuid.UUID) *WorkingHoursRule {
	c := *r
	c.id = id
	return &c
}

// ActiveOn reports whether the rule covers the given calendar date.
func (r *WorkingHoursRule) ActiveOn(date time.Time) bool {
	if WeekdayOf(date) != r.weekday {
		return false
	}
	day := date.Truncate(24 * time.Hour)
	if r.dateFrom != nil && day.Before(r.dateFrom.Truncate(24*time.Hour)) {
		return false
	}
	if r.dateTo != nil && day.After(r.dateTo.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// OpenSpans returns the working window minus the break, as one or two spans.
func (r *WorkingHoursRule) OpenSpans() []Span {
	whole := Span{From: r.start, To: r.end}
	if r.breakSpan == nil {
		return []Span{whole}
	}
	return whole.Subtract(*r.breakSpan)
}

func (r *WorkingHoursRule) ID() uuid.UUID               { return r.id }
func (r *WorkingHoursRule) StaffID() uuid.UUID          { return r.staffID }
func (r *WorkingHoursRule) BranchID() uuid.UUID         { return r.branchID }
func (r *WorkingHoursRule) Weekday() Weekday            { return r.weekday }
func (r *WorkingHoursRule) Start() MinuteOfDay          { return r.start }
func (r *WorkingHoursRule) End() MinuteOfDay            { return r.end }
func (r *WorkingHoursRule) Break() *Span                { return r.breakSpan }
func (r *WorkingHoursRule) SlotDuration() time.Duration { return r.slotDuration }
func (r *WorkingHoursRule) RoomIDs() []uuid.UUID        { return r.roomIDs }
func (r *WorkingHoursRule) DateFrom() *time.Time        { return r.dateFrom }
func (r *WorkingHoursRule) DateTo() *time.Time          { return r.dateTo }

// ExceptionKind classifies a per-date availability override.
type ExceptionKind string

const (
	ExceptionAvailable   ExceptionKind = "available"
	ExceptionUnavailable ExceptionKind = "unavailable"
	ExceptionLimited     ExceptionKind = "limited"
)

// AvailabilityException overrides the weekly rule for one staff member on one
// calendar date. At most one exception per (staff, date); it is authoritative
// over the rule, never merged with it.
type AvailabilityException struct {
	id      uuid.UUID
	staffID uuid.UUID
	date    time.Time
	kind    ExceptionKind
	window  *Span
	reason  string
}

func NewAvailabilityException(
	staffID uuid.UUID,
	date time.Time,
	kind ExceptionKind,
	window *Span,
	reason string,
) (*AvailabilityException, error) {
	if kind == ExceptionLimited {
		if window == nil || window.From >= window.To {
			return nil, ErrLimitedNoWindow
		}
	} else {
		window = nil
	}
	return &AvailabilityException{
		id:      uuid.New(),
		staffID: staffID,
		date:    date,
		kind:    kind,
		window:  window,
		reason:  reason,
	}, nil
}

func ReconstructAvailabilityException(
	id, staffID uuid.UUID,
	date time.Time,
	kind ExceptionKind,
	window *Span,
	reason string,
) *AvailabilityException {
	return &AvailabilityException{
		id:      id,
		staffID: staffID,
		date:    date,
		kind:    kind,
		window:  window,
		reason:  reason,
	}
}

func (e *AvailabilityException) ID() uuid.UUID       { return e.id }
func (e *AvailabilityException) StaffID() uuid.UUID  { return e.staffID }
func (e *AvailabilityException) Date() time.Time     { return e.date }
func (e *AvailabilityException) Kind() ExceptionKind { return e.kind }
func (e *AvailabilityException) Window() *Span       { return e.window }
func (e *AvailabilityException) Reason() string      { return e.reason }

// DaySpans resolves the open spans for one staff member on one date from the
// matching rule and the exception, applying exception precedence:
//   - unavailable: no spans, the day is skipped
//   - limited: the exception window replaces the rule window wholesale
//   - available or no exception: the rule window minus its break
func DaySpans(rule *WorkingHoursRule, exc *AvailabilityException) []Span {
	if exc != nil {
		switch exc.Kind() {
		case ExceptionUnavailable:
			return nil
		case ExceptionLimited:
			return []Span{*exc.Window()}
		}
	}
	if rule == nil {
		return nil
	}
	return rule.OpenSpans()
}
