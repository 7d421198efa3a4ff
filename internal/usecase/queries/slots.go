package queries

import (
	"context"
	"log/slog"
	"time"

	"clinic-scheduler/internal/domain/apptype"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/room"
	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/domain/slot"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrRuleNotFound    = errs.New("appointment type not found")
	ErrInvalidRange    = errs.New("invalid date range")
	ErrInvalidTimezone = errs.New("invalid timezone")
)

// GenerateParams identifies one slot-generation request. DateFrom and DateTo
// are calendar dates, inclusive on both ends.
type GenerateParams struct {
	TypeID   uuid.UUID
	StaffID  *uuid.UUID
	DateFrom time.Time
	DateTo   time.Time
	Timezone string
}

type CheckParams struct {
	TypeID   uuid.UUID
	StaffID  uuid.UUID
	Start    time.Time
	Timezone string
}

type CheckResult struct {
	Available         bool       `json:"available"`
	RemainingCapacity int        `json:"remaining_capacity"`
	RoomID            *uuid.UUID `json:"room_id,omitempty"`
}

type SlotQueries interface {
	Generate(ctx context.Context, p GenerateParams) ([]slot.Slot, error)
	CheckAvailability(ctx context.Context, p CheckParams) (*CheckResult, error)
	NextAvailableSlot(ctx context.Context, p GenerateParams) (*slot.Slot, error)
}

type ScheduleReader interface {
	WorkingHoursByStaff(ctx context.Context, staffIDs []uuid.UUID) (map[uuid.UUID][]*schedule.WorkingHoursRule, error)
	ExceptionsByStaff(ctx context.Context, staffIDs []uuid.UUID, dateFrom, dateTo time.Time) (map[uuid.UUID]map[string]*schedule.AvailabilityException, error)
}

type BookingReader interface {
	IntervalsByStaff(ctx context.Context, staffIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]booking.Interval, error)
	IntervalsByRoom(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]booking.Interval, error)
}

type TypeRuleReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*apptype.Rule, error)
}

type RoomReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*room.Room, error)
}

type slotQueriesImpl struct {
	schedules ScheduleReader
	bookings  BookingReader
	typeRules TypeRuleReader
	rooms     RoomReader
	cache     cache.SlotCache
	gen       *slot.Generator
	clock     clock.Clock
	cfg       config.EngineConfig
	ttl       time.Duration
}

func NewSlotQueries(
	schedules ScheduleReader,
	bookings BookingReader,
	typeRules TypeRuleReader,
	rooms RoomReader,
	slotCache cache.SlotCache,
	gen *slot.Generator,
	clk clock.Clock,
	cfg config.EngineConfig,
	ttl time.Duration,
) SlotQueries {
	return &slotQueriesImpl{
		schedules: schedules,
		bookings:  bookings,
		typeRules: typeRules,
		rooms:     rooms,
		cache:     slotCache,
		gen:       gen,
		clock:     clk,
		cfg:       cfg,
		ttl:       ttl,
	}
}

// Generate returns every candidate slot for the request, cached per
// (type, range, timezone, staff). Bulk loading keeps the query count constant
// regardless of range length or booking volume.
func (q *slotQueriesImpl) Generate(ctx context.Context, p GenerateParams) ([]slot.Slot, error) {
	if p.DateTo.Before(p.DateFrom) {
		return nil, ErrInvalidRange
	}
	if int(p.DateTo.Sub(p.DateFrom).Hours()/24) > q.cfg.MaxRangeDay {
		return nil, ErrInvalidRange
	}
	display, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimezone)
	}

	rule, err := q.typeRules.FindByID(ctx, p.TypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrRuleNotFound)
		}
		return nil, err
	}

	now := q.clock.Now()

	// Booking horizon: a range reaching past now + max_days_ahead is invalid,
	// reported before any bulk load.
	dateTo := p.DateTo
	if rule.MaxDaysAhead() > 0 {
		horizon := now.AddDate(0, 0, rule.MaxDaysAhead())
		if dateTo.After(horizon) {
			return nil, ErrInvalidRange
		}
	}

	staff := rule.EligibleStaff(p.StaffID)
	if len(staff) == 0 {
		return []slot.Slot{}, nil
	}

	key := cache.NewKey(p.TypeID, p.DateFrom, dateTo, p.Timezone, p.StaffID)
	if cached, ok, err := q.cache.Get(ctx, key); err == nil && ok {
		metrics.IncSlotCacheHit()
		return cached, nil
	} else if err != nil {
		slog.Warn("slot cache read failed", "error", err.Error())
	}
	metrics.IncSlotCacheMiss()

	started := time.Now()
	in, err := q.loadInputs(ctx, rule, staff, p.DateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	notBefore := now.Add(rule.MinNotice())
	slots := q.gen.Generate(in, p.DateFrom, dateTo, display, notBefore)
	metrics.ObserveSlotGeneration(time.Since(started))

	roomIDs := collectRoomIDs(in.WorkingHours)
	tags := make([]string, 0, len(staff)+len(roomIDs)+1)
	tags = append(tags, cache.TypeTag(p.TypeID))
	for _, id := range staff {
		tags = append(tags, cache.StaffTag(id))
	}
	for _, id := range roomIDs {
		tags = append(tags, cache.RoomTag(id))
	}
	if err := q.cache.Put(ctx, key, slots, tags, q.ttl); err != nil {
		slog.Warn("slot cache write failed", "error", err.Error())
	}
	return slots, nil
}

// CheckAvailability confirms a concrete (staff, start) candidate right before
// booking. It generates the single day so the answer reflects the same rules
// as the listing.
func (q *slotQueriesImpl) CheckAvailability(ctx context.Context, p CheckParams) (*CheckResult, error) {
	day := p.Start
	slots, err := q.Generate(ctx, GenerateParams{
		TypeID:   p.TypeID,
		StaffID:  &p.StaffID,
		DateFrom: day,
		DateTo:   day,
		Timezone: p.Timezone,
	})
	if err != nil {
		return nil, err
	}
	for _, s := range slots {
		if s.Start.Equal(p.Start) && s.StaffID == p.StaffID {
			return &CheckResult{
				Available:         s.Available,
				RemainingCapacity: s.RemainingCapacity,
				RoomID:            s.RoomID,
			}, nil
		}
	}
	return &CheckResult{Available: false}, nil
}

// NextAvailableSlot scans forward from DateFrom in week-sized windows until
// it finds an available slot or runs out of booking horizon.
func (q *slotQueriesImpl) NextAvailableSlot(ctx context.Context, p GenerateParams) (*slot.Slot, error) {
	rule, err := q.typeRules.FindByID(ctx, p.TypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrRuleNotFound)
		}
		return nil, err
	}

	horizonDays := rule.MaxDaysAhead()
	if horizonDays <= 0 || horizonDays > q.cfg.MaxRangeDay {
		horizonDays = q.cfg.MaxRangeDay
	}

	// The scan itself clamps to the horizon so the windows never trip the
	// strict range validation in Generate.
	limit := q.clock.Now().AddDate(0, 0, horizonDays)

	const window = 7
	for offset := 0; offset <= horizonDays; offset += window {
		from := p.DateFrom.AddDate(0, 0, offset)
		if from.After(limit) {
			break
		}
		to := from.AddDate(0, 0, window-1)
		if to.After(limit) {
			to = limit
		}
		if to.Before(from) {
			break
		}

		slots, err := q.Generate(ctx, GenerateParams{
			TypeID:   p.TypeID,
			StaffID:  p.StaffID,
			DateFrom: from,
			DateTo:   to,
			Timezone: p.Timezone,
		})
		if err != nil {
			return nil, err
		}
		if first := earliestAvailable(slots); first != nil {
			return first, nil
		}
	}
	return nil, nil
}

func earliestAvailable(slots []slot.Slot) *slot.Slot {
	var first *slot.Slot
	for i := range slots {
		if !slots[i].Available {
			continue
		}
		if first == nil || slots[i].Start.Before(first.Start) {
			first = &slots[i]
		}
	}
	return first
}

// loadInputs performs the fixed set of bulk fetches backing one generation
// call: working hours, exceptions, staff bookings, and rooms plus room
// bookings when any rule pins rooms.
func (q *slotQueriesImpl) loadInputs(ctx context.Context, rule *apptype.Rule, staff []uuid.UUID, dateFrom, dateTo time.Time) (slot.Inputs, error) {
	hours, err := q.schedules.WorkingHoursByStaff(ctx, staff)
	if err != nil {
		return slot.Inputs{}, err
	}
	excs, err := q.schedules.ExceptionsByStaff(ctx, staff, dateFrom, dateTo)
	if err != nil {
		return slot.Inputs{}, err
	}

	// Buffers widen the window so bookings just outside the range still
	// block the edge slots.
	pad := rule.BufferBefore()
	if rule.BufferAfter() > pad {
		pad = rule.BufferAfter()
	}
	from := dateFrom.AddDate(0, 0, -1).Add(-pad)
	to := dateTo.AddDate(0, 0, 2).Add(pad)

	bookings, err := q.bookings.IntervalsByStaff(ctx, staff, from, to)
	if err != nil {
		return slot.Inputs{}, err
	}

	in := slot.Inputs{
		Rule:         rule,
		Staff:        staff,
		WorkingHours: hours,
		Exceptions:   excs,
		Bookings:     bookings,
	}

	roomIDs := collectRoomIDs(hours)
	if len(roomIDs) > 0 {
		rooms, err := q.rooms.FindByIDs(ctx, roomIDs)
		if err != nil {
			return slot.Inputs{}, err
		}
		roomBookings, err := q.bookings.IntervalsByRoom(ctx, roomIDs, from, to)
		if err != nil {
			return slot.Inputs{}, err
		}
		in.Rooms = rooms
		in.RoomBookings = roomBookings
	}
	return in, nil
}

func collectRoomIDs(hours map[uuid.UUID][]*schedule.WorkingHoursRule) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, rules := range hours {
		for _, r := range rules {
			for _, id := range r.RoomIDs() {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}
