package slot

import (
	"sort"
	"time"

	"clinic-scheduler/internal/domain/apptype"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/room"
	"clinic-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

// Inputs carries everything the generator needs, bulk-loaded once per call by
// the query layer. The generator itself issues no I/O: its cost depends only
// on the size of these in-memory collections.
type Inputs struct {
	Rule *apptype.Rule

	// Staff is the eligible staff set, already narrowed to a single member
	// when the caller requested one.
	Staff []uuid.UUID

	// WorkingHours holds every weekly rule for the eligible staff set.
	WorkingHours map[uuid.UUID][]*schedule.WorkingHoursRule

	// Exceptions is keyed by staff, then by DateKey of the exception date.
	Exceptions map[uuid.UUID]map[string]*schedule.AvailabilityException

	// Bookings holds the non-cancelled bookings per staff member that overlap
	// the requested range, in start order.
	Bookings map[uuid.UUID][]booking.Interval

	// Rooms and RoomBookings cover every room referenced by a working-hours
	// rule in scope; both may be empty when no rule pins rooms.
	Rooms        map[uuid.UUID]*room.Room
	RoomBookings map[uuid.UUID][]booking.Interval
}

// DateKey is the canonical map key for a calendar date.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Generator turns declarative scheduling inputs into candidate slots. All
// arithmetic happens in the clinic-local zone to keep daylight-saving
// transitions out of the interval math; conversion to the caller's zone is
// the very last step.
type Generator struct {
	loc *time.Location
}

func NewGenerator(loc *time.Location) *Generator {
	return &Generator{loc: loc}
}

// Generate emits candidate slots for every eligible staff member and every
// date in [dateFrom, dateTo], converted to the display zone. Slots starting
// before notBefore are emitted unavailable (minimum-notice handling); days
// with no open window yield nothing rather than an error.
func (g *Generator) Generate(in Inputs, dateFrom, dateTo time.Time, display *time.Location, notBefore time.Time) []Slot {
	var slots []Slot

	from := g.midnight(dateFrom)
	to := g.midnight(dateTo)

	for _, staffID := range in.Staff {
		blocked := g.blockedIntervals(in, staffID)
		raw := in.Bookings[staffID]

		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			slots = append(slots, g.daySlots(in, staffID, day, blocked, raw, notBefore)...)
		}
	}

	for i := range slots {
		slots[i] = slots[i].In(display)
	}
	return slots
}

func (g *Generator) daySlots(
	in Inputs,
	staffID uuid.UUID,
	day time.Time,
	blocked []booking.Interval,
	raw []booking.Interval,
	notBefore time.Time,
) []Slot {
	rule := g.ruleForDate(in.WorkingHours[staffID], day)
	exc := in.Exceptions[staffID][DateKey(day)]

	spans := schedule.DaySpans(rule, exc)
	if len(spans) == 0 {
		return nil
	}

	stride := in.Rule.DefaultDuration()
	var branchID uuid.UUID
	var roomIDs []uuid.UUID
	if rule != nil {
		if d := rule.SlotDuration(); d > 0 {
			stride = d
		}
		branchID = rule.BranchID()
		roomIDs = rule.RoomIDs()
	}

	var out []Slot
	for _, span := range spans {
		open := g.spanInterval(day, span)
		for _, free := range subtractAll(open, blocked) {
			out = append(out, g.walk(in, free, stride, staffID, branchID, roomIDs, raw, notBefore)...)
		}
	}
	return out
}

// walk steps through one free interval, emitting every slot that fits
// entirely inside it.
func (g *Generator) walk(
	in Inputs,
	free booking.Interval,
	stride time.Duration,
	staffID, branchID uuid.UUID,
	roomIDs []uuid.UUID,
	raw []booking.Interval,
	notBefore time.Time,
) []Slot {
	var out []Slot
	capacity := in.Rule.CapacityPerSlot()

	for cursor := free.Start(); !cursor.Add(stride).After(free.End()); cursor = cursor.Add(stride) {
		iv, err := booking.NewInterval(cursor, cursor.Add(stride))
		if err != nil {
			break
		}

		remaining := capacity - countOverlapping(raw, iv)
		if remaining < 0 {
			remaining = 0
		}

		roomID, roomOK := g.pickRoom(in, roomIDs, iv)

		s := Slot{
			Start:             iv.Start(),
			End:               iv.End(),
			StaffID:           staffID,
			BranchID:          branchID,
			RoomID:            roomID,
			Available:         remaining > 0 && roomOK && !iv.Start().Before(notBefore),
			RemainingCapacity: remaining,
		}
		out = append(out, s)
	}
	return out
}

// blockedIntervals computes the intervals subtracted from the open windows in
// advance: every booking whose concurrency has exhausted the per-slot
// capacity, expanded by the type's buffers on both sides. With capacity 1
// that is simply every existing booking.
func (g *Generator) blockedIntervals(in Inputs, staffID uuid.UUID) []booking.Interval {
	bookings := in.Bookings[staffID]
	if len(bookings) == 0 {
		return nil
	}

	capacity := in.Rule.CapacityPerSlot()
	before := in.Rule.BufferBefore()
	after := in.Rule.BufferAfter()

	var blocked []booking.Interval
	for _, b := range bookings {
		if countOverlapping(bookings, b) >= capacity {
			blocked = append(blocked, b.Expand(before, after))
		}
	}
	sort.Slice(blocked, func(i, j int) bool { return blocked[i].Start().Before(blocked[j].Start()) })
	return blocked
}

// ruleForDate picks the weekly rule active on the given date, if any.
func (g *Generator) ruleForDate(rules []*schedule.WorkingHoursRule, day time.Time) *schedule.WorkingHoursRule {
	for _, r := range rules {
		if r.ActiveOn(day) {
			return r
		}
	}
	return nil
}

// pickRoom returns the first assigned room that is bookable and free for the
// interval. When the rule pins no rooms the check passes vacuously.
func (g *Generator) pickRoom(in Inputs, roomIDs []uuid.UUID, iv booking.Interval) (*uuid.UUID, bool) {
	if len(roomIDs) == 0 {
		return nil, true
	}
	for _, id := range roomIDs {
		rm := in.Rooms[id]
		if rm == nil || !rm.Bookable() {
			continue
		}
		if countOverlapping(in.RoomBookings[id], iv) > 0 {
			continue
		}
		roomID := id
		return &roomID, true
	}
	return nil, false
}

// midnight anchors the date's own calendar day in the clinic zone. Date
// parameters arrive as midnight instants in the caller's wire zone, so
// converting the instant first would shift the day for zones behind it.
func (g *Generator) midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, g.loc)
}

func (g *Generator) spanInterval(day time.Time, span schedule.Span) booking.Interval {
	start := span.From.At(day.Year(), day.Month(), day.Day(), g.loc)
	end := span.To.At(day.Year(), day.Month(), day.Day(), g.loc)
	iv, _ := booking.NewInterval(start, end)
	return iv
}

func countOverlapping(bookings []booking.Interval, iv booking.Interval) int {
	n := 0
	for _, b := range bookings {
		if b.Overlaps(iv) {
			n++
		}
	}
	return n
}

// subtractAll removes every hole from the interval, yielding the remaining
// free sub-intervals in order.
func subtractAll(open booking.Interval, holes []booking.Interval) []booking.Interval {
	free := []booking.Interval{open}
	for _, hole := range holes {
		var next []booking.Interval
		for _, f := range free {
			next = append(next, subtractOne(f, hole)...)
		}
		free = next
		if len(free) == 0 {
			break
		}
	}
	return free
}

func subtractOne(iv, hole booking.Interval) []booking.Interval {
	if !iv.Overlaps(hole) {
		return []booking.Interval{iv}
	}
	var out []booking.Interval
	if hole.Start().After(iv.Start()) {
		if left, err := booking.NewInterval(iv.Start(), hole.Start()); err == nil {
			out = append(out, left)
		}
	}
	if hole.End().Before(iv.End()) {
		if right, err := booking.NewInterval(hole.End(), iv.End()); err == nil {
			out = append(out, right)
		}
	}
	return out
}
