//go:build unit

package queries_test

import (
	"context"
	"testing"
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
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireErrIs matches marked sentinels, which the standard library errors.Is
// cannot see.
func requireErrIs(t *testing.T, err, target error) {
	t.Helper()
	require.True(t, errs.Is(err, target), "expected %v, got %v", target, err)
}

// fakeStore backs every reader interface with in-memory data and counts each
// bulk fetch, so tests can assert the fetch count stays constant regardless of
// data volume.
type fakeStore struct {
	rule         *apptype.Rule
	hours        map[uuid.UUID][]*schedule.WorkingHoursRule
	excs         map[uuid.UUID]map[string]*schedule.AvailabilityException
	bookings     map[uuid.UUID][]booking.Interval
	rooms        map[uuid.UUID]*room.Room
	roomBookings map[uuid.UUID][]booking.Interval

	ruleCalls      int
	hoursCalls     int
	excCalls       int
	staffIntervals int
	roomIntervals  int
	roomCalls      int
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*apptype.Rule, error) {
	f.ruleCalls++
	if f.rule == nil || f.rule.ID() != id {
		return nil, infra.WrapRepoErr("appointment type not found", nil, infra.KindNotFound)
	}
	return f.rule, nil
}

func (f *fakeStore) WorkingHoursByStaff(_ context.Context, _ []uuid.UUID) (map[uuid.UUID][]*schedule.WorkingHoursRule, error) {
	f.hoursCalls++
	return f.hours, nil
}

func (f *fakeStore) ExceptionsByStaff(_ context.Context, _ []uuid.UUID, _, _ time.Time) (map[uuid.UUID]map[string]*schedule.AvailabilityException, error) {
	f.excCalls++
	return f.excs, nil
}

func (f *fakeStore) IntervalsByStaff(_ context.Context, _ []uuid.UUID, _, _ time.Time) (map[uuid.UUID][]booking.Interval, error) {
	f.staffIntervals++
	return f.bookings, nil
}

func (f *fakeStore) IntervalsByRoom(_ context.Context, _ []uuid.UUID, _, _ time.Time) (map[uuid.UUID][]booking.Interval, error) {
	f.roomIntervals++
	return f.roomBookings, nil
}

func (f *fakeStore) FindByIDs(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]*room.Room, error) {
	f.roomCalls++
	return f.rooms, nil
}

func (f *fakeStore) fetches() int {
	return f.hoursCalls + f.excCalls + f.staffIntervals + f.roomIntervals + f.roomCalls
}

type queryFixture struct {
	store   *fakeStore
	queries queries.SlotQueries
	clk     *clock.MockClock
	cache   cache.SlotCache
	typeID  uuid.UUID
	staffID uuid.UUID
}

var (
	// qryMonday is 2026-03-02, a Monday; qryNow is the preceding Wednesday.
	qryMonday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	qryNow    = time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)
)

func newQueryFixture(t *testing.T, maxDaysAhead int) *queryFixture {
	t.Helper()

	typeID := uuid.New()
	staffID := uuid.New()

	rule := apptype.Reconstruct(
		typeID, "checkup",
		30*time.Minute, 0, 0,
		1, []uuid.UUID{staffID},
		true, 0, maxDaysAhead, 0, 0,
		qryNow, qryNow,
	)

	wh, err := schedule.NewWorkingHoursRule(
		staffID, uuid.New(),
		schedule.Monday, 8*60, 17*60, &schedule.Span{From: 12 * 60, To: 13 * 60},
		0, nil, nil, nil,
	)
	require.NoError(t, err)

	store := &fakeStore{
		rule:     rule,
		hours:    map[uuid.UUID][]*schedule.WorkingHoursRule{staffID: {wh}},
		excs:     map[uuid.UUID]map[string]*schedule.AvailabilityException{},
		bookings: map[uuid.UUID][]booking.Interval{},
	}

	clk := clock.NewMockClock(qryNow)
	slotCache := cache.NewMemoryCache(clk)

	q := queries.NewSlotQueries(
		store, store, store, store,
		slotCache,
		slot.NewGenerator(time.UTC),
		clk,
		config.EngineConfig{Timezone: "UTC", MaxRangeDay: 90},
		10*time.Minute,
	)

	return &queryFixture{
		store:   store,
		queries: q,
		clk:     clk,
		cache:   slotCache,
		typeID:  typeID,
		staffID: staffID,
	}
}

func (f *queryFixture) params(from, to time.Time) queries.GenerateParams {
	return queries.GenerateParams{
		TypeID:   f.typeID,
		DateFrom: from,
		DateTo:   to,
		Timezone: "UTC",
	}
}

func (f *queryFixture) seedBookings(t *testing.T, n int) {
	t.Helper()
	// Stacked short bookings; volume is what matters, not placement.
	for i := 0; i < n; i++ {
		start := qryMonday.Add(time.Duration(8*60+i) * time.Minute)
		iv, err := booking.NewInterval(start, start.Add(time.Minute))
		require.NoError(t, err)
		f.store.bookings[f.staffID] = append(f.store.bookings[f.staffID], iv)
	}
}

func TestGenerateConstantFetchCount(t *testing.T) {
	ctx := context.Background()

	for _, volume := range []int{0, 50, 200} {
		f := newQueryFixture(t, 90)
		f.seedBookings(t, volume)

		_, err := f.queries.Generate(ctx, f.params(qryMonday, qryMonday.AddDate(0, 0, 6)))
		require.NoError(t, err)

		assert.Equal(t, 1, f.store.hoursCalls, "volume %d", volume)
		assert.Equal(t, 1, f.store.excCalls, "volume %d", volume)
		assert.Equal(t, 1, f.store.staffIntervals, "volume %d", volume)
		assert.Equal(t, 0, f.store.roomCalls, "no rule pins rooms")
		assert.Equal(t, 0, f.store.roomIntervals, "no rule pins rooms")
	}
}

func TestGenerateCacheHit(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t, 90)
	p := f.params(qryMonday, qryMonday)

	first, err := f.queries.Generate(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	cold := f.store.fetches()

	second, err := f.queries.Generate(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, cold, f.store.fetches(), "second call is served from cache")
	assert.Empty(t, cmp.Diff(first, second))
}

func TestGenerateInvalidationForcesRecompute(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t, 90)
	p := f.params(qryMonday, qryMonday)

	_, err := f.queries.Generate(ctx, p)
	require.NoError(t, err)
	cold := f.store.fetches()

	require.NoError(t, f.cache.Invalidate(ctx, cache.StaffTag(f.staffID)))

	_, err = f.queries.Generate(ctx, p)
	require.NoError(t, err)
	assert.Greater(t, f.store.fetches(), cold)
}

func TestGenerateDeterministicResults(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t, 90)
	f.seedBookings(t, 5)
	p := f.params(qryMonday, qryMonday.AddDate(0, 0, 6))

	first, err := f.queries.Generate(ctx, p)
	require.NoError(t, err)

	require.NoError(t, f.cache.Invalidate(ctx, cache.TypeTag(f.typeID)))

	second, err := f.queries.Generate(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestGenerateValidation(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t, 90)

	t.Run("inverted range", func(t *testing.T) {
		_, err := f.queries.Generate(ctx, f.params(qryMonday, qryMonday.AddDate(0, 0, -1)))
		requireErrIs(t, err, queries.ErrInvalidRange)
	})

	t.Run("range beyond the cap", func(t *testing.T) {
		_, err := f.queries.Generate(ctx, f.params(qryMonday, qryMonday.AddDate(0, 0, 120)))
		requireErrIs(t, err, queries.ErrInvalidRange)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		p := f.params(qryMonday, qryMonday)
		p.Timezone = "Mars/Olympus"
		_, err := f.queries.Generate(ctx, p)
		requireErrIs(t, err, queries.ErrInvalidTimezone)
	})

	t.Run("unknown appointment type", func(t *testing.T) {
		p := f.params(qryMonday, qryMonday)
		p.TypeID = uuid.New()
		_, err := f.queries.Generate(ctx, p)
		requireErrIs(t, err, queries.ErrRuleNotFound)
	})
}

func TestGenerateNonWhitelistedStaff(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t, 90)

	outsider := uuid.New()
	p := f.params(qryMonday, qryMonday)
	p.StaffID = &outsider

	slots, err := f.queries.Generate(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, 0, f.store.fetches(), "an empty staff set skips every fetch")
}

func TestGenerateBookingHorizon(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t, 3)

	t.Run("range entirely past the horizon", func(t *testing.T) {
		from := qryNow.AddDate(0, 0, 10)
		_, err := f.queries.Generate(ctx, f.params(from, from.AddDate(0, 0, 3)))
		requireErrIs(t, err, queries.ErrInvalidRange)
	})

	t.Run("range reaching past the horizon", func(t *testing.T) {
		// Horizon is now+3d (Saturday); the range ends on Monday.
		_, err := f.queries.Generate(ctx, f.params(qryNow, qryMonday))
		requireErrIs(t, err, queries.ErrInvalidRange)
	})

	t.Run("range ending on the horizon is accepted", func(t *testing.T) {
		slots, err := f.queries.Generate(ctx, f.params(qryNow, qryNow.AddDate(0, 0, 3)))
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("open slot", func(t *testing.T) {
		f := newQueryFixture(t, 90)
		res, err := f.queries.CheckAvailability(ctx, queries.CheckParams{
			TypeID:   f.typeID,
			StaffID:  f.staffID,
			Start:    qryMonday.Add(9 * time.Hour),
			Timezone: "UTC",
		})
		require.NoError(t, err)
		assert.True(t, res.Available)
		assert.Equal(t, 1, res.RemainingCapacity)
	})

	t.Run("booked slot", func(t *testing.T) {
		f := newQueryFixture(t, 90)
		iv, err := booking.NewInterval(qryMonday.Add(9*time.Hour), qryMonday.Add(9*time.Hour+30*time.Minute))
		require.NoError(t, err)
		f.store.bookings[f.staffID] = []booking.Interval{iv}

		res, err := f.queries.CheckAvailability(ctx, queries.CheckParams{
			TypeID:   f.typeID,
			StaffID:  f.staffID,
			Start:    qryMonday.Add(9 * time.Hour),
			Timezone: "UTC",
		})
		require.NoError(t, err)
		assert.False(t, res.Available)
	})

	t.Run("start not on the slot grid", func(t *testing.T) {
		f := newQueryFixture(t, 90)
		res, err := f.queries.CheckAvailability(ctx, queries.CheckParams{
			TypeID:   f.typeID,
			StaffID:  f.staffID,
			Start:    qryMonday.Add(9*time.Hour + 7*time.Minute),
			Timezone: "UTC",
		})
		require.NoError(t, err)
		assert.False(t, res.Available)
	})
}

func TestNextAvailableSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("finds the next working day", func(t *testing.T) {
		f := newQueryFixture(t, 90)
		tuesday := qryMonday.AddDate(0, 0, 1)

		got, err := f.queries.NextAvailableSlot(ctx, f.params(tuesday, tuesday))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Start.Equal(qryMonday.AddDate(0, 0, 7).Add(8*time.Hour)))
		assert.Equal(t, f.staffID, got.StaffID)
	})

	t.Run("scan stops at the booking horizon", func(t *testing.T) {
		// Horizon is now+3d (Saturday); the only working day is Monday, so
		// the scan runs out of range without tripping the range validation.
		f := newQueryFixture(t, 3)

		got, err := f.queries.NextAvailableSlot(ctx, f.params(qryNow, qryNow))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("no working hours yields nil", func(t *testing.T) {
		f := newQueryFixture(t, 14)
		f.store.hours = map[uuid.UUID][]*schedule.WorkingHoursRule{}

		got, err := f.queries.NextAvailableSlot(ctx, f.params(qryMonday, qryMonday))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
