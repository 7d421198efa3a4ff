//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"clinic-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleParams struct {
	weekday   schedule.Weekday
	start     schedule.MinuteOfDay
	end       schedule.MinuteOfDay
	breakSpan *schedule.Span
	dateFrom  *time.Time
	dateTo    *time.Time
}

func buildRule(t *testing.T, mutate func(*ruleParams)) (*schedule.WorkingHoursRule, error) {
	t.Helper()
	p := ruleParams{
		weekday: schedule.Monday,
		start:   8 * 60,
		end:     17 * 60,
	}
	if mutate != nil {
		mutate(&p)
	}
	return schedule.NewWorkingHoursRule(
		uuid.New(), uuid.New(),
		p.weekday, p.start, p.end, p.breakSpan,
		0, nil, p.dateFrom, p.dateTo,
	)
}

func TestNewWorkingHoursRule(t *testing.T) {
	t.Run("valid rule", func(t *testing.T) {
		r, err := buildRule(t, nil)
		require.NoError(t, err)
		assert.Equal(t, schedule.Monday, r.Weekday())
		assert.NotEqual(t, uuid.Nil, r.ID())
	})

	cases := []struct {
		name   string
		mutate func(*ruleParams)
		errIs  error
	}{
		{
			name:   "weekday below range",
			mutate: func(p *ruleParams) { p.weekday = -1 },
			errIs:  schedule.ErrInvalidWeekday,
		},
		{
			name:   "weekday above range",
			mutate: func(p *ruleParams) { p.weekday = 7 },
			errIs:  schedule.ErrInvalidWeekday,
		},
		{
			name:   "end equal to start",
			mutate: func(p *ruleParams) { p.end = p.start },
			errIs:  schedule.ErrInvalidHours,
		},
		{
			name:   "end before start",
			mutate: func(p *ruleParams) { p.start, p.end = p.end, p.start },
			errIs:  schedule.ErrInvalidHours,
		},
		{
			name: "break outside working hours",
			mutate: func(p *ruleParams) {
				p.breakSpan = &schedule.Span{From: 7 * 60, To: 9 * 60}
			},
			errIs: schedule.ErrInvalidBreak,
		},
		{
			name: "inverted break",
			mutate: func(p *ruleParams) {
				p.breakSpan = &schedule.Span{From: 13 * 60, To: 12 * 60}
			},
			errIs: schedule.ErrInvalidBreak,
		},
		{
			name: "date bounds inverted",
			mutate: func(p *ruleParams) {
				from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
				to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
				p.dateFrom, p.dateTo = &from, &to
			},
			errIs: schedule.ErrInvalidDates,
		},
		{
			name: "valid break",
			mutate: func(p *ruleParams) {
				p.breakSpan = &schedule.Span{From: 12 * 60, To: 13 * 60}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := buildRule(t, c.mutate)
			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, r)
			} else {
				require.Nil(t, r)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestRuleActiveOn(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	t.Run("matches the weekday only", func(t *testing.T) {
		r, err := buildRule(t, nil)
		require.NoError(t, err)
		assert.True(t, r.ActiveOn(monday))
		assert.False(t, r.ActiveOn(tuesday))
	})

	t.Run("honors date bounds", func(t *testing.T) {
		from := monday.AddDate(0, 0, 7)
		to := monday.AddDate(0, 0, 21)
		r, err := buildRule(t, func(p *ruleParams) { p.dateFrom, p.dateTo = &from, &to })
		require.NoError(t, err)

		assert.False(t, r.ActiveOn(monday))
		assert.True(t, r.ActiveOn(monday.AddDate(0, 0, 7)))
		assert.True(t, r.ActiveOn(monday.AddDate(0, 0, 21)))
		assert.False(t, r.ActiveOn(monday.AddDate(0, 0, 28)))
	})
}

func TestRuleOpenSpans(t *testing.T) {
	t.Run("no break yields one span", func(t *testing.T) {
		r, err := buildRule(t, nil)
		require.NoError(t, err)
		assert.Equal(t, []schedule.Span{{From: 8 * 60, To: 17 * 60}}, r.OpenSpans())
	})

	t.Run("break splits the day", func(t *testing.T) {
		r, err := buildRule(t, func(p *ruleParams) {
			p.breakSpan = &schedule.Span{From: 12 * 60, To: 13 * 60}
		})
		require.NoError(t, err)
		assert.Equal(t, []schedule.Span{
			{From: 8 * 60, To: 12 * 60},
			{From: 13 * 60, To: 17 * 60},
		}, r.OpenSpans())
	})
}

func TestNewAvailabilityException(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("limited requires a window", func(t *testing.T) {
		_, err := schedule.NewAvailabilityException(uuid.New(), date, schedule.ExceptionLimited, nil, "")
		require.ErrorIs(t, err, schedule.ErrLimitedNoWindow)
	})

	t.Run("limited rejects an inverted window", func(t *testing.T) {
		w := &schedule.Span{From: 13 * 60, To: 12 * 60}
		_, err := schedule.NewAvailabilityException(uuid.New(), date, schedule.ExceptionLimited, w, "")
		require.ErrorIs(t, err, schedule.ErrLimitedNoWindow)
	})

	t.Run("window is dropped for non-limited kinds", func(t *testing.T) {
		w := &schedule.Span{From: 9 * 60, To: 12 * 60}
		exc, err := schedule.NewAvailabilityException(uuid.New(), date, schedule.ExceptionUnavailable, w, "holiday")
		require.NoError(t, err)
		assert.Nil(t, exc.Window())
		assert.Equal(t, "holiday", exc.Reason())
	})
}

func TestDaySpans(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rule, err := buildRule(t, func(p *ruleParams) {
		p.breakSpan = &schedule.Span{From: 12 * 60, To: 13 * 60}
	})
	require.NoError(t, err)

	t.Run("no exception uses the rule minus its break", func(t *testing.T) {
		assert.Equal(t, rule.OpenSpans(), schedule.DaySpans(rule, nil))
	})

	t.Run("unavailable exception removes the day", func(t *testing.T) {
		exc, err := schedule.NewAvailabilityException(rule.StaffID(), date, schedule.ExceptionUnavailable, nil, "")
		require.NoError(t, err)
		assert.Nil(t, schedule.DaySpans(rule, exc))
	})

	t.Run("limited window replaces the rule wholesale", func(t *testing.T) {
		w := &schedule.Span{From: 9 * 60, To: 11 * 60}
		exc, err := schedule.NewAvailabilityException(rule.StaffID(), date, schedule.ExceptionLimited, w, "")
		require.NoError(t, err)
		assert.Equal(t, []schedule.Span{*w}, schedule.DaySpans(rule, exc))
	})

	t.Run("available exception falls through to the rule", func(t *testing.T) {
		exc, err := schedule.NewAvailabilityException(rule.StaffID(), date, schedule.ExceptionAvailable, nil, "")
		require.NoError(t, err)
		assert.Equal(t, rule.OpenSpans(), schedule.DaySpans(rule, exc))
	})

	t.Run("limited exception applies even without a rule", func(t *testing.T) {
		w := &schedule.Span{From: 9 * 60, To: 11 * 60}
		exc, err := schedule.NewAvailabilityException(uuid.New(), date, schedule.ExceptionLimited, w, "")
		require.NoError(t, err)
		assert.Equal(t, []schedule.Span{*w}, schedule.DaySpans(nil, exc))
	})

	t.Run("no rule and no exception yields nothing", func(t *testing.T) {
		assert.Nil(t, schedule.DaySpans(nil, nil))
	})
}
