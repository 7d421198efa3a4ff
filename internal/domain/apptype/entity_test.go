//go:build unit

package apptype_test

import (
	"testing"
	"time"

	"clinic-scheduler/internal/domain/apptype"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleParams struct {
	duration     time.Duration
	bufferBefore time.Duration
	bufferAfter  time.Duration
	capacity     int
	staffIDs     []uuid.UUID
	maxDaysAhead int
}

func buildRule(t *testing.T, mutate func(*ruleParams)) (*apptype.Rule, error) {
	t.Helper()
	p := ruleParams{
		duration:     30 * time.Minute,
		capacity:     1,
		staffIDs:     []uuid.UUID{uuid.New()},
		maxDaysAhead: 60,
	}
	if mutate != nil {
		mutate(&p)
	}
	return apptype.NewRule(
		"checkup",
		p.duration, p.bufferBefore, p.bufferAfter,
		p.capacity, p.staffIDs,
		true, 0, p.maxDaysAhead, 0, 0,
	)
}

func TestNewRule(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ruleParams)
		errIs  error
	}{
		{name: "valid rule"},
		{
			name:   "zero duration",
			mutate: func(p *ruleParams) { p.duration = 0 },
			errIs:  apptype.ErrInvalidDuration,
		},
		{
			name:   "negative buffer before",
			mutate: func(p *ruleParams) { p.bufferBefore = -time.Minute },
			errIs:  apptype.ErrNegativeBuffer,
		},
		{
			name:   "negative buffer after",
			mutate: func(p *ruleParams) { p.bufferAfter = -time.Minute },
			errIs:  apptype.ErrNegativeBuffer,
		},
		{
			name:   "zero capacity",
			mutate: func(p *ruleParams) { p.capacity = 0 },
			errIs:  apptype.ErrInvalidCapacity,
		},
		{
			name:   "zero horizon",
			mutate: func(p *ruleParams) { p.maxDaysAhead = 0 },
			errIs:  apptype.ErrInvalidHorizon,
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

func TestEligibleStaff(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	outsider := uuid.New()

	r, err := buildRule(t, func(p *ruleParams) { p.staffIDs = []uuid.UUID{alice, bob} })
	require.NoError(t, err)

	t.Run("no request returns whole whitelist", func(t *testing.T) {
		assert.Equal(t, []uuid.UUID{alice, bob}, r.EligibleStaff(nil))
	})

	t.Run("whitelisted request narrows to one", func(t *testing.T) {
		assert.Equal(t, []uuid.UUID{bob}, r.EligibleStaff(&bob))
	})

	t.Run("non-whitelisted request yields empty", func(t *testing.T) {
		assert.Empty(t, r.EligibleStaff(&outsider))
	})
}

func TestMinNotice(t *testing.T) {
	r, err := apptype.NewRule(
		"cleaning", 30*time.Minute, 0, 0, 1, nil,
		true, 1.5, 30, 0, 0,
	)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, r.MinNotice())
}

func TestRuleWithID(t *testing.T) {
	r, err := buildRule(t, nil)
	require.NoError(t, err)

	id := uuid.New()
	copied := r.WithID(id)
	assert.Equal(t, id, copied.ID())
	assert.NotEqual(t, id, r.ID())
	assert.Equal(t, r.DefaultDuration(), copied.DefaultDuration())
}
