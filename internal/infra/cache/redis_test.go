//go:build unit

package cache_test

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/infra/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t)

	typeID := uuid.New()
	staffID := uuid.New()
	key := sampleKey(typeID)
	slots := sampleSlots(staffID)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, key, slots, []string{cache.TypeTag(typeID)}, 10*time.Minute))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, len(slots))
	assert.True(t, got[0].Start.Equal(slots[0].Start))
	assert.Equal(t, slots[0].StaffID, got[0].StaffID)
	assert.Equal(t, slots[0].Available, got[0].Available)
	assert.Equal(t, slots[0].RemainingCapacity, got[0].RemainingCapacity)
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	typeID := uuid.New()
	key := sampleKey(typeID)
	require.NoError(t, c.Put(ctx, key, sampleSlots(uuid.New()), []string{cache.TypeTag(typeID)}, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t)

	typeA := uuid.New()
	typeB := uuid.New()
	staffID := uuid.New()
	keyA := sampleKey(typeA)
	keyB := sampleKey(typeB)

	require.NoError(t, c.Put(ctx, keyA, sampleSlots(staffID),
		[]string{cache.TypeTag(typeA), cache.StaffTag(staffID)}, 10*time.Minute))
	require.NoError(t, c.Put(ctx, keyB, sampleSlots(staffID),
		[]string{cache.TypeTag(typeB), cache.StaffTag(staffID)}, 10*time.Minute))

	t.Run("type tag drops only its entry", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx, cache.TypeTag(typeA)))

		_, ok, _ := c.Get(ctx, keyA)
		assert.False(t, ok)
		_, ok, _ = c.Get(ctx, keyB)
		assert.True(t, ok)
	})

	t.Run("staff tag drops every dependent entry", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, keyA, sampleSlots(staffID),
			[]string{cache.TypeTag(typeA), cache.StaffTag(staffID)}, 10*time.Minute))

		require.NoError(t, c.Invalidate(ctx, cache.StaffTag(staffID)))
		_, ok, _ := c.Get(ctx, keyA)
		assert.False(t, ok)
		_, ok, _ = c.Get(ctx, keyB)
		assert.False(t, ok)
	})

	t.Run("unknown tag is a no-op", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx, cache.RoomTag(uuid.New())))
	})
}

func TestRedisCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	typeID := uuid.New()
	key := sampleKey(typeID)
	require.NoError(t, mr.Set("slots:"+string(key), "{not json"))

	_, ok, err := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Error(t, err, "corrupt entries surface as errors the caller treats as a miss")
}
