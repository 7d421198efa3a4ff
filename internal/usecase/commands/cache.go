package commands

import (
	"context"

	"clinic-scheduler/internal/infra/cache"

	"github.com/google/uuid"
)

// CacheCommands exposes manual invalidation for operators: after bulk data
// imports or schema fixes the slot cache may be stale ahead of its TTL.
type CacheCommands interface {
	Invalidate(ctx context.Context, typeIDs, staffIDs []uuid.UUID) error
}

type cacheCommandsImpl struct {
	cache cache.SlotCache
}

func NewCacheCommands(slotCache cache.SlotCache) CacheCommands {
	return &cacheCommandsImpl{cache: slotCache}
}

func (c *cacheCommandsImpl) Invalidate(ctx context.Context, typeIDs, staffIDs []uuid.UUID) error {
	tags := make([]string, 0, len(typeIDs)+len(staffIDs))
	for _, id := range typeIDs {
		tags = append(tags, cache.TypeTag(id))
	}
	for _, id := range staffIDs {
		tags = append(tags, cache.StaffTag(id))
	}
	if len(tags) == 0 {
		return nil
	}
	return c.cache.Invalidate(ctx, tags...)
}
