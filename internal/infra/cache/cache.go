// Package cache memoizes slot generation results. The cache is strictly an
// optimization: callers must treat any failure here as a miss and recompute,
// and booking correctness never depends on cached contents.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/slot"

	"github.com/google/uuid"
)

// Key is a deterministic fingerprint of every input dimension of a
// generation call.
type Key string

// NewKey fingerprints (typeID, dateFrom, dateTo, timezone, staffID?).
func NewKey(typeID uuid.UUID, dateFrom, dateTo time.Time, timezone string, staffID *uuid.UUID) Key {
	staff := ""
	if staffID != nil {
		staff = staffID.String()
	}
	raw := fmt.Sprintf("%s|%s|%s|%s|%s",
		typeID,
		dateFrom.Format("2006-01-02"),
		dateTo.Format("2006-01-02"),
		timezone,
		staff,
	)
	sum := sha256.Sum256([]byte(raw))
	return Key(hex.EncodeToString(sum[:]))
}

// TypeTag and StaffTag name the invalidation dimensions attached to every
// entry, so a single write can expire all dependents without scanning values.
func TypeTag(typeID uuid.UUID) string {
	return "type:" + typeID.String()
}

func StaffTag(staffID uuid.UUID) string {
	return "staff:" + staffID.String()
}

func RoomTag(roomID uuid.UUID) string {
	return "room:" + roomID.String()
}

// SlotCache is a get/put/invalidate store of tagged, TTL-bounded slot
// lists. Implementations must be safe for concurrent use and
// must never expose a partially written entry.
type SlotCache interface {
	Get(ctx context.Context, key Key) ([]slot.Slot, bool, error)
	Put(ctx context.Context, key Key, slots []slot.Slot, tags []string, ttl time.Duration) error
	Invalidate(ctx context.Context, tags ...string) error
}
