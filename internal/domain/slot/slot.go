package slot

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a candidate bookable interval. It is derived on demand and never
// persisted as a source of truth; booking correctness is enforced by the
// conflict guard at commit time, not by what a slot reported.
type Slot struct {
	Start             time.Time  `json:"start"`
	End               time.Time  `json:"end"`
	StaffID           uuid.UUID  `json:"staff_id"`
	BranchID          uuid.UUID  `json:"branch_id"`
	RoomID            *uuid.UUID `json:"room_id,omitempty"`
	Available         bool       `json:"available"`
	RemainingCapacity int        `json:"remaining_capacity"`
}

// In converts a slot's boundaries to the given display zone.
func (s Slot) In(loc *time.Location) Slot {
	s.Start = s.Start.In(loc)
	s.End = s.End.In(loc)
	return s
}

// Available filters a slot list down to the bookable ones.
func Available(slots []Slot) []Slot {
	var out []Slot
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}
