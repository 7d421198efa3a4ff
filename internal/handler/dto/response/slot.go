package response

import (
	"time"

	"clinic-scheduler/internal/domain/slot"

	"github.com/google/uuid"
)

type SlotResponse struct {
	Start             time.Time  `json:"start"`
	End               time.Time  `json:"end"`
	StaffID           uuid.UUID  `json:"staffId"`
	BranchID          uuid.UUID  `json:"branchId"`
	RoomID            *uuid.UUID `json:"roomId,omitempty"`
	Available         bool       `json:"available"`
	RemainingCapacity int        `json:"remainingCapacity"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Count int            `json:"count"`
}

func FromSlot(s slot.Slot) SlotResponse {
	return SlotResponse{
		Start:             s.Start,
		End:               s.End,
		StaffID:           s.StaffID,
		BranchID:          s.BranchID,
		RoomID:            s.RoomID,
		Available:         s.Available,
		RemainingCapacity: s.RemainingCapacity,
	}
}

func FromSlots(slots []slot.Slot) SlotListResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, FromSlot(s))
	}
	return SlotListResponse{Slots: out, Count: len(out)}
}
