package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	StaffID   uuid.UUID  `json:"staff_id" binding:"required"`
	BranchID  uuid.UUID  `json:"branch_id" binding:"required"`
	RoomID    *uuid.UUID `json:"room_id"`
	TypeID    uuid.UUID  `json:"type_id" binding:"required"`
	PatientID uuid.UUID  `json:"patient_id" binding:"required"`
	StartsAt  time.Time  `json:"starts_at" binding:"required"`
	EndsAt    time.Time  `json:"ends_at" binding:"required"`
	Source    string     `json:"source" binding:"omitempty,oneof=manual online"`
	Note      string     `json:"note"`
	Draft     bool       `json:"draft"`
}

type RescheduleBookingRequest struct {
	StartsAt time.Time  `json:"starts_at" binding:"required"`
	EndsAt   time.Time  `json:"ends_at" binding:"required"`
	RoomID   *uuid.UUID `json:"room_id"`
}
