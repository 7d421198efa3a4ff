package response

import (
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID        uuid.UUID  `json:"id"`
	StaffID   uuid.UUID  `json:"staffId"`
	BranchID  uuid.UUID  `json:"branchId"`
	RoomID    *uuid.UUID `json:"roomId,omitempty"`
	TypeID    uuid.UUID  `json:"typeId"`
	PatientID uuid.UUID  `json:"patientId"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    time.Time  `json:"endsAt"`
	Status    string     `json:"status"`
	Source    string     `json:"source"`
	Note      string     `json:"note,omitempty"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        b.ID(),
		StaffID:   b.StaffID(),
		BranchID:  b.BranchID(),
		RoomID:    b.RoomID(),
		TypeID:    b.TypeID(),
		PatientID: b.PatientID(),
		StartsAt:  b.Interval().Start(),
		EndsAt:    b.Interval().End(),
		Status:    string(b.Status()),
		Source:    string(b.Source()),
		Note:      b.Note(),
	}
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:        v.ID,
		StaffID:   v.StaffID,
		BranchID:  v.BranchID,
		RoomID:    v.RoomID,
		TypeID:    v.TypeID,
		PatientID: v.PatientID,
		StartsAt:  v.StartsAt,
		EndsAt:    v.EndsAt,
		Status:    v.Status,
		Source:    v.Source,
		Note:      v.Note,
	}
}
