package response

import (
	"time"

	"clinic-scheduler/internal/domain/room"
	"clinic-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

type WorkingHoursResponse struct {
	ID              uuid.UUID   `json:"id"`
	StaffID         uuid.UUID   `json:"staffId"`
	BranchID        uuid.UUID   `json:"branchId"`
	Weekday         int         `json:"weekday"`
	Start           string      `json:"start"`
	End             string      `json:"end"`
	BreakStart      *string     `json:"breakStart,omitempty"`
	BreakEnd        *string     `json:"breakEnd,omitempty"`
	SlotDurationMin int         `json:"slotDurationMin,omitempty"`
	RoomIDs         []uuid.UUID `json:"roomIds,omitempty"`
	DateFrom        *string     `json:"dateFrom,omitempty"`
	DateTo          *string     `json:"dateTo,omitempty"`
}

func FromWorkingHours(r *schedule.WorkingHoursRule) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		ID:              r.ID(),
		StaffID:         r.StaffID(),
		BranchID:        r.BranchID(),
		Weekday:         int(r.Weekday()),
		Start:           r.Start().String(),
		End:             r.End().String(),
		SlotDurationMin: int(r.SlotDuration() / time.Minute),
		RoomIDs:         r.RoomIDs(),
	}
	if br := r.Break(); br != nil {
		from, to := br.From.String(), br.To.String()
		resp.BreakStart, resp.BreakEnd = &from, &to
	}
	if d := r.DateFrom(); d != nil {
		s := d.Format("2006-01-02")
		resp.DateFrom = &s
	}
	if d := r.DateTo(); d != nil {
		s := d.Format("2006-01-02")
		resp.DateTo = &s
	}
	return resp
}

type ExceptionResponse struct {
	ID          uuid.UUID `json:"id"`
	StaffID     uuid.UUID `json:"staffId"`
	Date        string    `json:"date"`
	Kind        string    `json:"kind"`
	WindowStart *string   `json:"windowStart,omitempty"`
	WindowEnd   *string   `json:"windowEnd,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

func FromException(e *schedule.AvailabilityException) *ExceptionResponse {
	resp := &ExceptionResponse{
		ID:      e.ID(),
		StaffID: e.StaffID(),
		Date:    e.Date().Format("2006-01-02"),
		Kind:    string(e.Kind()),
		Reason:  e.Reason(),
	}
	if w := e.Window(); w != nil {
		from, to := w.From.String(), w.To.String()
		resp.WindowStart, resp.WindowEnd = &from, &to
	}
	return resp
}

type RoomResponse struct {
	ID       uuid.UUID `json:"id"`
	BranchID uuid.UUID `json:"branchId"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
}

func FromRoom(r *room.Room) *RoomResponse {
	return &RoomResponse{
		ID:       r.ID(),
		BranchID: r.BranchID(),
		Name:     r.Name(),
		Status:   string(r.Status()),
	}
}
