package request

import (
	"time"

	"github.com/google/uuid"
)

type WorkingHoursRequest struct {
	StaffID         uuid.UUID   `json:"staff_id" binding:"required"`
	BranchID        uuid.UUID   `json:"branch_id" binding:"required"`
	Weekday         *int        `json:"weekday" binding:"required,min=0,max=6"`
	Start           string      `json:"start" binding:"required"`
	End             string      `json:"end" binding:"required"`
	BreakStart      *string     `json:"break_start"`
	BreakEnd        *string     `json:"break_end"`
	SlotDurationMin int         `json:"slot_duration_min" binding:"omitempty,min=5"`
	RoomIDs         []uuid.UUID `json:"room_ids"`
	DateFrom        *string     `json:"date_from"`
	DateTo          *string     `json:"date_to"`
}

func (r *WorkingHoursRequest) DateBounds() (*time.Time, *time.Time, error) {
	parse := func(s *string) (*time.Time, error) {
		if s == nil {
			return nil, nil
		}
		t, err := time.Parse(dateLayout, *s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	from, err := parse(r.DateFrom)
	if err != nil {
		return nil, nil, err
	}
	to, err := parse(r.DateTo)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

type ExceptionRequest struct {
	StaffID     uuid.UUID `json:"staff_id" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	Kind        string    `json:"kind" binding:"required,oneof=available unavailable limited"`
	WindowStart *string   `json:"window_start"`
	WindowEnd   *string   `json:"window_end"`
	Reason      string    `json:"reason"`
}

func (r *ExceptionRequest) ParsedDate() (time.Time, error) {
	return time.Parse(dateLayout, r.Date)
}

type TypeRuleRequest struct {
	Name                 string      `json:"name" binding:"required"`
	DefaultDurationMin   int         `json:"default_duration_min" binding:"required,min=5"`
	BufferBeforeMin      int         `json:"buffer_before_min" binding:"min=0"`
	BufferAfterMin       int         `json:"buffer_after_min" binding:"min=0"`
	CapacityPerSlot      int         `json:"capacity_per_slot" binding:"required,min=1"`
	AllowedStaffIDs      []uuid.UUID `json:"allowed_staff_ids"`
	AllowOnlineBooking   bool        `json:"allow_online_booking"`
	MinNoticeHours       float64     `json:"min_notice_hours" binding:"min=0"`
	MaxDaysAhead         int         `json:"max_days_ahead" binding:"min=0"`
	CancelLimitHours     float64     `json:"cancel_limit_hours" binding:"min=0"`
	RescheduleLimitHours float64     `json:"reschedule_limit_hours" binding:"min=0"`
}

type RoomRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
	Name     string    `json:"name" binding:"required"`
}

type RoomStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available occupied maintenance cleaning"`
}

type InvalidateCacheRequest struct {
	TypeIDs  []uuid.UUID `json:"type_ids"`
	StaffIDs []uuid.UUID `json:"staff_ids"`
}
