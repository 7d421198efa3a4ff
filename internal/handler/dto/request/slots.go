package request

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Query-string IDs bind as validated strings because gin's form binding
// cannot populate uuid.UUID fields; handlers parse them explicitly.
type ListSlotsRequest struct {
	TypeID   string `form:"type_id" binding:"required,uuid"`
	StaffID  string `form:"staff_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"required"`
	DateTo   string `form:"date_to" binding:"required"`
	Timezone string `form:"timezone"`
}

func (r *ListSlotsRequest) Type() (uuid.UUID, error) {
	return uuid.Parse(r.TypeID)
}

func (r *ListSlotsRequest) Staff() (*uuid.UUID, error) {
	return parseOptionalID(r.StaffID)
}

func (r *ListSlotsRequest) Dates() (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, r.DateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(dateLayout, r.DateTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

type NextSlotRequest struct {
	TypeID   string `form:"type_id" binding:"required,uuid"`
	StaffID  string `form:"staff_id" binding:"omitempty,uuid"`
	From     string `form:"from"`
	Timezone string `form:"timezone"`
}

func (r *NextSlotRequest) Type() (uuid.UUID, error) {
	return uuid.Parse(r.TypeID)
}

func (r *NextSlotRequest) Staff() (*uuid.UUID, error) {
	return parseOptionalID(r.StaffID)
}

func (r *NextSlotRequest) FromDate() (time.Time, error) {
	if r.From == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, r.From)
}

type CheckSlotRequest struct {
	TypeID   string    `form:"type_id" binding:"required,uuid"`
	StaffID  string    `form:"staff_id" binding:"required,uuid"`
	Start    time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Timezone string    `form:"timezone"`
}

func (r *CheckSlotRequest) Type() (uuid.UUID, error) {
	return uuid.Parse(r.TypeID)
}

func (r *CheckSlotRequest) Staff() (uuid.UUID, error) {
	return uuid.Parse(r.StaffID)
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
