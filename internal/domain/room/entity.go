package room

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidStatusChange = errors.New("invalid room status change")

// Status is the operational state of a bookable room.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
	StatusCleaning    Status = "cleaning"
)

// Room is a per-branch bookable resource. Only a room in the available state
// can host new bookings; its schedule conflicts are checked against the
// booking index, same overlap rule as staff.
type Room struct {
	id       uuid.UUID
	branchID uuid.UUID
	name     string
	status   Status
}

func NewRoom(branchID uuid.UUID, name string) *Room {
	return &Room{
		id:       uuid.New(),
		branchID: branchID,
		name:     name,
		status:   StatusAvailable,
	}
}

func Reconstruct(id, branchID uuid.UUID, name string, status Status) *Room {
	return &Room{id: id, branchID: branchID, name: name, status: status}
}

func (r *Room) Bookable() bool {
	return r.status == StatusAvailable
}

func (r *Room) SetStatus(to Status) error {
	switch to {
	case StatusAvailable, StatusOccupied, StatusMaintenance, StatusCleaning:
		r.status = to
		return nil
	}
	return ErrInvalidStatusChange
}

func (r *Room) ID() uuid.UUID       { return r.id }
func (r *Room) BranchID() uuid.UUID { return r.branchID }
func (r *Room) Name() string        { return r.name }
func (r *Room) Status() Status      { return r.status }
