package queries

import (
	"context"
	"time"

	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

// Read model (DTO for read side)
type BookingView struct {
	ID        uuid.UUID  `json:"id"`
	StaffID   uuid.UUID  `json:"staff_id"`
	BranchID  uuid.UUID  `json:"branch_id"`
	RoomID    *uuid.UUID `json:"room_id,omitempty"`
	TypeID    uuid.UUID  `json:"type_id"`
	PatientID uuid.UUID  `json:"patient_id"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    time.Time  `json:"ends_at"`
	Status    string     `json:"status"`
	Source    string     `json:"source"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*BookingView, error)
}

type BookingViewRepo interface {
	FindView(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListViewsByStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	v, err := q.repo.FindView(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, err
	}
	return v, nil
}

func (q *bookingQueriesImpl) ListByStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*BookingView, error) {
	return q.repo.ListViewsByStaff(ctx, staffID, from, to)
}
