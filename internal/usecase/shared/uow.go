package shared

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/apptype"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/room"
	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Schedule() ScheduleRepository
	TypeRules() TypeRuleRepository
	Rooms() RoomRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	TypeRuleByID(ctx context.Context, id uuid.UUID) (*TypeRuleSnapshot, error)
}

type BookingRepository interface {
	LockSchedule(ctx context.Context, staffID uuid.UUID, roomID *uuid.UUID) error
	FindConflicting(ctx context.Context, staffID uuid.UUID, roomID *uuid.UUID, iv booking.Interval, excludeID *uuid.UUID) (*uuid.UUID, error)
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
}

type ScheduleRepository interface {
	CreateWorkingHours(ctx context.Context, rule *schedule.WorkingHoursRule) error
	UpdateWorkingHours(ctx context.Context, rule *schedule.WorkingHoursRule) error
	FindWorkingHoursStaff(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	DeleteWorkingHours(ctx context.Context, id uuid.UUID) error
	CreateException(ctx context.Context, exc *schedule.AvailabilityException) error
	FindExceptionStaff(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	DeleteException(ctx context.Context, id uuid.UUID) error
}

type TypeRuleRepository interface {
	Create(ctx context.Context, rule *apptype.Rule) error
	Update(ctx context.Context, rule *apptype.Rule) error
}

type RoomRepository interface {
	Create(ctx context.Context, rm *room.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status room.Status) error
}

// TypeRuleSnapshot carries the scheduling constraints of an appointment type
// into command validation without re-exposing the entity.
type TypeRuleSnapshot struct {
	ID                   uuid.UUID
	DefaultDuration      time.Duration
	BufferBefore         time.Duration
	BufferAfter          time.Duration
	CapacityPerSlot      int
	AllowOnlineBooking   bool
	MinNotice            time.Duration
	MaxDaysAhead         int
	CancelLimitHours     float64
	RescheduleLimitHours float64
}
