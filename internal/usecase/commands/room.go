package commands

import (
	"context"
	"log/slog"

	"clinic-scheduler/internal/domain/room"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrRoomNotFound = errs.New("room not found")

type RoomCommands interface {
	Create(ctx context.Context, branchID uuid.UUID, name string) (*room.Room, error)
	SetStatus(ctx context.Context, id uuid.UUID, status room.Status) error
}

type roomCommandsImpl struct {
	uow   shared.UnitOfWork
	cache cache.SlotCache
}

func NewRoomCommands(uow shared.UnitOfWork, slotCache cache.SlotCache) RoomCommands {
	return &roomCommandsImpl{uow: uow, cache: slotCache}
}

func (c *roomCommandsImpl) Create(ctx context.Context, branchID uuid.UUID, name string) (*room.Room, error) {
	rm := room.NewRoom(branchID, name)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Rooms().Create(ctx, rm)
	})
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// SetStatus moves a room through its lifecycle. Anything other than
// "available" removes the room from slot generation, so cached lists
// referencing it expire.
func (c *roomCommandsImpl) SetStatus(ctx context.Context, id uuid.UUID, status room.Status) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rm, err := tx.Rooms().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrRoomNotFound)
			}
			return err
		}
		if err := rm.SetStatus(status); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if err := tx.Rooms().UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		if err := c.cache.Invalidate(ctx, cache.RoomTag(id)); err != nil {
			slog.Warn("slot cache invalidation failed", "error", err.Error())
		}
		return nil
	})
}
