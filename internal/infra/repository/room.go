package repository

import (
	"context"

	"clinic-scheduler/internal/domain/room"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type RoomRepository struct {
	db db.DBTX
}

func NewRoomRepository(dbtx db.DBTX) *RoomRepository {
	return &RoomRepository{db: dbtx}
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO rooms (id, branch_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`,
		rm.ID(), rm.BranchID(), rm.Name(), string(rm.Status()))
	if err != nil {
		return infra.WrapRepoErr("failed to create room", err, kindFromPgErr(err))
	}
	return nil
}

func (r *RoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	var (
		branchID     uuid.UUID
		name, status string
	)
	err := r.db.QueryRow(ctx, `SELECT branch_id, name, status FROM rooms WHERE id = $1`, id).
		Scan(&branchID, &name, &status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load room", err)
	}
	return room.Reconstruct(id, branchID, name, room.Status(status)), nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status room.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE rooms SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to update room status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return nil
}
