package readstore

import (
	"context"

	"clinic-scheduler/internal/domain/room"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

type RoomReadStore struct {
	db db.DBTX
}

func NewRoomReadStore(dbtx db.DBTX) *RoomReadStore {
	return &RoomReadStore{db: dbtx}
}

// FindByIDs loads the given rooms in one query. Missing ids are simply
// absent from the result; the generator treats an unknown room as not
// bookable.
func (s *RoomReadStore) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*room.Room, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, branch_id, name, status
		FROM rooms
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load rooms", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*room.Room, len(ids))
	for rows.Next() {
		var (
			id, branchID uuid.UUID
			name, status string
		)
		if err := rows.Scan(&id, &branchID, &name, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room", err)
		}
		out[id] = room.Reconstruct(id, branchID, name, room.Status(status))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate rooms", err)
	}
	return out, nil
}

// ListByBranch returns all rooms for a branch ordered by name.
func (s *RoomReadStore) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*room.Room, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, branch_id, name, status
		FROM rooms
		WHERE branch_id = $1
		ORDER BY name`, branchID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms", err)
	}
	defer rows.Close()

	var out []*room.Room
	for rows.Next() {
		var (
			id, branch   uuid.UUID
			name, status string
		)
		if err := rows.Scan(&id, &branch, &name, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room", err)
		}
		out = append(out, room.Reconstruct(id, branch, name, room.Status(status)))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate rooms", err)
	}
	return out, nil
}
