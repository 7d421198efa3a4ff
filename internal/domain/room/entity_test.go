//go:build unit

package room_test

import (
	"testing"

	"clinic-scheduler/internal/domain/room"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoom(t *testing.T) {
	r := room.NewRoom(uuid.New(), "Exam 1")
	assert.Equal(t, room.StatusAvailable, r.Status())
	assert.True(t, r.Bookable())
	assert.NotEqual(t, uuid.Nil, r.ID())
}

func TestRoomSetStatus(t *testing.T) {
	r := room.NewRoom(uuid.New(), "Exam 1")

	for _, s := range []room.Status{
		room.StatusOccupied,
		room.StatusMaintenance,
		room.StatusCleaning,
		room.StatusAvailable,
	} {
		require.NoError(t, r.SetStatus(s))
		assert.Equal(t, s, r.Status())
	}

	t.Run("unknown status is rejected", func(t *testing.T) {
		err := r.SetStatus(room.Status("demolished"))
		require.ErrorIs(t, err, room.ErrInvalidStatusChange)
	})
}

func TestRoomBookable(t *testing.T) {
	r := room.NewRoom(uuid.New(), "Exam 2")
	for _, s := range []room.Status{room.StatusOccupied, room.StatusMaintenance, room.StatusCleaning} {
		require.NoError(t, r.SetStatus(s))
		assert.False(t, r.Bookable())
	}
	require.NoError(t, r.SetStatus(room.StatusAvailable))
	assert.True(t, r.Bookable())
}
