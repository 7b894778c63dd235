package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/tictactoe-online/internal/entity"
)

func TestMemoryRoomRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save then GetByID returns the room", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()

		room := entity.NewRoom("room-1", 3)
		require.NoError(t, roomRepo.Save(ctx, room))

		retrieved, err := roomRepo.GetByID(ctx, "room-1")
		require.NoError(t, err)
		assert.Equal(t, room, retrieved)
	})

	t.Run("GetByID on unknown id returns ErrRoomNotFound", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()

		_, err := roomRepo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("DeleteByID removes the room", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()

		require.NoError(t, roomRepo.Save(ctx, entity.NewRoom("room-1", 3)))
		require.NoError(t, roomRepo.DeleteByID(ctx, "room-1"))

		_, err := roomRepo.GetByID(ctx, "room-1")
		require.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("DeleteByID on unknown id returns ErrRoomNotFound", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()

		require.ErrorIs(t, roomRepo.DeleteByID(ctx, "missing"), ErrRoomNotFound)
	})

	t.Run("Stored room is isolated from the caller's copy", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()

		// Given: a saved room
		room := entity.NewRoom("room-1", 3)
		room.Seat(entity.PlayerX, "conn-x", "Alice")
		require.NoError(t, roomRepo.Save(ctx, room))

		// When: the caller keeps mutating its own reference
		room.Board[0] = entity.PlayerX
		room.Turn = entity.PlayerO
		room.Names[entity.PlayerX] = "Mallory"

		// Then: the stored room is untouched
		stored, err := roomRepo.GetByID(ctx, "room-1")
		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, stored.Board[0])
		assert.Equal(t, entity.PlayerX, stored.Turn)
		assert.Equal(t, "Alice", stored.Names[entity.PlayerX])
	})

	t.Run("Retrieved rooms do not share state", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()

		require.NoError(t, roomRepo.Save(ctx, entity.NewRoom("room-1", 3)))

		// When: one retrieved copy is mutated
		first, err := roomRepo.GetByID(ctx, "room-1")
		require.NoError(t, err)
		first.Board[4] = entity.PlayerO

		// Then: a second retrieval still sees the stored state
		second, err := roomRepo.GetByID(ctx, "room-1")
		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, second.Board[4])
	})

	t.Run("Instances are independent", func(t *testing.T) {
		// Given: two separate registries
		first := NewMemoryRoomRepository()
		second := NewMemoryRoomRepository()

		require.NoError(t, first.Save(ctx, entity.NewRoom("room-1", 3)))

		// Then: the room is only visible in the registry that stored it
		_, err := second.GetByID(ctx, "room-1")
		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}
