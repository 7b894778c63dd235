package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/tictactoe-online/internal/entity"
	"github.com/playforge/tictactoe-online/testing/suite"
)

func TestRoomRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage)

	// Given: a freshly created room
	room := entity.NewRoom("room123", 3)
	room.Seat(entity.PlayerX, "conn-1", "Alice")
	room.Seat(entity.PlayerO, "conn-2", "Bob")

	// When: Save is called
	err := roomRepo.Save(ctx, room)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestRoomRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Storage)

		// Given: a stored room with some state on the board
		room := entity.NewRoom("room123", 3)
		room.Seat(entity.PlayerX, "conn-1", "Alice")
		room.Seat(entity.PlayerO, "conn-2", "Bob")
		room.Board[4] = entity.PlayerX
		room.Turn = entity.PlayerO

		err := roomRepo.Save(ctx, room)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrievedRoom, err := roomRepo.GetByID(ctx, room.ID)

		// Then: the retrieved room should match the saved state
		require.NoError(t, err)
		assert.Equal(t, room.ID, retrievedRoom.ID)
		assert.Equal(t, room.Board, retrievedRoom.Board)
		assert.Equal(t, entity.PlayerO, retrievedRoom.Turn)
		assert.Equal(t, room.Players, retrievedRoom.Players)
		assert.Equal(t, room.Names, retrievedRoom.Names)
		assert.True(t, retrievedRoom.Active)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrievedRoom, err := roomRepo.GetByID(ctx, "9999999")

		// Then: an ErrRoomNotFound error should be returned
		require.ErrorIs(t, err, ErrRoomNotFound)
		assert.Nil(t, retrievedRoom)
	})
}

func TestRoomRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Storage)

		// Given: a stored room
		room := entity.NewRoom("room123", 3)

		err := roomRepo.Save(ctx, room)
		require.NoError(t, err)

		// When: DeleteByID is called with the existing ID
		err = roomRepo.DeleteByID(ctx, room.ID)

		// Then: the room is gone
		require.NoError(t, err)

		_, err = roomRepo.GetByID(ctx, room.ID)
		require.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Storage)

		// When: DeleteByID is called with a non-existent ID
		err := roomRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrRoomNotFound error should be returned
		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}
