package repository

import (
	"context"
	"sync"

	"github.com/playforge/tictactoe-online/internal/entity"
)

// memoryRoom - in-process RoomRepository. The default backend: rooms do not
// outlive the process, which matches their lifecycle (a room dies with the
// first disconnect anyway). Each instance owns its own map, so independent
// registries can coexist in tests.
//
// Save and GetByID exchange deep copies, mirroring the serialization
// boundary of the redis backend: a room handed out earlier never changes
// under a later mutation of the stored one.
type memoryRoom struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(map[string]*entity.Room),
	}
}

func (that *memoryRoom) Save(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.ID] = room.Clone()

	return nil
}

func (that *memoryRoom) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (that *memoryRoom) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[id]; !ok {
		return ErrRoomNotFound
	}

	delete(that.rooms, id)

	return nil
}
