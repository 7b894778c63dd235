package match

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/playforge/tictactoe-online/internal/entity"
	"github.com/playforge/tictactoe-online/internal/repository"
)

// waiter - the single matchmaking slot: at most one player waits for an
// opponent at any time.
type waiter struct {
	connID string
	name   string
}

// Coordinator - the authoritative engine for online matches. It pairs
// joining players, owns room lifecycle through the repository, validates
// moves, tallies rematch votes and tears rooms down on disconnect.
//
// All operations run under one mutex: pairing (read-clear-create) and every
// room read-modify-broadcast sequence must be atomic. Rooms never share
// state, so a single lock is enough at this scale.
type Coordinator struct {
	logger    *slog.Logger
	rooms     repository.RoomRepository
	boardSize int

	mu        sync.Mutex
	waiting   *waiter
	connRooms map[string]string // connection id -> room id
}

func NewCoordinator(logger *slog.Logger, rooms repository.RoomRepository, boardSize int) *Coordinator {
	if boardSize < entity.MinBoardSize || boardSize > entity.MaxBoardSize {
		boardSize = entity.DefaultBoardSize
	}

	return &Coordinator{
		logger:    logger.With("component", "coordinator"),
		rooms:     rooms,
		boardSize: boardSize,
		connRooms: make(map[string]string),
	}
}

// Join - enters matchmaking. The first caller is parked in the waiting
// slot; the second is paired with it: marks are assigned at random, a room
// is created and both players receive gameFound plus their own gameStart.
func (that *Coordinator) Join(ctx context.Context, connID, name string) []Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Join", "connID", connID)

	if name == "" {
		name = "Player " + shortID(connID)
	}

	if that.waiting == nil || that.waiting.connID == connID {
		that.waiting = &waiter{connID: connID, name: name}
		log.Info("player is waiting for an opponent", "name", name)

		return []Outbound{
			{ConnID: connID, Event: EventMessage, Payload: fmt.Sprintf("Waiting for an opponent, %s...", name)},
		}
	}

	opponent := that.waiting
	that.waiting = nil

	room := entity.NewRoom(uuid.NewString(), that.boardSize)

	joinerMark, waiterMark := entity.RandomMarks()
	room.Seat(joinerMark, connID, name)
	room.Seat(waiterMark, opponent.connID, opponent.name)

	if err := that.rooms.Save(ctx, room); err != nil {
		log.Error("failed to save room", "error", err)
		that.waiting = opponent

		return nil
	}

	that.connRooms[connID] = room.ID
	that.connRooms[opponent.connID] = room.ID

	log.Info("game started", "roomID", room.ID,
		"playerX", room.Names[entity.PlayerX], "playerO", room.Names[entity.PlayerO])

	msgs := []Outbound{
		{ConnID: connID, Event: EventGameFound, Payload: GameFoundPayload{OpponentName: opponent.name, RoomID: room.ID}},
		{ConnID: opponent.connID, Event: EventGameFound, Payload: GameFoundPayload{OpponentName: name, RoomID: room.ID}},
	}

	return append(msgs, gameStartMessages(room)...)
}

// Move - a move attempt. Invalid attempts (unknown room, not a member,
// rejected by the room) are logged and dropped without a reply; the client
// resyncs on the next authoritative broadcast. An accepted move yields
// either an updateBoard broadcast or, on a terminal position, gameOver.
func (that *Coordinator) Move(ctx context.Context, connID, roomID string, cell int) []Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Move", "connID", connID, "roomID", roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		log.Warn("move in unknown room", "error", err)
		return nil
	}

	mark, ok := room.MarkOf(connID)
	if !ok {
		log.Warn("move from a connection that is not in the room")
		return nil
	}

	result, err := room.ApplyMove(mark, cell)
	if err != nil {
		log.Warn("rejected move", "cell", cell, "error", err)
		return nil
	}

	if err = that.rooms.Save(ctx, room); err != nil {
		log.Error("failed to save room", "error", err)
		return nil
	}

	if result.InProgress() {
		return broadcast(room, EventUpdateBoard, UpdateBoardPayload{
			RoomID:      room.ID,
			Board:       room.Board,
			CurrentTurn: room.Turn,
		})
	}

	// Terminal position. The room stays registered, inactive, so both
	// players can vote for a rematch.
	log.Info("game over", "winner", result.Winner)

	return broadcast(room, EventGameOver, GameOverPayload{
		RoomID:      room.ID,
		Winner:      result.Winner,
		WinningLine: result.Line,
		Board:       room.Board,
		PlayerNames: room.Names,
	})
}

// Chat - relays a chat line to the opponent. The sender renders its own
// message locally, so it is excluded from the relay.
func (that *Coordinator) Chat(ctx context.Context, connID, roomID, name, text string) []Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Chat", "connID", connID, "roomID", roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		log.Warn("chat in unknown room", "error", err)
		return nil
	}

	mark, ok := room.MarkOf(connID)
	if !ok {
		log.Warn("chat from a connection that is not in the room")
		return nil
	}

	return []Outbound{{
		ConnID:  room.Players[entity.Opponent(mark)],
		Event:   EventReceiveMessage,
		Payload: ChatPayload{PlayerName: name, Message: text},
	}}
}

// VoteRematch - records a rematch vote. With both votes in, the room
// resets and both players receive a fresh gameStart; with one vote in,
// the opponent gets a prompt and the voter a waiting notice.
func (that *Coordinator) VoteRematch(ctx context.Context, connID, roomID string) []Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "VoteRematch", "connID", connID, "roomID", roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		log.Warn("rematch vote for unknown room", "error", err)
		return nil
	}

	mark, ok := room.MarkOf(connID)
	if !ok {
		log.Warn("rematch vote from a connection that is not in the room")
		return nil
	}

	if room.VoteRematch(mark) {
		room.Reset()

		if err = that.rooms.Save(ctx, room); err != nil {
			log.Error("failed to save room", "error", err)
			return nil
		}

		log.Info("room restarted")

		return gameStartMessages(room)
	}

	if err = that.rooms.Save(ctx, room); err != nil {
		log.Error("failed to save room", "error", err)
		return nil
	}

	opponentMark := entity.Opponent(mark)

	return []Outbound{
		{
			ConnID:  room.Players[opponentMark],
			Event:   EventMessage,
			Payload: fmt.Sprintf("%s wants to play again.", room.Names[mark]),
		},
		{
			ConnID:  connID,
			Event:   EventMessage,
			Payload: fmt.Sprintf("Waiting for %s to accept.", room.Names[opponentMark]),
		},
	}
}

// Rejoin - resyncs a connection into a live room. The connection must
// match one of the two seats; failing that, a seat whose display name
// matches exactly is rebound to the new connection. Name-based recovery is
// deliberately weak (no tokens), matching the strength of the rest of the
// protocol. Failure is the one protocol error that gets an explicit reply.
func (that *Coordinator) Rejoin(ctx context.Context, connID, roomID, name string) []Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Rejoin", "connID", connID, "roomID", roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		log.Warn("rejoin into unknown room", "error", err)

		return []Outbound{{ConnID: connID, Event: EventRejoinFailed, Payload: "Room not found."}}
	}

	mark, ok := room.MarkOf(connID)
	if !ok {
		mark, ok = that.rebindSeat(ctx, room, connID, name)
	}

	if !ok {
		log.Warn("rejoin refused", "name", name)

		return []Outbound{{ConnID: connID, Event: EventRejoinFailed, Payload: "You are not part of this room."}}
	}

	that.connRooms[connID] = room.ID

	log.Info("player rejoined", "mark", mark, "name", name)

	return []Outbound{
		{ConnID: connID, Event: EventGameStart, Payload: GameStartPayload{
			RoomID:         room.ID,
			PlayerSymbol:   mark,
			OpponentSymbol: entity.Opponent(mark),
			PlayerNames:    room.Names,
			CurrentTurn:    room.Turn,
		}},
		{ConnID: connID, Event: EventUpdateBoard, Payload: UpdateBoardPayload{
			RoomID:      room.ID,
			Board:       room.Board,
			CurrentTurn: room.Turn,
		}},
	}
}

// rebindSeat - moves a seat to a new connection when the display name
// matches exactly one seat. Requires the coordinator mutex.
func (that *Coordinator) rebindSeat(ctx context.Context, room *entity.Room, connID, name string) (string, bool) {
	var matched string
	for _, mark := range [...]string{entity.PlayerX, entity.PlayerO} {
		if room.Names[mark] == name {
			if matched != "" {
				// Both players share the name; no way to tell them apart.
				return "", false
			}
			matched = mark
		}
	}

	if matched == "" {
		return "", false
	}

	oldConnID := room.Players[matched]
	delete(that.connRooms, oldConnID)
	room.Players[matched] = connID

	if err := that.rooms.Save(ctx, room); err != nil {
		that.logger.Error("failed to save room after seat rebind", "roomID", room.ID, "error", err)
		return "", false
	}

	return matched, true
}

// Disconnect - transport-level connection loss. A waiting player frees the
// matchmaking slot; a player in a room tears the room down immediately and
// the survivor receives a single opponentDisconnected.
func (that *Coordinator) Disconnect(ctx context.Context, connID string) []Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Disconnect", "connID", connID)

	if that.waiting != nil && that.waiting.connID == connID {
		log.Info("waiting player disconnected", "name", that.waiting.name)
		that.waiting = nil

		return nil
	}

	roomID, ok := that.connRooms[connID]
	if !ok {
		return nil
	}
	delete(that.connRooms, connID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		log.Warn("room already gone", "roomID", roomID, "error", err)
		return nil
	}

	mark, ok := room.MarkOf(connID)
	if !ok {
		return nil
	}

	survivorConnID := room.Players[entity.Opponent(mark)]
	delete(that.connRooms, survivorConnID)

	if err = that.rooms.DeleteByID(ctx, roomID); err != nil {
		log.Error("failed to delete room", "roomID", roomID, "error", err)
	}

	log.Info("room removed after disconnect", "roomID", roomID)

	return []Outbound{{ConnID: survivorConnID, Event: EventOpponentDisconnected}}
}

// gameStartMessages - one gameStart per player, each with their own symbol.
func gameStartMessages(room *entity.Room) []Outbound {
	msgs := make([]Outbound, 0, 2)
	for _, mark := range [...]string{entity.PlayerX, entity.PlayerO} {
		msgs = append(msgs, Outbound{
			ConnID: room.Players[mark],
			Event:  EventGameStart,
			Payload: GameStartPayload{
				RoomID:         room.ID,
				PlayerSymbol:   mark,
				OpponentSymbol: entity.Opponent(mark),
				PlayerNames:    room.Names,
				CurrentTurn:    room.Turn,
			},
		})
	}

	return msgs
}

// broadcast - the same payload to both players, X first for determinism.
func broadcast(room *entity.Room, event string, payload any) []Outbound {
	msgs := make([]Outbound, 0, 2)
	for _, mark := range [...]string{entity.PlayerX, entity.PlayerO} {
		msgs = append(msgs, Outbound{ConnID: room.Players[mark], Event: event, Payload: payload})
	}

	return msgs
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}
