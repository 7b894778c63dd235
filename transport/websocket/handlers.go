package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleJoinGame(ctx context.Context, conn *connection, raw json.RawMessage) error {
	var payload JoinGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.deliver(that.coordinator.Join(ctx, conn.id, payload.PlayerName))

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, conn *connection, raw json.RawMessage) error {
	var payload MakeMovePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.deliver(that.coordinator.Move(ctx, conn.id, payload.RoomID, payload.CellIndex))

	return nil
}

func (that *Server) handleSendMessage(ctx context.Context, conn *connection, raw json.RawMessage) error {
	var payload SendMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.deliver(that.coordinator.Chat(ctx, conn.id, payload.RoomID, payload.PlayerName, payload.Message))

	return nil
}

func (that *Server) handlePlayAgain(ctx context.Context, conn *connection, raw json.RawMessage) error {
	var payload PlayAgainPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.deliver(that.coordinator.VoteRematch(ctx, conn.id, payload.RoomID))

	return nil
}

func (that *Server) handleRejoinRoom(ctx context.Context, conn *connection, raw json.RawMessage) error {
	var payload RejoinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.deliver(that.coordinator.Rejoin(ctx, conn.id, payload.RoomID, payload.PlayerName))

	return nil
}
