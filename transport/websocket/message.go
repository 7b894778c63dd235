package websocket

import "encoding/json"

// Message - the wire envelope: an event name plus the event's payload.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client-to-server payloads.

type JoinGamePayload struct {
	PlayerName string `json:"playerName"`
}

type MakeMovePayload struct {
	RoomID    string `json:"roomID"`
	CellIndex int    `json:"cellIndex"`
}

type SendMessagePayload struct {
	RoomID     string `json:"roomID"`
	Message    string `json:"message"`
	PlayerName string `json:"playerName"`
}

type PlayAgainPayload struct {
	RoomID string `json:"roomID"`
}

type RejoinRoomPayload struct {
	RoomID     string `json:"roomID"`
	PlayerName string `json:"playerName"`
}
