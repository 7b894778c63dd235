package match

// Wire event names, client-to-server and server-to-client.
const (
	EventJoinGame             = "joinGame"
	EventMessage              = "message"
	EventGameFound            = "gameFound"
	EventGameStart            = "gameStart"
	EventMakeMove             = "makeMove"
	EventUpdateBoard          = "updateBoard"
	EventGameOver             = "gameOver"
	EventSendMessage          = "sendMessage"
	EventReceiveMessage       = "receiveMessage"
	EventPlayAgain            = "playAgain"
	EventRejoinRoom           = "rejoinRoom"
	EventRejoinFailed         = "rejoinFailed"
	EventOpponentDisconnected = "opponentDisconnected"
)

// Outbound - one message the transport must deliver to one connection.
// Coordinator operations return these instead of writing to sockets, so
// every handler stays a pure state transition plus a list of sends.
type Outbound struct {
	ConnID  string
	Event   string
	Payload any
}

type GameFoundPayload struct {
	OpponentName string `json:"opponentName"`
	RoomID       string `json:"roomID"`
}

// GameStartPayload is sent individually: each player receives their own
// playerSymbol. Also used to resync a rejoining player.
type GameStartPayload struct {
	RoomID         string            `json:"roomID"`
	PlayerSymbol   string            `json:"playerSymbol"`
	OpponentSymbol string            `json:"opponentSymbol"`
	PlayerNames    map[string]string `json:"playerNames"`
	CurrentTurn    string            `json:"currentTurn"`
}

type UpdateBoardPayload struct {
	RoomID      string   `json:"roomID"`
	Board       []string `json:"board"`
	CurrentTurn string   `json:"currentTurn"`
}

type GameOverPayload struct {
	RoomID      string            `json:"roomID"`
	Winner      string            `json:"winner"` // "X", "O" or "draw"
	WinningLine []int             `json:"winningLine,omitempty"`
	Board       []string          `json:"board"`
	PlayerNames map[string]string `json:"playerNames"`
}

type ChatPayload struct {
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}
