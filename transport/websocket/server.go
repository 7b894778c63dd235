package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playforge/tictactoe-online/internal/match"
)

const (
	// writeWait - allowed duration for a single write.
	writeWait = 10 * time.Second

	// pongWait - the connection is considered dead when no pong arrives
	// within this window; pings go out at pingPeriod.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// coordinator - the match coordinator operations the transport dispatches
// into. Every operation returns the outbound messages to deliver.
type coordinator interface {
	Join(ctx context.Context, connID, name string) []match.Outbound
	Move(ctx context.Context, connID, roomID string, cell int) []match.Outbound
	Chat(ctx context.Context, connID, roomID, name, text string) []match.Outbound
	VoteRematch(ctx context.Context, connID, roomID string) []match.Outbound
	Rejoin(ctx context.Context, connID, roomID, name string) []match.Outbound
	Disconnect(ctx context.Context, connID string) []match.Outbound
}

// connection - one connected client. Writes are serialized by the mutex
// because broadcasts and the ping loop write concurrently.
type connection struct {
	id string
	ws *websocket.Conn
	mu sync.Mutex
}

func (that *connection) send(event string, payload any) error {
	msg := Message{Event: event}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		msg.Payload = raw
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) ping() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to write ping: %w", err)
	}

	return nil
}

type Server struct {
	logger      *slog.Logger
	coordinator coordinator
	upgrader    websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	handlers map[string]func(ctx context.Context, conn *connection, payload json.RawMessage) error
}

func New(logger *slog.Logger, coordinator coordinator) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				// the game is open to any origin; there is no identity to protect
				return true
			},
		},
		connections: make(map[string]*connection),
		handlers:    make(map[string]func(context.Context, *connection, json.RawMessage) error),
	}

	server.handlers[match.EventJoinGame] = server.handleJoinGame
	server.handlers[match.EventMakeMove] = server.handleMakeMove
	server.handlers[match.EventSendMessage] = server.handleSendMessage
	server.handlers[match.EventPlayAgain] = server.handlePlayAgain
	server.handlers[match.EventRejoinRoom] = server.handleRejoinRoom

	return server
}

// HandleConnection - upgrades the request and serves the connection until
// it closes. The connection's close is what tears down any room the client
// is in, via the coordinator's Disconnect.
func (that *Server) HandleConnection(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "HandleConnection")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{
		id: uuid.NewString(),
		ws: ws,
	}

	that.connectionsMutex.Lock()
	that.connections[conn.id] = conn
	that.connectionsMutex.Unlock()

	log.Info("client connected", "connID", conn.id)

	done := make(chan struct{})
	go that.pingLoop(conn, done)

	that.readLoop(req.Context(), conn)

	close(done)

	that.connectionsMutex.Lock()
	delete(that.connections, conn.id)
	that.connectionsMutex.Unlock()

	_ = ws.Close()

	that.deliver(that.coordinator.Disconnect(context.Background(), conn.id))

	log.Info("client disconnected", "connID", conn.id)
}

// readLoop - reads messages until the connection drops and dispatches each
// one through the handler table. Unknown events and malformed payloads are
// logged and skipped.
func (that *Server) readLoop(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "readLoop", "connID", conn.id)

	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[msg.Event]
		if !ok {
			log.Warn("unknown event", "event", msg.Event)
			continue
		}

		if err = handler(ctx, conn, msg.Payload); err != nil {
			log.Error("error handling event", "event", msg.Event, "error", err)
		}
	}
}

func (that *Server) pingLoop(conn *connection, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// deliver - sends an outbound batch, resolving connection ids to live
// connections. A missing connection only gets logged: the coordinator may
// legitimately address a client that dropped a moment ago.
func (that *Server) deliver(msgs []match.Outbound) {
	log := that.logger.With("method", "deliver")

	for _, msg := range msgs {
		that.connectionsMutex.RLock()
		conn, ok := that.connections[msg.ConnID]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Warn("connection not found", "connID", msg.ConnID, "event", msg.Event)
			continue
		}

		if err := conn.send(msg.Event, msg.Payload); err != nil {
			log.Error("failed to send message", "connID", msg.ConnID, "event", msg.Event, "error", err)
		}
	}
}
