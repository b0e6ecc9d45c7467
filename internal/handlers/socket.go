package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/pokequest/internal/logger"
	"github.com/jwebster45206/pokequest/internal/services/events"
	"github.com/jwebster45206/pokequest/pkg/state"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = socketPongWait * 9 / 10
)

// Frame types sent on the battle socket. Relayed events use their event type.
const (
	FrameBattle = "battle"
	FrameTurn   = "turn"
	FrameError  = "error"
)

// SocketFrame is one JSON message sent to a battle socket client.
type SocketFrame struct {
	Type     string             `json:"type"`
	Battle   *state.BattleState `json:"battle,omitempty"`
	Messages []string           `json:"messages,omitempty"`
	Error    string             `json:"error,omitempty"`
	Data     map[string]any     `json:"data,omitempty"`
}

// SocketHandler plays a battle over a WebSocket. Clients send ActionRequest
// frames and get a turn or error frame back for each one.
type SocketHandler struct {
	battles     *BattleHandler
	redisClient *redis.Client
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewSocketHandler creates a socket handler that plays turns through battles.
// With a non-nil redisClient the socket also relays the battle's pub/sub events.
func NewSocketHandler(battles *BattleHandler, redisClient *redis.Client, logger *slog.Logger) *SocketHandler {
	return &SocketHandler{
		battles:     battles,
		redisClient: redisClient,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// socketConn serializes writes; gorilla allows one concurrent writer.
type socketConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *socketConn) send(f SocketFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(f)
}

// ServeHTTP upgrades GET /v1/ws/battles/{battleID}
func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) != 4 || pathParts[0] != "v1" || pathParts[1] != "ws" || pathParts[2] != "battles" {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid path. Expected /v1/ws/battles/{battleID}")
		return
	}
	battleID, err := uuid.Parse(pathParts[3])
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid battle ID format.")
		return
	}

	bs, ok := h.battles.load(w, r.Context(), battleID)
	if !ok {
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the handshake error.
		h.logger.Warn("WebSocket upgrade failed", "error", err, "battle_id", battleID.String())
		return
	}
	conn := &socketConn{conn: ws}
	defer func() { _ = ws.Close() }()

	log := logger.WithBattleID(h.logger, battleID)
	log.Info("Battle socket connected", "remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if h.redisClient != nil {
		pubsub := h.redisClient.Subscribe(ctx, events.Channel(battleID))
		defer func() {
			if err := pubsub.Close(); err != nil {
				log.Error("Failed to close pubsub", "error", err)
			}
		}()
		// Wait for the subscription so no event after the first frame is missed.
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Error("Failed to subscribe to battle events", "error", err)
			return
		}
		go h.relay(ctx, conn, pubsub.Channel(), log)
	}

	go h.ping(ctx, conn, log)

	if err := conn.send(SocketFrame{Type: FrameBattle, Battle: bs}); err != nil {
		log.Error("Failed to send battle frame", "error", err)
		return
	}

	_ = ws.SetReadDeadline(time.Now().Add(socketPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Battle socket closed unexpectedly", "error", err)
			}
			log.Info("Battle socket disconnected")
			return
		}

		frame := SocketFrame{Type: FrameError, Error: "Invalid JSON frame"}
		var req ActionRequest
		if err := json.Unmarshal(data, &req); err == nil {
			frame = h.turnFrame(ctx, battleID, req)
		}
		if err := conn.send(frame); err != nil {
			log.Error("Failed to send turn frame", "error", err)
			return
		}
	}
}

func (h *SocketHandler) turnFrame(ctx context.Context, battleID uuid.UUID, req ActionRequest) SocketFrame {
	cmd, err := commandFor(req)
	if err != nil {
		return SocketFrame{Type: FrameError, Error: err.Error()}
	}
	bs, msgs, err := h.battles.playTurn(ctx, battleID, cmd)
	switch {
	case err == nil:
		return SocketFrame{Type: FrameTurn, Battle: bs, Messages: msgs}
	case errors.Is(err, errBattleNotFound):
		return SocketFrame{Type: FrameError, Error: "Battle not found"}
	case errors.Is(err, errStorage):
		return SocketFrame{Type: FrameError, Error: "Failed to save battle"}
	default:
		return SocketFrame{Type: FrameError, Error: err.Error()}
	}
}

func (h *SocketHandler) relay(ctx context.Context, conn *socketConn, msgs <-chan *redis.Message, log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error("Failed to unmarshal event", "error", err, "payload", msg.Payload)
				continue
			}
			if err := conn.send(SocketFrame{Type: string(event.Type), Data: event.Data}); err != nil {
				log.Debug("Failed to relay event", "error", err)
				return
			}
		}
	}
}

func (h *SocketHandler) ping(ctx context.Context, conn *socketConn, log *slog.Logger) {
	ticker := time.NewTicker(socketPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait)); err != nil {
				log.Debug("Ping failed", "error", err)
				return
			}
		}
	}
}
