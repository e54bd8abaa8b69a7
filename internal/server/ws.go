package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

// Event types broadcast to room subscribers.
const (
	EventMessageAppended   = "MessageAppended"
	EventCharacterUpserted = "CharacterUpserted"
	EventCharacterDeleted  = "CharacterDeleted"
	EventRoomReset         = "RoomReset"
)

// Event is a room update pushed to websocket peers.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const broadcastTimeout = 5 * time.Second

// Hub tracks websocket subscribers per room and fans events out to them.
type Hub struct {
	logger *slog.Logger
	mu     sync.Mutex
	rooms  map[string]map[*websocket.Conn]struct{}
}

func newHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) register(code string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[*websocket.Conn]struct{})
	}
	h.rooms[code][conn] = struct{}{}
	peers := len(h.rooms[code])
	h.mu.Unlock()
	h.logger.Info("ws connected", slog.String("room", code), slog.Int("peers", peers))
}

func (h *Hub) unregister(code string, conn *websocket.Conn) {
	h.mu.Lock()
	peers := h.rooms[code]
	delete(peers, conn)
	if len(peers) == 0 {
		delete(h.rooms, code)
	}
	remaining := len(peers)
	h.mu.Unlock()
	h.logger.Info("ws disconnected", slog.String("room", code), slog.Int("peers", remaining))
}

// Broadcast sends an event to every subscriber of the room. Connections
// are copied out under the lock so that slow writers never hold it.
func (h *Hub) Broadcast(code string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal event", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	peers := h.rooms[code]
	conns := make([]*websocket.Conn, 0, len(peers))
	for c := range peers {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	if len(conns) == 0 {
		return
	}
	h.logger.Info("broadcast", slog.String("room", code), slog.String("event", event.Type), slog.Int("peers", len(conns)))

	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()
	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, payload); err != nil {
			h.logger.Error("broadcast write", slog.String("room", code), slog.String("error", err.Error()))
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, err := s.getRoom(code); err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	opts := &websocket.AcceptOptions{}
	if s.allowAllOrigins {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = s.allowedOrigins
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		s.logger.Error("ws accept", slog.String("error", err.Error()))
		return
	}

	s.hub.register(code, conn)
	defer s.hub.unregister(code, conn)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Subscribers are read-only: drain incoming frames until the peer
	// goes away so control frames keep being handled.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}
