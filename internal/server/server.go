// Package server exposes the room API over HTTP and fans room events out
// to websocket subscribers.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"fatenexus/internal/fate"
	"fatenexus/internal/store"
)

// ErrRoomNotFound indicates an unknown join code.
var ErrRoomNotFound = errors.New("room not found")

// Assistant produces game-master help for a prompt and table context. It
// never fails; degraded responses are ordinary strings.
type Assistant interface {
	GMAssistance(ctx context.Context, prompt, tableContext string) string
}

// Server owns the room registry. All mutations run under the lock as
// copy-on-write replacements, are mirrored to the store and broadcast to
// websocket peers.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	repo      store.Repository
	assistant Assistant
	hub       *Hub

	mu    sync.RWMutex
	rooms map[string]fate.Room

	allowedOrigins  []string
	allowAllOrigins bool
}

// New constructs a Server and restores persisted rooms.
func New(cfg Config, logger *slog.Logger, repo store.Repository, assistant Assistant) (*Server, error) {
	s := &Server{
		cfg:            cfg,
		logger:         logger,
		repo:           repo,
		assistant:      assistant,
		hub:            newHub(logger),
		rooms:          make(map[string]fate.Room),
		allowedOrigins: cfg.AllowedOrigins,
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			s.allowAllOrigins = true
		}
	}

	rooms, err := repo.LoadRooms(context.Background())
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		s.rooms[room.Code] = room
	}
	logger.Info("rooms restored", slog.Int("count", len(rooms)))

	return s, nil
}

// Router builds the HTTP handler with middleware applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withCORS)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws/rooms/{code}", s.handleWebsocket)

	r.Get("/api/severities", s.handleSeverities)

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", s.handleCreateRoom)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", s.handleGetRoom)
			r.Delete("/", s.handleResetRoom)
			r.Post("/join", s.handleJoinRoom)
			r.Post("/messages", s.handlePostMessage)
			r.Post("/rolls", s.handlePostRoll)
			r.Route("/characters", func(r chi.Router) {
				r.Post("/", s.handleAddCharacter)
				r.Post("/import", s.handleImportCharacter)
				r.Put("/{id}", s.handleUpdateCharacter)
				r.Delete("/{id}", s.handleDeleteCharacter)
				r.Post("/{id}/portrait", s.handlePortrait)
				r.Get("/{id}/export", s.handleExportCharacter)
			})
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.status),
			slog.Duration("duration", time.Since(start)))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSeverities lists the consequence tiers the sheet offers.
func (s *Server) handleSeverities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fate.Severities)
}

// getRoom returns a copy of the room for the given code.
func (s *Server) getRoom(code string) (fate.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return fate.Room{}, ErrRoomNotFound
	}
	return room, nil
}

// putRoom registers a newly created room and persists it.
func (s *Server) putRoom(ctx context.Context, room fate.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room
	s.persist(ctx, room)
}

// mutateRoom applies fn to the room under the lock, stores the result and
// writes the new snapshot. The snapshot is written before the lock is
// released: concurrent mutations cannot reorder their writes, so the
// mirror always ends on the newest state. fn receives and returns room
// values; it must not mutate shared state in place.
func (s *Server) mutateRoom(ctx context.Context, code string, fn func(fate.Room) (fate.Room, error)) (fate.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return fate.Room{}, ErrRoomNotFound
	}
	updated, err := fn(room)
	if err != nil {
		return fate.Room{}, err
	}
	s.rooms[code] = updated
	s.persist(ctx, updated)
	return updated, nil
}

// persist mirrors a snapshot to the store. Persistence failures are logged
// and otherwise ignored: the in-memory state is already updated and the
// next successful write replaces the whole snapshot anyway.
func (s *Server) persist(ctx context.Context, room fate.Room) {
	if err := s.repo.SaveRoom(ctx, room); err != nil {
		s.logger.Error("persist room", slog.String("code", room.Code), slog.String("error", err.Error()))
	}
}

func (s *Server) dropRoom(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return ErrRoomNotFound
	}
	delete(s.rooms, code)
	if err := s.repo.DeleteRoom(ctx, code); err != nil {
		s.logger.Error("delete room snapshot", slog.String("code", code), slog.String("error", err.Error()))
	}
	return nil
}
