package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fatenexus/internal/chat"
	"fatenexus/internal/dice"
	"fatenexus/internal/fate"
)

// Placeholder names substituted for empty input, matching the sheet's
// defaults.
const (
	defaultGMName     = "ГМ"
	defaultPlayerName = "Игрок"
	defaultNPCName    = "НИП"
)

type createRoomRequest struct {
	Name string `json:"name"`
}

type joinRoomRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	User fate.User `json:"user"`
	Room fate.Room `json:"room"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultGMName
	}

	gm := fate.User{ID: uuid.NewString(), Name: name, Role: fate.RoleGM}
	room := fate.NewRoom(gm)
	s.putRoom(r.Context(), room)

	s.logger.Info("room created", slog.String("code", room.Code), slog.String("gm", gm.Name))
	writeJSON(w, http.StatusCreated, sessionResponse{User: gm, Room: room})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultPlayerName
	}

	player := fate.User{ID: uuid.NewString(), Name: name, Role: fate.RolePlayer}
	var joinMsg fate.Message
	room, err := s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		joinMsg = fate.NewSystemMessage(fmt.Sprintf("%s присоединился к игре.", name))
		return room.AddPlayer(player.ID).AppendMessage(joinMsg), nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	s.hub.Broadcast(code, Event{Type: EventMessageAppended, Payload: joinMsg})
	s.logger.Info("player joined", slog.String("code", code), slog.String("player", name))
	writeJSON(w, http.StatusOK, sessionResponse{User: player, Room: room})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.getRoom(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleResetRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := s.dropRoom(r.Context(), code); err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	s.hub.Broadcast(code, Event{Type: EventRoomReset, Payload: map[string]string{"code": code}})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type addCharacterRequest struct {
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
}

func (s *Server) handleAddCharacter(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req addCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var char fate.Character
	_, err := s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			if req.OwnerID == room.GMID {
				name = defaultNPCName
			} else {
				name = defaultPlayerName
			}
		}
		char = fate.NewCharacter(req.OwnerID, name)
		return room.AddCharacter(char), nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	s.hub.Broadcast(code, Event{Type: EventCharacterUpserted, Payload: char})
	writeJSON(w, http.StatusCreated, char)
}

func (s *Server) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	id := chi.URLParam(r, "id")

	var char fate.Character
	if err := json.NewDecoder(r.Body).Decode(&char); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	char.ID = id

	_, err := s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		updated, ok := room.ReplaceCharacter(char)
		if !ok {
			return fate.Room{}, errCharacterNotFound
		}
		return updated, nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.hub.Broadcast(code, Event{Type: EventCharacterUpserted, Payload: char})
	writeJSON(w, http.StatusOK, char)
}

var errCharacterNotFound = errors.New("character not found")

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	id := chi.URLParam(r, "id")

	_, err := s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		updated, ok := room.RemoveCharacter(id)
		if !ok {
			return fate.Room{}, errCharacterNotFound
		}
		return updated, nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.hub.Broadcast(code, Event{Type: EventCharacterDeleted, Payload: map[string]string{"id": id}})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type postMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "empty message")
		return
	}
	sender := strings.TrimSpace(req.Sender)
	if sender == "" {
		sender = defaultPlayerName
	}

	input := chat.Parse(req.Text)
	if input.Kind == chat.KindAssist {
		room, err := s.getRoom(code)
		if err != nil {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		go s.answerAssist(code, input.Body, room.CharacterNames())
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
		return
	}

	msg := fate.NewMessage(sender, input.Body, fate.MessageText)
	if _, err := s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		return room.AppendMessage(msg), nil
	}); err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	s.hub.Broadcast(code, Event{Type: EventMessageAppended, Payload: msg})
	writeJSON(w, http.StatusCreated, msg)
}

// answerAssist runs an assistance request to completion and appends the
// response. It runs outside the request lifecycle: chat is never blocked
// by a pending request, and interleaved messages land in completion order.
func (s *Server) answerAssist(code, prompt string, characterNames []string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.AssistTimeout)
	defer cancel()

	tableContext := fmt.Sprintf("Characters: %s.", strings.Join(characterNames, ", "))
	response := s.assistant.GMAssistance(ctx, prompt, tableContext)

	msg := fate.NewMessage(fate.SenderAssistant, response, fate.MessageAI)
	if _, err := s.mutateRoom(ctx, code, func(room fate.Room) (fate.Room, error) {
		return room.AppendMessage(msg), nil
	}); err != nil {
		// The room was reset while the request was in flight.
		s.logger.Info("assist response dropped", slog.String("code", code))
		return
	}
	s.hub.Broadcast(code, Event{Type: EventMessageAppended, Payload: msg})
}

type postRollRequest struct {
	CharacterID string `json:"characterId"`
	Label       string `json:"label"`
	Modifier    int    `json:"modifier"`
}

func (s *Server) handlePostRoll(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req postRollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = "Ручной бросок"
	}

	var msg fate.Message
	_, err := s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		char, ok := room.CharacterByID(req.CharacterID)
		if !ok {
			return fate.Room{}, errCharacterNotFound
		}
		msg = fate.NewRollMessage(char.Name, label, dice.Roll(), req.Modifier)
		return room.AppendMessage(msg), nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.hub.Broadcast(code, Event{Type: EventMessageAppended, Payload: msg})
	writeJSON(w, http.StatusCreated, msg)
}
