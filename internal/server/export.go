package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fatenexus/internal/fate"
)

func (s *Server) handleExportCharacter(w http.ResponseWriter, r *http.Request) {
	room, err := s.getRoom(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	char, ok := room.CharacterByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "character not found")
		return
	}

	filename := char.Name
	if filename == "" {
		filename = "fate_char"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, filename))
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(char)
}

// handleImportCharacter parses an uploaded character document verbatim, as
// the sheet does; only the id is regenerated so the import cannot collide
// with an existing character.
func (s *Server) handleImportCharacter(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var char fate.Character
	if err := json.NewDecoder(r.Body).Decode(&char); err != nil {
		writeError(w, http.StatusBadRequest, "invalid character document")
		return
	}
	char.ID = uuid.NewString()

	if _, err := s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		return room.AddCharacter(char), nil
	}); err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	s.hub.Broadcast(code, Event{Type: EventCharacterUpserted, Payload: char})
	writeJSON(w, http.StatusCreated, char)
}
