package fate

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Role identifies a participant's seat at the table.
type Role string

const (
	RoleGM     Role = "GM"
	RolePlayer Role = "PLAYER"
)

// User is a session participant. Created once per session and immutable
// afterwards.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Room is the top-level session container: it owns the characters and the
// ordered chat log.
type Room struct {
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	GMID       string      `json:"gmId"`
	Players    []string    `json:"players"`
	Characters []Character `json:"characters"`
	Messages   []Message   `json:"messages"`
}

const joinCodeLength = 6

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateJoinCode produces a short human-shareable room code.
func GenerateJoinCode() string {
	code := make([]byte, joinCodeLength)
	for i := range code {
		code[i] = joinCodeAlphabet[rand.IntN(len(joinCodeAlphabet))]
	}
	return string(code)
}

// NewRoom creates a room owned by the given GM, with a generated join code
// and a system welcome message.
func NewRoom(gm User) Room {
	code := GenerateJoinCode()
	return Room{
		Code:       code,
		Name:       fmt.Sprintf("Стол %s", gm.Name),
		GMID:       gm.ID,
		Players:    []string{gm.ID},
		Characters: []Character{},
		Messages: []Message{
			NewSystemMessage(fmt.Sprintf("Комната %s создана. Добро пожаловать в Fate VTT!", code)),
		},
	}
}

// AddPlayer records a participant id. Already-present ids are a no-op.
func (r Room) AddPlayer(userID string) Room {
	if slices.Contains(r.Players, userID) {
		return r
	}
	r.Players = append(slices.Clone(r.Players), userID)
	return r
}

// AddCharacter appends a character to the room.
func (r Room) AddCharacter(c Character) Room {
	r.Characters = append(slices.Clone(r.Characters), c)
	return r
}

// ReplaceCharacter swaps in the character with the matching id. The second
// return reports whether a match was found.
func (r Room) ReplaceCharacter(c Character) (Room, bool) {
	characters := slices.Clone(r.Characters)
	for i, existing := range characters {
		if existing.ID == c.ID {
			characters[i] = c
			r.Characters = characters
			return r, true
		}
	}
	return r, false
}

// RemoveCharacter drops the character with the given id.
func (r Room) RemoveCharacter(id string) (Room, bool) {
	characters := slices.Clone(r.Characters)
	for i, existing := range characters {
		if existing.ID == id {
			r.Characters = slices.Delete(characters, i, i+1)
			return r, true
		}
	}
	return r, false
}

// CharacterByID looks up a character.
func (r Room) CharacterByID(id string) (Character, bool) {
	for _, c := range r.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// AppendMessage appends to the chat log. The log is append-only: entries
// are never reordered or deleted.
func (r Room) AppendMessage(m Message) Room {
	r.Messages = append(slices.Clone(r.Messages), m)
	return r
}

// CharacterNames lists the names of all characters at the table, used as
// context for assistance requests.
func (r Room) CharacterNames() []string {
	names := make([]string, 0, len(r.Characters))
	for _, c := range r.Characters {
		names = append(names, c.Name)
	}
	return names
}
