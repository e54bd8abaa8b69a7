package fate

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"fatenexus/internal/dice"
)

func TestNewRoom(t *testing.T) {
	gm := User{ID: "u1", Name: "Мария", Role: RoleGM}
	room := NewRoom(gm)

	if len(room.Code) != 6 {
		t.Fatalf("join code %q, want 6 characters", room.Code)
	}
	if room.Code != strings.ToUpper(room.Code) {
		t.Fatalf("join code %q is not uppercase", room.Code)
	}
	if room.GMID != "u1" {
		t.Fatalf("gm id = %q", room.GMID)
	}
	if room.Name != "Стол Мария" {
		t.Fatalf("room name = %q", room.Name)
	}
	if len(room.Messages) != 1 || room.Messages[0].Kind != MessageSystem {
		t.Fatalf("expected a single system welcome message, got %+v", room.Messages)
	}
	if !strings.Contains(room.Messages[0].Text, room.Code) {
		t.Fatalf("welcome message %q does not mention the code", room.Messages[0].Text)
	}
}

func TestAddPlayerIsIdempotent(t *testing.T) {
	room := NewRoom(User{ID: "gm", Role: RoleGM})
	room = room.AddPlayer("p1")
	room = room.AddPlayer("p1")
	if len(room.Players) != 2 {
		t.Fatalf("players = %v", room.Players)
	}
}

func TestReplaceCharacter(t *testing.T) {
	room := NewRoom(User{ID: "gm", Role: RoleGM})
	char := NewCharacter("gm", "НИП")
	room = room.AddCharacter(char)

	updated := char.SetName("Трактирщик")
	room, ok := room.ReplaceCharacter(updated)
	if !ok {
		t.Fatalf("character not found for replace")
	}
	got, _ := room.CharacterByID(char.ID)
	if got.Name != "Трактирщик" {
		t.Fatalf("name = %q", got.Name)
	}

	stranger := NewCharacter("gm", "x")
	if _, ok := room.ReplaceCharacter(stranger); ok {
		t.Fatalf("replace of unknown character reported success")
	}
}

func TestRemoveCharacter(t *testing.T) {
	room := NewRoom(User{ID: "gm", Role: RoleGM})
	char := NewCharacter("gm", "НИП")
	room = room.AddCharacter(char)

	room, ok := room.RemoveCharacter(char.ID)
	if !ok || len(room.Characters) != 0 {
		t.Fatalf("character not removed")
	}
	if _, ok := room.RemoveCharacter(char.ID); ok {
		t.Fatalf("second remove reported success")
	}
}

func TestAppendMessageKeepsOrder(t *testing.T) {
	room := NewRoom(User{ID: "gm", Name: "ГМ", Role: RoleGM})
	room = room.AppendMessage(NewMessage("ГМ", "раз", MessageText))
	room = room.AppendMessage(NewMessage("ГМ", "два", MessageText))
	room = room.AppendMessage(NewMessage("ГМ", "три", MessageText))

	texts := make([]string, 0, len(room.Messages))
	for _, m := range room.Messages[1:] { // skip the welcome notice
		texts = append(texts, m.Text)
	}
	if !reflect.DeepEqual(texts, []string{"раз", "два", "три"}) {
		t.Fatalf("message order = %v", texts)
	}
}

func TestRoomJSONRoundTrip(t *testing.T) {
	room := NewRoom(User{ID: "gm", Name: "ГМ", Role: RoleGM})
	char := NewCharacter("gm", "Арда").
		AddAspect("Искатель приключений").
		AddTempAspect("В тени").
		AddStressTrack("Магия")
	room = room.AddCharacter(char)
	room = room.AppendMessage(NewRollMessage("Арда", "Ручной бросок", [dice.NumDice]dice.Side{1, 0, -1, 1}, 2))

	data, err := json.Marshal(room)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Room
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(room, restored) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", restored, room)
	}
}

func TestCharacterNames(t *testing.T) {
	room := NewRoom(User{ID: "gm", Role: RoleGM})
	room = room.AddCharacter(NewCharacter("gm", "Арда"))
	room = room.AddCharacter(NewCharacter("gm", "НИП"))
	got := room.CharacterNames()
	if !reflect.DeepEqual(got, []string{"Арда", "НИП"}) {
		t.Fatalf("names = %v", got)
	}
}
