package fate

import (
	"testing"

	"fatenexus/internal/dice"
)

func TestNewRollMessage(t *testing.T) {
	msg := NewRollMessage("Арда", "Атлетика", [dice.NumDice]dice.Side{1, 0, -1, 1}, 2)

	if msg.Kind != MessageRoll || msg.Roll == nil {
		t.Fatalf("not a roll message: %+v", msg)
	}
	if msg.ID != msg.Roll.ID {
		t.Fatalf("message id %q != roll id %q", msg.ID, msg.Roll.ID)
	}
	if msg.Text != "Бросок на Атлетика" {
		t.Fatalf("text = %q", msg.Text)
	}
	if msg.Roll.Total != 3 {
		t.Fatalf("total = %d, want 3", msg.Roll.Total)
	}
	if msg.Roll.Outcome != "Хороший" {
		t.Fatalf("outcome = %q, want ladder label for +3", msg.Roll.Outcome)
	}
}

func TestNewRollMessageOffLadderOutcome(t *testing.T) {
	msg := NewRollMessage("Арда", "Атлетика", [dice.NumDice]dice.Side{1, 1, 1, 1}, 5)
	if msg.Roll.Outcome != dice.LabelOffLadder {
		t.Fatalf("outcome = %q, want %q", msg.Roll.Outcome, dice.LabelOffLadder)
	}
}
