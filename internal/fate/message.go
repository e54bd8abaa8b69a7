package fate

import (
	"time"

	"github.com/google/uuid"

	"fatenexus/internal/dice"
)

// MessageKind distinguishes the chat log entry types.
type MessageKind string

const (
	MessageText   MessageKind = "text"
	MessageRoll   MessageKind = "roll"
	MessageSystem MessageKind = "system"
	MessageAI     MessageKind = "ai"
)

// SenderSystem names the synthetic author of system notices.
const SenderSystem = "Система"

// SenderAssistant names the synthetic author of assistance responses.
const SenderAssistant = "Gemini GM"

// Roll records a resolved Fate dice roll. Outcome carries the ladder label
// for the total so the log can render it without recomputing.
type Roll struct {
	ID        string                  `json:"id"`
	Sender    string                  `json:"sender"`
	Timestamp int64                   `json:"timestamp"`
	Label     string                  `json:"label"`
	Results   [dice.NumDice]dice.Side `json:"results"`
	Modifier  int                     `json:"modifier"`
	Total     int                     `json:"total"`
	Outcome   string                  `json:"outcome"`
}

// Message is one entry in a room's ordered chat log.
type Message struct {
	ID        string      `json:"id"`
	Sender    string      `json:"sender"`
	Text      string      `json:"text"`
	Timestamp int64       `json:"timestamp"`
	Kind      MessageKind `json:"type"`
	Roll      *Roll       `json:"roll,omitempty"`
}

// NewMessage builds a chat log entry stamped with the current time.
func NewMessage(sender, text string, kind MessageKind) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		Kind:      kind,
	}
}

// NewSystemMessage builds a system notice.
func NewSystemMessage(text string) Message {
	return NewMessage(SenderSystem, text, MessageSystem)
}

// NewRollMessage resolves a dice roll for the sender and wraps it in a chat
// message of kind roll.
func NewRollMessage(sender, label string, results [dice.NumDice]dice.Side, modifier int) Message {
	total := dice.Resolve(results, modifier)
	roll := Roll{
		ID:        uuid.NewString(),
		Sender:    sender,
		Timestamp: time.Now().UnixMilli(),
		Label:     label,
		Results:   results,
		Modifier:  modifier,
		Total:     total,
		Outcome:   dice.Label(total),
	}
	msg := NewMessage(sender, "Бросок на "+label, MessageRoll)
	msg.ID = roll.ID
	msg.Roll = &roll
	return msg
}
