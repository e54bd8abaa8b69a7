// Package chat routes outgoing table input between plain messages and
// assistance commands.
package chat

import "strings"

// assistPrefix marks input that should be delegated to the assistant.
const assistPrefix = "/ai "

// Kind classifies a parsed input line.
type Kind int

const (
	// KindText is a plain chat message.
	KindText Kind = iota
	// KindAssist is a request for game-master assistance.
	KindAssist
)

// Input is a classified chat line. For KindAssist the Body carries the
// prompt with the command prefix stripped.
type Input struct {
	Kind Kind
	Body string
}

// Parse classifies raw chat input. Anything that does not start with the
// command prefix is plain text, including a bare "/ai" with no prompt.
func Parse(raw string) Input {
	if strings.HasPrefix(raw, assistPrefix) {
		return Input{Kind: KindAssist, Body: strings.TrimPrefix(raw, assistPrefix)}
	}
	return Input{Kind: KindText, Body: raw}
}
