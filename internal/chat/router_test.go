package chat

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Input
	}{
		{"assist command", "/ai tell me a story", Input{Kind: KindAssist, Body: "tell me a story"}},
		{"plain text", "hello", Input{Kind: KindText, Body: "hello"}},
		{"bare command is text", "/ai", Input{Kind: KindText, Body: "/ai"}},
		{"prefix must lead", "say /ai something", Input{Kind: KindText, Body: "say /ai something"}},
		{"empty prompt", "/ai ", Input{Kind: KindAssist, Body: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
