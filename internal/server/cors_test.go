package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fatenexus/internal/store"
)

func newTestServerWithOrigins(t *testing.T, origins []string) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	cfg := Config{
		Port:           "0",
		AllowedOrigins: origins,
		MaxUploadSize:  10 << 20,
		AssistTimeout:  time.Second,
	}
	srv, err := New(cfg, logger, repo, &stubAssistant{})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return srv
}

func TestPreflightRequest(t *testing.T) {
	srv := newTestServerWithOrigins(t, []string{"https://fate.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	req.Header.Set("Origin", "https://fate.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://fate.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow credentials = %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("vary = %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	srv := newTestServerWithOrigins(t, []string{"https://fate.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow origin leaked: %q", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	srv := newTestServerWithOrigins(t, []string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("credentials must not be allowed with a wildcard origin")
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServerWithOrigins(t, []string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("x-content-type-options = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("x-frame-options = %q", got)
	}
	if got := w.Header().Get("Content-Security-Policy"); got == "" {
		t.Fatalf("csp missing on api path")
	}
}

func TestCSPOnlyOnAPIPaths(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/api/rooms", true},
		{"/ws/rooms/ABC123", true},
		{"/healthz", true},
		{"/", false},
		{"/index.html", false},
	}
	for _, tc := range cases {
		if got := isAPIEndpoint(tc.path); got != tc.want {
			t.Errorf("isAPIEndpoint(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
