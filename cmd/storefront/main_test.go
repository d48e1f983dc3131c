package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRunPrintsUnknownCommandError(t *testing.T) {
	var stderr strings.Builder
	code := run([]string{"no-such-command"}, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Fatalf("expected unknown-command error on stderr, got %q", stderr.String())
	}
}

func TestRunPrintsServerRejectionVerbatim(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid username or password"})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	t.Setenv("SMARTSHOP_API_BASE_URL", server.URL)
	t.Setenv("SMARTSHOP_STATE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("SMARTSHOP_LOG_LEVEL", "error")

	var stderr strings.Builder
	code := run([]string{"login", "alice", "-p", "wrongpw"}, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Invalid username or password") {
		t.Fatalf("expected the server's message on stderr, got %q", stderr.String())
	}
}
