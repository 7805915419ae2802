package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestJSONSuccess(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pinClock(t, at)
	w := httptest.NewRecorder()

	JSONSuccess(w, map[string]string{"title": "Dune"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("Expected Content-Type application/json")
	}

	var env Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if env.Message != "successful" || env.Status != "OK" {
		t.Errorf("unexpected envelope %+v", env)
	}
	if !env.Timestamp.Equal(at) {
		t.Errorf("Expected timestamp %v, got %v", at, env.Timestamp)
	}
	if env.Data.(map[string]any)["title"] != "Dune" {
		t.Errorf("unexpected data %v", env.Data)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()

	JSONError(w, http.StatusNotFound, "Book with id 3 does not exist")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var env Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if env.Message != "Error Occurred:" {
		t.Errorf("Expected error message marker, got %q", env.Message)
	}
	if env.Status != "NOT_FOUND" {
		t.Errorf("Expected NOT_FOUND, got %q", env.Status)
	}
	if env.Data != "Book with id 3 does not exist" {
		t.Errorf("unexpected data %v", env.Data)
	}
}

func TestStatusName(t *testing.T) {
	tests := map[int]string{
		http.StatusOK:                    "OK",
		http.StatusBadRequest:            "BAD_REQUEST",
		http.StatusConflict:              "CONFLICT",
		http.StatusRequestEntityTooLarge: "REQUEST_ENTITY_TOO_LARGE",
		http.StatusTooManyRequests:       "TOO_MANY_REQUESTS",
		http.StatusInternalServerError:   "INTERNAL_SERVER_ERROR",
		http.StatusTeapot:                "IM_A_TEAPOT",
		799:                              "UNKNOWN",
	}
	for code, want := range tests {
		if got := StatusName(code); got != want {
			t.Errorf("StatusName(%d) = %q, want %q", code, got, want)
		}
	}
}
