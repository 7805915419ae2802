package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	successMessage = "successful"
	errorMessage   = "Error Occurred:"
)

// now is replaced in tests.
var now = time.Now

// Envelope wraps every response body. On failure Data holds either a plain
// message or a field to message map.
type Envelope struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// StatusName renders an HTTP status code as an upper snake case name,
// e.g. 400 becomes "BAD_REQUEST".
func StatusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "UNKNOWN"
	}
	text = strings.ReplaceAll(text, "-", " ")
	text = strings.ReplaceAll(text, "'", "")
	return strings.ToUpper(strings.Join(strings.Fields(text), "_"))
}

func writeEnvelope(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Envelope{
		Message:   message,
		Status:    StatusName(statusCode),
		Timestamp: now(),
		Data:      data,
	})
}

func JSONSuccess(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, successMessage, data)
}

func JSONError(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, errorMessage, data)
}
