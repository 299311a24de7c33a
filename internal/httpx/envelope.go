package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape every endpoint returns.
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	StatusCode int    `json:"statusCode"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// OK writes a success envelope with the given status and payload.
func OK(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Success: true, Message: message, Data: data, StatusCode: status})
}

// Fail writes a failure envelope. Internal detail never goes into message;
// callers pass client-safe text only.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message, Data: nil, StatusCode: status})
}

// Decode parses a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
