package middleware

import (
	"encoding/json"
	"net/http"
)

type envelope map[string]any

// errorResponse writes {"error": message}. Requests that already passed RequestID also
// get their id back in the body, so a rejected call can be matched with the logs.
func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}
	if id := w.Header().Get(RequestIDHeader); id != "" {
		env["request_id"] = id
	}

	js, err := json.Marshal(env)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}
