/*
Package resp writes the JSON bodies of the development server.

Successful responses are the payload itself. Failures are {"error": message}.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/gregriff/rilmas/internal/logx"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON sets the Content-Type and sends payload with status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", status)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// OK sends payload with 200.
func OK(w http.ResponseWriter, payload any) {
	WriteJSON(w, http.StatusOK, payload)
}

// Error sends {"error": msg} with status.
func Error(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}
