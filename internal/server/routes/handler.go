// package routes contains the exposed API endpoints
package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/server/resp"
)

// maxBodyBytes bounds request bodies; the largest are image avatars sent as data URIs.
const maxBodyBytes = 1 << 20

// RouteHandler provides the dependencies for any endpoint, and is the reciever of the endpoint handling functions
type RouteHandler struct {
	db *sql.DB
}

// NewRouteHandler creates the reciever for all endpoint handling functions
func NewRouteHandler(db *sql.DB) *RouteHandler {
	return &RouteHandler{db: db}
}

// decode reads a JSON body into v, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		resp.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// internalError logs err and answers 500 without leaking it.
func internalError(w http.ResponseWriter, err error, msg string) {
	logx.Error(err, msg)
	resp.Error(w, http.StatusInternalServerError, "Internal server error")
}

func methodNotAllowed(w http.ResponseWriter) {
	resp.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
