package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/server/dal"
	"github.com/gregriff/rilmas/internal/server/resp"
)

type contextKey string

const userKey contextKey = "user-id"

// TokenHeader carries the bearer token on chat requests.
const TokenHeader = "X-User-Token"

// TokenAuth mandates a known bearer token and stores its user id in the request context.
func TokenAuth(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				resp.Error(w, http.StatusUnauthorized, "Token required")
				return
			}

			userID, err := dal.UserIDForToken(r.Context(), db, token)
			if err != nil {
				if !errors.Is(err, dal.ErrNotFound) {
					logx.Error(err, "token lookup failed")
				}
				resp.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID is used in endpoint handlers to retrieve the user that authenticated the request.
func UserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userKey).(int64)
	return id
}
