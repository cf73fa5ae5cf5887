package dal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gregriff/rilmas/internal/server/crypto"
)

func insertToken(ctx context.Context, tx *sql.Tx, userID int64) (string, error) {
	token, err := crypto.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO tokens (hash, user_id, created_at) VALUES (?, ?, ?)",
		crypto.HashToken(token), userID, now(),
	); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}
	return token, nil
}

// UserIDForToken resolves a bearer token to the user it was issued to.
func UserIDForToken(ctx context.Context, db *sql.DB, token string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, "SELECT user_id FROM tokens WHERE hash = ?", crypto.HashToken(token)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("error querying token: %w", err)
	}
	return id, nil
}
