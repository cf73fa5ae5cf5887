package dal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gregriff/rilmas/internal/server/crypto"
)

const userColumns = "id, phone, nickname, avatar, invite_code, status"

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Phone, &u.Nickname, &u.Avatar, &u.InviteCode, &u.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &u, nil
}

// CreateUser registers a user, marks them online and issues a token. When
// invitedBy names an existing invite code, the inviter gets a direct chat
// with the new user and a notification.
func CreateUser(ctx context.Context, db *sql.DB, phone, nickname, avatar, invitedBy string) (*User, string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE phone = ?)", phone).Scan(&exists); err != nil {
		return nil, "", fmt.Errorf("error checking phone: %w", err)
	}
	if exists {
		return nil, "", ErrPhoneTaken
	}

	code, err := unusedInviteCode(ctx, tx)
	if err != nil {
		return nil, "", err
	}

	created := now()
	user, err := scanUser(tx.QueryRowContext(ctx,
		"INSERT INTO users (phone, nickname, avatar, invite_code, invited_by, status, last_seen, created_at) "+
			"VALUES (?, ?, ?, ?, ?, 'online', ?, ?) RETURNING "+userColumns,
		phone, nickname, avatar, code, nullIfEmpty(invitedBy), created, created,
	))
	if err != nil {
		return nil, "", fmt.Errorf("error inserting user: %w", err)
	}

	if invitedBy != "" {
		if err := connectInviter(ctx, tx, user, invitedBy); err != nil {
			return nil, "", err
		}
	}

	token, err := insertToken(ctx, tx, user.ID)
	if err != nil {
		return nil, "", err
	}
	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func unusedInviteCode(ctx context.Context, tx *sql.Tx) (string, error) {
	for range 5 {
		code := crypto.GenerateInviteCode()
		var exists bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE invite_code = ?)", code).Scan(&exists); err != nil {
			return "", fmt.Errorf("error checking invite code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique invite code")
}

// connectInviter is a no-op when no user owns the invite code.
func connectInviter(ctx context.Context, tx *sql.Tx, user *User, inviteCode string) error {
	var inviterID int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE invite_code = ?", inviteCode).Scan(&inviterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error finding inviter: %w", err)
	}

	var chatID int64
	err = tx.QueryRowContext(ctx,
		"INSERT INTO chats (type, created_at) VALUES ('direct', ?) RETURNING id", now(),
	).Scan(&chatID)
	if err != nil {
		return fmt.Errorf("error creating direct chat: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO chat_members (chat_id, user_id, role) VALUES (?, ?, 'member'), (?, ?, 'member')",
		chatID, user.ID, chatID, inviterID,
	); err != nil {
		return fmt.Errorf("error adding chat members: %w", err)
	}
	return insertNotification(ctx, tx, inviterID, "new_contact", "New contact",
		fmt.Sprintf("%s joined with your invite", user.Nickname))
}

// Login marks the user with phone online and issues a new token.
func Login(ctx context.Context, db *sql.DB, phone string) (*User, string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	user, err := scanUser(tx.QueryRowContext(ctx,
		"UPDATE users SET status = 'online', last_seen = ? WHERE phone = ? RETURNING "+userColumns,
		now(), phone,
	))
	if err != nil {
		return nil, "", err
	}

	token, err := insertToken(ctx, tx, user.ID)
	if err != nil {
		return nil, "", err
	}
	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func GetUserByID(ctx context.Context, db *sql.DB, id int64) (*User, error) {
	return scanUser(db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}
