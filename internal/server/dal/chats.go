package dal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// The peer of a chat is its lowest-id member other than the viewer, so a
// group lists once.
const listChatsQuery = `
SELECT
    c.id, c.type, COALESCE(c.name, u.nickname), COALESCE(c.icon, u.avatar),
    u.id, u.nickname, u.avatar, u.status,
    m.content, m.created_at, m.message_type,
    (SELECT COUNT(*) FROM messages WHERE chat_id = c.id AND user_id != ?) AS unread
FROM chats c
JOIN chat_members cm ON cm.chat_id = c.id AND cm.user_id = ?
LEFT JOIN users u ON u.id = (
    SELECT MIN(user_id) FROM chat_members WHERE chat_id = c.id AND user_id != ?
)
LEFT JOIN messages m ON m.id = (
    SELECT MAX(id) FROM messages WHERE chat_id = c.id
)
ORDER BY m.id IS NULL, m.id DESC, c.id DESC`

// ListChats returns the chats userID belongs to, most recent activity first.
func ListChats(ctx context.Context, db *sql.DB, userID int64) ([]ChatSummary, error) {
	rows, err := db.QueryContext(ctx, listChatsQuery, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying chats: %w", err)
	}
	defer rows.Close()

	chats := []ChatSummary{}
	for rows.Next() {
		var (
			c                                ChatSummary
			name, icon, nick, avatar, status sql.NullString
			content, created, msgType        sql.NullString
			peer                             sql.NullInt64
		)
		err := rows.Scan(&c.ID, &c.Type, &name, &icon, &peer, &nick, &avatar, &status,
			&content, &created, &msgType, &c.Unread)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat: %w", err)
		}
		c.Name, c.Icon = nullable(name), nullable(icon)
		c.Nickname, c.Avatar, c.Status = nullable(nick), nullable(avatar), nullable(status)
		c.LastMessage, c.LastMessageTime, c.MessageType = nullable(content), nullable(created), nullable(msgType)
		if peer.Valid {
			c.UserID = &peer.Int64
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// CreateGroup creates a group chat with the creator as its owner.
func CreateGroup(ctx context.Context, db *sql.DB, name, icon, description string, creatorID int64) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var chatID int64
	err = tx.QueryRowContext(ctx,
		"INSERT INTO chats (type, name, icon, description, created_at) VALUES ('group', ?, ?, ?, ?) RETURNING id",
		name, icon, nullIfEmpty(description), now(),
	).Scan(&chatID)
	if err != nil {
		return 0, fmt.Errorf("error creating group: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO chat_members (chat_id, user_id, role) VALUES (?, ?, 'owner')",
		chatID, creatorID,
	); err != nil {
		return 0, fmt.Errorf("error adding group owner: %w", err)
	}
	return chatID, tx.Commit()
}

// CheckMember returns ErrNotMember unless userID belongs to chatID.
func CheckMember(ctx context.Context, db *sql.DB, chatID, userID int64) error {
	var one int
	err := db.QueryRowContext(ctx,
		"SELECT 1 FROM chat_members WHERE chat_id = ? AND user_id = ?", chatID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotMember
	}
	if err != nil {
		return fmt.Errorf("error checking membership: %w", err)
	}
	return nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
