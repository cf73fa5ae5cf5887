package dal

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
)

// DefaultMessageLimit is the page size of ListMessages when none is given.
const DefaultMessageLimit = 50

// ListMessages returns the latest limit messages of chatID in chronological order.
func ListMessages(ctx context.Context, db *sql.DB, chatID int64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	rows, err := db.QueryContext(ctx, `
SELECT m.id, m.chat_id, m.content, m.message_type, m.media_url, m.sticker_id, m.created_at,
       u.id, u.nickname, u.avatar
FROM messages m
JOIN users u ON u.id = m.user_id
WHERE m.chat_id = ?
ORDER BY m.id DESC
LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var (
			m       Message
			media   sql.NullString
			sticker sql.NullInt64
		)
		err := rows.Scan(&m.ID, &m.ChatID, &m.Content, &m.Type, &media, &sticker, &m.Time,
			&m.UserID, &m.Nickname, &m.Avatar)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		m.MediaURL = nullable(media)
		if sticker.Valid {
			m.StickerID = &sticker.Int64
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

// CreateMessage stores msg and returns its id and creation time.
func CreateMessage(ctx context.Context, db *sql.DB, msg NewMessage) (int64, string, error) {
	var sticker any
	if msg.StickerID != 0 {
		sticker = msg.StickerID
	}

	var (
		id      int64
		created string
	)
	err := db.QueryRowContext(ctx,
		"INSERT INTO messages (chat_id, user_id, content, message_type, media_url, sticker_id, created_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id, created_at",
		msg.ChatID, msg.UserID, msg.Content, msg.Type, nullIfEmpty(msg.MediaURL), sticker, now(),
	).Scan(&id, &created)
	if err != nil {
		return 0, "", fmt.Errorf("error inserting message: %w", err)
	}
	return id, created, nil
}
