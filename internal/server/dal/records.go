// Package dal is the data access layer. It contains functions that perform SQL queries and logic
// that cannot be decoupled from the queries. Files correspond to SQL tables
package dal

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrPhoneTaken = errors.New("phone already registered")
	ErrNotMember  = errors.New("not a member of this chat")
)

// User is a users row as returned to its owner.
type User struct {
	ID         int64  `json:"id"`
	Phone      string `json:"phone"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	InviteCode string `json:"inviteCode"`
	Status     string `json:"status"`
}

// ChatSummary is one row of a user's chat list.
type ChatSummary struct {
	ID              int64   `json:"id"`
	Type            string  `json:"type"`
	Name            *string `json:"name"`
	Icon            *string `json:"icon"`
	UserID          *int64  `json:"userId"`
	Nickname        *string `json:"nickname"`
	Avatar          *string `json:"avatar"`
	Status          *string `json:"status"`
	LastMessage     *string `json:"lastMessage"`
	LastMessageTime *string `json:"lastMessageTime"`
	MessageType     *string `json:"messageType"`
	Unread          int     `json:"unread"`
}

// Message is a messages row joined with its sender.
type Message struct {
	ID        int64   `json:"id"`
	ChatID    int64   `json:"chatId"`
	Content   string  `json:"content"`
	Type      string  `json:"type"`
	MediaURL  *string `json:"mediaUrl"`
	StickerID *int64  `json:"stickerId"`
	Time      string  `json:"time"`
	UserID    int64   `json:"userId"`
	Nickname  string  `json:"nickname"`
	Avatar    string  `json:"avatar"`
}

// NewMessage is the input of CreateMessage.
type NewMessage struct {
	ChatID    int64
	UserID    int64
	Content   string
	Type      string
	MediaURL  string
	StickerID int64
}

// Notification is a notifications row.
type Notification struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
	Time    string `json:"time"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
