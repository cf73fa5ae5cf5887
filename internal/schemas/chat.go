package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxGroupMembers is the system-wide group capacity.
	MaxGroupMembers = 200_000

	DefaultGroupIcon = "👥"
)

type ConversationKind string

const (
	DirectChat ConversationKind = "direct"
	GroupChat  ConversationKind = "group"
)

// Conversation is a named channel of messages as shown in the chat list.
// Unread is never negative; zero is encoded as an absent field.
type Conversation struct {
	ID              int64            `json:"id"`
	Kind            ConversationKind `json:"type,omitempty"`
	Name            string           `json:"name"`
	Avatar          Avatar           `json:"avatar"`
	PeerID          int64            `json:"userId,omitempty"`
	LastMessage     string           `json:"lastMessage,omitempty"`
	LastMessageTime string           `json:"lastMessageTime,omitempty"`
	Unread          int              `json:"unread,omitempty"`
	Online          bool             `json:"online,omitempty"`
}

type conversationWire struct {
	ID              *int64           `json:"id"`
	Kind            ConversationKind `json:"type"`
	Name            *string          `json:"name"`
	Nickname        *string          `json:"nickname"`
	Icon            *Avatar          `json:"icon"`
	Avatar          *Avatar          `json:"avatar"`
	PeerID          *int64           `json:"userId"`
	LastMessage     *string          `json:"lastMessage"`
	LastMessageTime *string          `json:"lastMessageTime"`
	Time            *string          `json:"time"`
	Unread          *int             `json:"unread"`
	Online          bool             `json:"online"`
	Status          *string          `json:"status"`
}

// UnmarshalJSON accepts the listing shape of the chat endpoint, where
// nullable columns arrive as JSON null.
func (c *Conversation) UnmarshalJSON(b []byte) error {
	var w conversationWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("conversation: %w", err)
	}
	if w.ID == nil {
		return errors.New("conversation: missing id")
	}
	if w.Unread != nil && *w.Unread < 0 {
		return fmt.Errorf("conversation %d: negative unread count %d", *w.ID, *w.Unread)
	}

	*c = Conversation{
		ID:     *w.ID,
		Kind:   w.Kind,
		Name:   deref(w.Name),
		Online: w.Online || deref(w.Status) == "online",
	}
	if c.Name == "" {
		c.Name = deref(w.Nickname)
	}
	switch {
	case w.Icon != nil && !w.Icon.IsZero():
		c.Avatar = *w.Icon
	case w.Avatar != nil:
		c.Avatar = *w.Avatar
	}
	if w.PeerID != nil {
		c.PeerID = *w.PeerID
	}
	c.LastMessage = deref(w.LastMessage)
	c.LastMessageTime = deref(w.LastMessageTime)
	if c.LastMessageTime == "" {
		c.LastMessageTime = deref(w.Time)
	}
	if w.Unread != nil {
		c.Unread = *w.Unread
	}
	return nil
}

type MessageType string

const (
	TextMessage    MessageType = "text"
	MediaMessage   MessageType = "media"
	StickerMessage MessageType = "sticker"
)

var ErrInvalidMessage = errors.New("invalid message")

// Message belongs to exactly one conversation. The primary field depends on
// Type: Content for text, MediaURL for media, StickerID for stickers.
type Message struct {
	ID        int64       `json:"id"`
	ChatID    int64       `json:"chatId,omitempty"`
	SenderID  int64       `json:"userId"`
	Sender    string      `json:"nickname,omitempty"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	MediaURL  string      `json:"mediaUrl,omitempty"`
	StickerID int64       `json:"stickerId,omitempty"`
	Time      string      `json:"time"`
}

type messageWire struct {
	ID        int64        `json:"id"`
	ChatID    int64        `json:"chatId"`
	SenderID  int64        `json:"userId"`
	Sender    *string      `json:"nickname"`
	Content   *string      `json:"content"`
	Type      *MessageType `json:"type"`
	MediaURL  *string      `json:"mediaUrl"`
	StickerID *int64       `json:"stickerId"`
	Time      *string      `json:"time"`
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var w messageWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("message: %w", err)
	}
	*m = Message{
		ID:       w.ID,
		ChatID:   w.ChatID,
		SenderID: w.SenderID,
		Sender:   deref(w.Sender),
		Content:  deref(w.Content),
		Type:     TextMessage,
		MediaURL: deref(w.MediaURL),
		Time:     deref(w.Time),
	}
	if w.Type != nil && *w.Type != "" {
		m.Type = *w.Type
	}
	if w.StickerID != nil {
		m.StickerID = *w.StickerID
	}
	return nil
}

// Validate checks that the field matching the message type is set.
func (m Message) Validate() error {
	switch m.Type {
	case TextMessage, "":
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: empty text", ErrInvalidMessage)
		}
	case MediaMessage:
		if m.MediaURL == "" {
			return fmt.Errorf("%w: media message without media url", ErrInvalidMessage)
		}
	case StickerMessage:
		if m.StickerID == 0 {
			return fmt.Errorf("%w: sticker message without sticker id", ErrInvalidMessage)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
	return nil
}

// FromSelf reports whether the message was sent by userID.
func (m Message) FromSelf(userID int64) bool {
	return m.SenderID == userID
}

// Preview is the one-line text shown in the chat list.
func (m Message) Preview() string {
	switch m.Type {
	case MediaMessage:
		if m.Content != "" {
			return m.Content
		}
		return "[media]"
	case StickerMessage:
		return "[sticker]"
	}
	return m.Content
}

// Group is a named multi-member conversation with a fixed capacity.
type Group struct {
	ID          int64
	Name        string
	Icon        string
	Description string
	Members     int
	MaxMembers  int
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
