package rilmas

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gregriff/rilmas/internal/schemas"
)

type registerRequest struct {
	Action     string         `json:"action"`
	Phone      string         `json:"phone"`
	Nickname   string         `json:"nickname"`
	Avatar     schemas.Avatar `json:"avatar"`
	InviteCode string         `json:"inviteCode,omitempty"`
}

type loginRequest struct {
	Action string `json:"action"`
	Phone  string `json:"phone"`
}

// AuthResponse is the success shape of register and login. User is nil when
// the endpoint answered without one.
type AuthResponse struct {
	User  *schemas.User `json:"user"`
	Token string        `json:"token"`
}

// Valid reports ErrNoUser unless both the user and token are present.
func (r *AuthResponse) Valid() error {
	if r == nil || r.User == nil || r.Token == "" {
		return ErrNoUser
	}
	return nil
}

// Register asks the auth endpoint to create a user for phone. inviteCode may be empty.
func (c *Client) Register(ctx context.Context, phone, nickname string, avatar schemas.Avatar, inviteCode string) (*AuthResponse, error) {
	body := registerRequest{
		Action:     "register",
		Phone:      phone,
		Nickname:   nickname,
		Avatar:     avatar,
		InviteCode: inviteCode,
	}
	var res AuthResponse
	if err := c.post(ctx, "register", c.endpoints.Auth, "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login exchanges a registered phone number for a session.
func (c *Client) Login(ctx context.Context, phone string) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.post(ctx, "login", c.endpoints.Auth, "", loginRequest{Action: "login", Phone: phone}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type conversationsResponse struct {
	Chats *[]schemas.Conversation `json:"chats"`
}

// ListConversations returns the chat list of userID in the endpoint's order.
func (c *Client) ListConversations(ctx context.Context, userID int64, token string) ([]schemas.Conversation, error) {
	query := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	var res conversationsResponse
	if err := c.get(ctx, "list conversations", c.endpoints.Chats, token, query, &res); err != nil {
		return nil, err
	}
	if res.Chats == nil {
		return nil, &DecodeError{Op: "list conversations", Err: errors.New(`missing "chats"`)}
	}
	return *res.Chats, nil
}

type getMessagesRequest struct {
	Action string `json:"action"`
	ChatID int64  `json:"chatId"`
	Limit  int    `json:"limit,omitempty"`
}

type messagesResponse struct {
	Messages *[]schemas.Message `json:"messages"`
}

// ListMessages returns the messages of a conversation, oldest first. A zero
// limit leaves the page size to the endpoint.
func (c *Client) ListMessages(ctx context.Context, chatID int64, token string, limit int) ([]schemas.Message, error) {
	body := getMessagesRequest{Action: "get_messages", ChatID: chatID, Limit: limit}
	var res messagesResponse
	if err := c.post(ctx, "list messages", c.endpoints.Chats, token, body, &res); err != nil {
		return nil, err
	}
	if res.Messages == nil {
		return nil, &DecodeError{Op: "list messages", Err: errors.New(`missing "messages"`)}
	}
	msgs := *res.Messages
	for i := range msgs {
		if msgs[i].ChatID == 0 {
			msgs[i].ChatID = chatID
		}
	}
	return msgs, nil
}

type sendMessageRequest struct {
	Action      string              `json:"action"`
	ChatID      int64               `json:"chatId"`
	UserID      int64               `json:"userId"`
	Content     string              `json:"content"`
	MessageType schemas.MessageType `json:"messageType"`
	MediaURL    string              `json:"mediaUrl,omitempty"`
	StickerID   int64               `json:"stickerId,omitempty"`
}

// SentMessage is the endpoint's acknowledgement of a stored message.
type SentMessage struct {
	MessageID int64  `json:"messageId"`
	CreatedAt string `json:"createdAt"`
}

// SendMessage posts msg on behalf of msg.SenderID. The message is validated
// before anything is sent.
func (c *Client) SendMessage(ctx context.Context, msg schemas.Message, token string) (*SentMessage, error) {
	if msg.Type == "" {
		msg.Type = schemas.TextMessage
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	body := sendMessageRequest{
		Action:      "send_message",
		ChatID:      msg.ChatID,
		UserID:      msg.SenderID,
		Content:     msg.Content,
		MessageType: msg.Type,
		MediaURL:    msg.MediaURL,
		StickerID:   msg.StickerID,
	}
	var res SentMessage
	if err := c.post(ctx, "send message", c.endpoints.Chats, token, body, &res); err != nil {
		return nil, err
	}
	if res.MessageID == 0 {
		return nil, &DecodeError{Op: "send message", Err: errors.New(`missing "messageId"`)}
	}
	return &res, nil
}

type createGroupRequest struct {
	Action      string `json:"action"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
	UserID      int64  `json:"userId"`
}

type createGroupResponse struct {
	ChatID int64 `json:"chatId"`
}

// CreateGroup creates a group chat owned by userID and returns its chat id.
func (c *Client) CreateGroup(ctx context.Context, name, icon, description string, userID int64, token string) (int64, error) {
	body := createGroupRequest{
		Action:      "create_group",
		Name:        name,
		Icon:        icon,
		Description: description,
		UserID:      userID,
	}
	var res createGroupResponse
	if err := c.post(ctx, "create group", c.endpoints.Chats, token, body, &res); err != nil {
		return 0, err
	}
	if res.ChatID == 0 {
		return 0, &DecodeError{Op: "create group", Err: fmt.Errorf(`missing "chatId"`)}
	}
	return res.ChatID, nil
}

type notificationsRequest struct {
	Action string `json:"action"`
}

type notificationsResponse struct {
	Notifications *[]schemas.Notification `json:"notifications"`
}

// ListNotifications returns the notifications of the token's user, newest first.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]schemas.Notification, error) {
	var res notificationsResponse
	if err := c.post(ctx, "list notifications", c.endpoints.Chats, token, notificationsRequest{Action: "get_notifications"}, &res); err != nil {
		return nil, err
	}
	if res.Notifications == nil {
		return nil, &DecodeError{Op: "list notifications", Err: errors.New(`missing "notifications"`)}
	}
	return *res.Notifications, nil
}
