package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/server/dal"
	"github.com/gregriff/rilmas/internal/server/middleware"
	"github.com/gregriff/rilmas/internal/server/resp"
	"github.com/gregriff/rilmas/internal/server/validation"
)

type chatsRequest struct {
	Action string `json:"action"`
	ChatID int64  `json:"chatId"`
	UserID int64  `json:"userId"`

	// get_messages
	Limit int `json:"limit"`

	// send_message
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
	MediaURL    string `json:"mediaUrl"`
	StickerID   int64  `json:"stickerId"`

	// create_group
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// ListChats answers GET /chats?userId= for the authenticated user only.
func (h *RouteHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		resp.Error(w, http.StatusBadRequest, "userId required")
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, "userId must be an integer")
		return
	}
	if userID != middleware.UserID(r) {
		resp.Error(w, http.StatusForbidden, "Token does not belong to this user")
		return
	}

	chats, err := dal.ListChats(r.Context(), h.db, userID)
	if err != nil {
		internalError(w, err, "error listing chats")
		return
	}
	resp.OK(w, map[string]any{"chats": chats})
}

// ChatAction dispatches the POST /chats actions.
func (h *RouteHandler) ChatAction(w http.ResponseWriter, r *http.Request) {
	var req chatsRequest
	if !decode(w, r, &req) {
		return
	}

	switch req.Action {
	case "get_messages":
		h.getMessages(w, r, req)
	case "send_message":
		h.sendMessage(w, r, req)
	case "create_group":
		h.createGroup(w, r, req)
	case "get_notifications":
		h.getNotifications(w, r)
	default:
		methodNotAllowed(w)
	}
}

// member answers 404 unless the authenticated user belongs to chatID.
func (h *RouteHandler) member(w http.ResponseWriter, r *http.Request, chatID int64) bool {
	err := dal.CheckMember(r.Context(), h.db, chatID, middleware.UserID(r))
	if errors.Is(err, dal.ErrNotMember) {
		resp.Error(w, http.StatusNotFound, "Chat not found")
		return false
	}
	if err != nil {
		internalError(w, err, "error checking membership")
		return false
	}
	return true
}

// self answers 403 when a request acts on behalf of another user.
func self(w http.ResponseWriter, r *http.Request, userID int64) bool {
	if userID != middleware.UserID(r) {
		resp.Error(w, http.StatusForbidden, "Token does not belong to this user")
		return false
	}
	return true
}

func (h *RouteHandler) getMessages(w http.ResponseWriter, r *http.Request, req chatsRequest) {
	if !h.member(w, r, req.ChatID) {
		return
	}
	messages, err := dal.ListMessages(r.Context(), h.db, req.ChatID, req.Limit)
	if err != nil {
		internalError(w, err, "error listing messages")
		return
	}
	resp.OK(w, map[string]any{"messages": messages})
}

func (h *RouteHandler) sendMessage(w http.ResponseWriter, r *http.Request, req chatsRequest) {
	if !self(w, r, req.UserID) || !h.member(w, r, req.ChatID) {
		return
	}

	msg := dal.NewMessage{
		ChatID:    req.ChatID,
		UserID:    req.UserID,
		Content:   req.Content,
		Type:      req.MessageType,
		MediaURL:  req.MediaURL,
		StickerID: req.StickerID,
	}
	if msg.Type == "" {
		msg.Type = "text"
	}
	if err := checkMessage(msg); err != nil {
		resp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id, created, err := dal.CreateMessage(r.Context(), h.db, msg)
	if err != nil {
		internalError(w, err, "error sending message")
		return
	}
	resp.OK(w, map[string]any{"messageId": id, "createdAt": created})
}

func checkMessage(msg dal.NewMessage) error {
	if err := validation.Content(msg.Content); err != nil {
		return err
	}
	switch msg.Type {
	case "text":
		if msg.Content == "" {
			return errors.New("Content required")
		}
	case "media":
		if msg.MediaURL == "" {
			return errors.New("mediaUrl required")
		}
	case "sticker":
		if msg.StickerID == 0 {
			return errors.New("stickerId required")
		}
	default:
		return errors.New("Unknown message type")
	}
	return nil
}

func (h *RouteHandler) createGroup(w http.ResponseWriter, r *http.Request, req chatsRequest) {
	if !self(w, r, req.UserID) {
		return
	}
	name, description, err := validation.GroupName(req.Name, req.Description)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	icon := req.Icon
	if icon == "" {
		icon = schemas.DefaultGroupIcon
	}

	chatID, err := dal.CreateGroup(r.Context(), h.db, name, icon, description, req.UserID)
	if err != nil {
		internalError(w, err, "error creating group")
		return
	}
	resp.OK(w, map[string]any{"chatId": chatID})
}

func (h *RouteHandler) getNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := dal.ListNotifications(r.Context(), h.db, middleware.UserID(r))
	if err != nil {
		internalError(w, err, "error listing notifications")
		return
	}
	if notifications == nil {
		notifications = []dal.Notification{}
	}
	resp.OK(w, map[string]any{"notifications": notifications})
}
