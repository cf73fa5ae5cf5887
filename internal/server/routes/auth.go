package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/server/dal"
	"github.com/gregriff/rilmas/internal/server/resp"
	"github.com/gregriff/rilmas/internal/server/validation"
)

const defaultAvatar = "🎮"

type authRequest struct {
	Action     string `json:"action"`
	Phone      string `json:"phone"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	InviteCode string `json:"inviteCode"`
}

type authResponse struct {
	User  *dal.User `json:"user"`
	Token string    `json:"token"`
}

// Auth dispatches the register and login actions.
func (h *RouteHandler) Auth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if !decode(w, r, &req) {
		return
	}

	switch req.Action {
	case "register":
		h.register(w, r, req)
	case "login":
		h.login(w, r, req)
	default:
		methodNotAllowed(w)
	}
}

func (h *RouteHandler) register(w http.ResponseWriter, r *http.Request, req authRequest) {
	phone, err := validation.NormalizePhone(req.Phone)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	nickname, err := validation.Nickname(req.Nickname, schemas.DefaultNickname)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultAvatar
	}

	user, token, err := dal.CreateUser(r.Context(), h.db, phone, nickname, avatar, strings.TrimSpace(req.InviteCode))
	if errors.Is(err, dal.ErrPhoneTaken) {
		resp.Error(w, http.StatusBadRequest, "Phone already registered")
		return
	}
	if err != nil {
		internalError(w, err, "error creating user")
		return
	}

	logx.Info("user registered", "user_id", user.ID, "invited", req.InviteCode != "")
	resp.OK(w, authResponse{User: user, Token: token})
}

func (h *RouteHandler) login(w http.ResponseWriter, r *http.Request, req authRequest) {
	phone, err := validation.NormalizePhone(req.Phone)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := dal.Login(r.Context(), h.db, phone)
	if errors.Is(err, dal.ErrNotFound) {
		resp.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		internalError(w, err, "error logging in")
		return
	}

	logx.Info("user logged in", "user_id", user.ID)
	resp.OK(w, authResponse{User: user, Token: token})
}
