package dialogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/services/rilmas"
)

var (
	ErrPhoneRequired = errors.New("phone number is required")
	ErrWrongStep     = errors.New("action not available in this step")
)

// RegistrationAvatars are the emoji offered during registration.
var RegistrationAvatars = []string{"🎮", "🚀", "⚡", "🔥", "💎", "🎯", "🌟", "👑"}

// Registrar is the part of the transport client registration needs.
type Registrar interface {
	Register(ctx context.Context, phone, nickname string, avatar schemas.Avatar, inviteCode string) (*rilmas.AuthResponse, error)
}

// SessionWriter persists a successful login or registration.
type SessionWriter interface {
	Save(user schemas.User, token string) error
}

type Step int

const (
	PhoneEntry Step = iota
	ProfileSetup
)

func (s Step) String() string {
	switch s {
	case PhoneEntry:
		return "phone entry"
	case ProfileSetup:
		return "profile setup"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Registration is the two-step registration dialog.
type Registration struct {
	Guard

	mu         sync.Mutex
	step       Step
	phone      string
	nickname   string
	avatar     schemas.Avatar
	inviteCode string

	onComplete func(schemas.User)
}

// NewRegistration starts in PhoneEntry. inviteCode may be empty; onComplete
// may be nil.
func NewRegistration(inviteCode string, onComplete func(schemas.User)) *Registration {
	return &Registration{
		step:       PhoneEntry,
		avatar:     schemas.EmojiAvatar(RegistrationAvatars[0]),
		inviteCode: strings.TrimSpace(inviteCode),
		onComplete: onComplete,
	}
}

func (r *Registration) Step() Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

func (r *Registration) Phone() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phone
}

func (r *Registration) InviteCode() string { return r.inviteCode }

func (r *Registration) SetPhone(phone string) {
	r.mu.Lock()
	r.phone = phone
	r.mu.Unlock()
}

func (r *Registration) SetNickname(nickname string) {
	r.mu.Lock()
	r.nickname = nickname
	r.mu.Unlock()
}

func (r *Registration) Avatar() schemas.Avatar {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.avatar
}

func (r *Registration) ChooseAvatar(emoji string) {
	r.mu.Lock()
	r.avatar = schemas.EmojiAvatar(emoji)
	r.mu.Unlock()
}

// Continue moves from PhoneEntry to ProfileSetup when a phone was entered.
func (r *Registration) Continue() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.step != PhoneEntry {
		return ErrWrongStep
	}
	if strings.TrimSpace(r.phone) == "" {
		return ErrPhoneRequired
	}
	r.step = ProfileSetup
	return nil
}

// Back returns to PhoneEntry, keeping the entered phone. It does nothing
// while a submission is in flight.
func (r *Registration) Back() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Loading() {
		return
	}
	r.step = PhoneEntry
}

// CanComplete reports whether Complete is enabled.
func (r *Registration) CanComplete() bool {
	return r.Step() == ProfileSetup && !r.Loading()
}

// Complete submits the registration. On a response carrying a user the
// session is saved and onComplete is called; on anything else the dialog
// stays in ProfileSetup and the error is returned.
func (r *Registration) Complete(ctx context.Context, api Registrar, store SessionWriter) error {
	submit, err := r.Start(ctx, api, store)
	if err != nil {
		return err
	}
	return submit()
}

// Start raises the loading flag and returns the request Complete would issue.
// The flag is lowered when the returned func resolves, so it must be called
// exactly once.
func (r *Registration) Start(ctx context.Context, api Registrar, store SessionWriter) (func() error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.step != ProfileSetup {
		return nil, ErrWrongStep
	}
	if err := r.Begin(); err != nil {
		return nil, err
	}

	phone, nickname, avatar := strings.TrimSpace(r.phone), strings.TrimSpace(r.nickname), r.avatar
	if nickname == "" {
		nickname = schemas.DefaultNickname
	}

	return func() error {
		defer r.End()

		res, err := api.Register(ctx, phone, nickname, avatar, r.inviteCode)
		if err != nil {
			logx.Error(err, "registration failed")
			return fmt.Errorf("registration: %w", err)
		}
		if err := res.Valid(); err != nil {
			logx.Warn("registration response without user")
			return fmt.Errorf("registration: %w", err)
		}
		if err := store.Save(*res.User, res.Token); err != nil {
			return fmt.Errorf("registration: saving session: %w", err)
		}
		logx.Info("registered", "user_id", res.User.ID)
		if r.onComplete != nil {
			r.onComplete(*res.User)
		}
		return nil
	}, nil
}
