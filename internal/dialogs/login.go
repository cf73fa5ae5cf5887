package dialogs

import (
	"context"
	"fmt"
	"strings"

	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/services/rilmas"
)

// Authenticator is the part of the transport client login needs.
type Authenticator interface {
	Login(ctx context.Context, phone string) (*rilmas.AuthResponse, error)
}

// Login restores a session for an already registered phone number.
type Login struct {
	Guard
}

// Submit logs in with phone. The session store is only written when the
// response carries a user and token.
func (l *Login) Submit(ctx context.Context, phone string, api Authenticator, store SessionWriter) (schemas.User, error) {
	submit, err := l.Start(ctx, phone, api, store)
	if err != nil {
		return schemas.User{}, err
	}
	return submit()
}

// Start raises the loading flag and returns the request Submit would issue.
// The returned func lowers the flag when it resolves and must be called
// exactly once.
func (l *Login) Start(ctx context.Context, phone string, api Authenticator, store SessionWriter) (func() (schemas.User, error), error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	if err := l.Begin(); err != nil {
		return nil, err
	}

	return func() (schemas.User, error) {
		defer l.End()

		res, err := api.Login(ctx, phone)
		if err != nil {
			logx.Error(err, "login failed")
			return schemas.User{}, fmt.Errorf("login: %w", err)
		}
		if err := res.Valid(); err != nil {
			return schemas.User{}, fmt.Errorf("login: %w", err)
		}
		if err := store.Save(*res.User, res.Token); err != nil {
			return schemas.User{}, fmt.Errorf("login: saving session: %w", err)
		}
		return *res.User, nil
	}, nil
}
