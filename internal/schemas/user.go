// Package schemas contains the records exchanged between the rilmas client
// components and the remote endpoints.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultNickname is used when a user registers without choosing a name.
const DefaultNickname = "User"

// User is a member of the directory or the local user themselves.
type User struct {
	ID         int64  `json:"id" toml:"id"`
	Name       string `json:"name" toml:"name"`
	Phone      string `json:"phone,omitempty" toml:"phone,omitempty"`
	Avatar     Avatar `json:"avatar" toml:"avatar"`
	Online     bool   `json:"online,omitempty" toml:"-"`
	InviteCode string `json:"inviteCode,omitempty" toml:"invite_code,omitempty"`

	// CustomName is a local display-name override and never leaves the client.
	CustomName string `json:"-" toml:"custom_name,omitempty"`
}

// DisplayName prefers the local override over the canonical name.
func (u User) DisplayName() string {
	if u.CustomName != "" {
		return u.CustomName
	}
	return u.Name
}

// userWire accepts both spellings the endpoints use for the display name.
type userWire struct {
	ID         *int64  `json:"id"`
	Name       string  `json:"name"`
	Nickname   string  `json:"nickname"`
	Phone      string  `json:"phone"`
	Avatar     Avatar  `json:"avatar"`
	Online     bool    `json:"online"`
	Status     string  `json:"status"`
	InviteCode *string `json:"inviteCode"`
}

// UnmarshalJSON rejects users without a positive integer id.
func (u *User) UnmarshalJSON(b []byte) error {
	var w userWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("user: %w", err)
	}
	if w.ID == nil {
		return errors.New("user: missing id")
	}
	if *w.ID <= 0 {
		return fmt.Errorf("user: invalid id %d", *w.ID)
	}

	name := w.Name
	if name == "" {
		name = w.Nickname
	}
	*u = User{
		ID:     *w.ID,
		Name:   strings.TrimSpace(name),
		Phone:  w.Phone,
		Avatar: w.Avatar,
		Online: w.Online || w.Status == "online",
	}
	if w.InviteCode != nil {
		u.InviteCode = *w.InviteCode
	}
	return nil
}

// Profile is the local user's own editable identity.
type Profile struct {
	Nickname string `toml:"nickname"`
	Avatar   Avatar `toml:"avatar"`
}

// ProfileOf seeds a profile from a user record.
func ProfileOf(u User) Profile {
	return Profile{Nickname: u.DisplayName(), Avatar: u.Avatar}
}
