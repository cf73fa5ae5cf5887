package dialogs

import (
	"errors"
	"strings"

	"github.com/gregriff/rilmas/internal/schemas"
)

var ErrNicknameRequired = errors.New("nickname is required")

// ProfileAvatars are the emoji offered by the profile editor.
var ProfileAvatars = []string{"🎮", "🚀", "⚡", "🔥", "💎", "🎯", "🌟", "👑", "🦁", "🐉", "🦅", "🦈", "🎨", "🎭", "🎪", "🎸"}

// ProfileEdit holds a working copy of the local profile. Save emits it,
// Cancel throws it away; both close the dialog.
type ProfileEdit struct {
	nickname string
	avatar   schemas.Avatar
	open     bool

	onSave func(schemas.Profile)
}

// NewProfileEdit opens the editor seeded from current.
func NewProfileEdit(current schemas.Profile, onSave func(schemas.Profile)) *ProfileEdit {
	return &ProfileEdit{
		nickname: current.Nickname,
		avatar:   current.Avatar,
		open:     true,
		onSave:   onSave,
	}
}

func (p *ProfileEdit) Open() bool { return p.open }

func (p *ProfileEdit) Nickname() string { return p.nickname }

func (p *ProfileEdit) Avatar() schemas.Avatar { return p.avatar }

func (p *ProfileEdit) SetNickname(s string) { p.nickname = s }

// ChooseEmoji switches the avatar to an emoji, dropping any uploaded image.
func (p *ProfileEdit) ChooseEmoji(token string) { p.avatar = schemas.EmojiAvatar(token) }

// ChooseImage switches the avatar to an image reference. References other
// than data URIs and http(s) URLs are rejected and leave the avatar as is.
func (p *ProfileEdit) ChooseImage(ref string) error {
	avatar, err := schemas.ParseImageAvatar(ref)
	if err != nil {
		return err
	}
	p.avatar = avatar
	return nil
}

// CanSave reports whether Save is enabled.
func (p *ProfileEdit) CanSave() bool {
	return p.open && strings.TrimSpace(p.nickname) != ""
}

// Save emits the working copy and closes the dialog.
func (p *ProfileEdit) Save() (schemas.Profile, error) {
	if !p.open {
		return schemas.Profile{}, ErrWrongStep
	}
	if strings.TrimSpace(p.nickname) == "" {
		return schemas.Profile{}, ErrNicknameRequired
	}
	saved := schemas.Profile{Nickname: strings.TrimSpace(p.nickname), Avatar: p.avatar}
	p.open = false
	if p.onSave != nil {
		p.onSave(saved)
	}
	return saved, nil
}

// Cancel closes the dialog without side effects.
func (p *ProfileEdit) Cancel() {
	p.open = false
}
