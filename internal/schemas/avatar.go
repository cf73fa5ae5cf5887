package schemas

import (
	"errors"
	"strings"
)

// AvatarKind tags which variant an Avatar holds.
type AvatarKind uint8

const (
	AvatarEmoji AvatarKind = iota
	AvatarImage
)

// Avatar is either a short emoji token or an image reference (data URI or URL).
// The zero value is an empty emoji.
type Avatar struct {
	kind  AvatarKind
	value string
}

// EmojiAvatar returns an emoji avatar.
func EmojiAvatar(token string) Avatar {
	return Avatar{kind: AvatarEmoji, value: token}
}

// ErrInvalidImage is returned for image references that are neither a data
// URI nor an http(s) URL.
var ErrInvalidImage = errors.New("image must be a data URI or an http(s) URL")

var imagePrefixes = []string{"data:", "http://", "https://"}

// ImageAvatar returns an image avatar pointing at ref. ref should satisfy
// IsImageRef, otherwise the avatar decodes as an emoji after encoding.
func ImageAvatar(ref string) Avatar {
	return Avatar{kind: AvatarImage, value: ref}
}

// IsImageRef reports whether s is encoded as an image reference.
func IsImageRef(s string) bool {
	for _, prefix := range imagePrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// ParseImageAvatar returns an image avatar for ref, or ErrInvalidImage.
func ParseImageAvatar(ref string) (Avatar, error) {
	ref = strings.TrimSpace(ref)
	if !IsImageRef(ref) {
		return Avatar{}, ErrInvalidImage
	}
	return ImageAvatar(ref), nil
}

// ParseAvatar classifies a wire value. Data URIs and http(s) URLs are images,
// anything else is treated as an emoji token.
func ParseAvatar(s string) Avatar {
	s = strings.TrimSpace(s)
	if IsImageRef(s) {
		return ImageAvatar(s)
	}
	return EmojiAvatar(s)
}

func (a Avatar) Kind() AvatarKind { return a.kind }

func (a Avatar) IsZero() bool { return a.value == "" }

// Emoji returns the token and true when a is an emoji avatar.
func (a Avatar) Emoji() (string, bool) {
	return a.value, a.kind == AvatarEmoji
}

// Image returns the reference and true when a is an image avatar.
func (a Avatar) Image() (string, bool) {
	return a.value, a.kind == AvatarImage
}

func (a Avatar) String() string { return a.value }

// Glyph is what a text-only front-end can render: the emoji itself, or a
// placeholder for images.
func (a Avatar) Glyph() string {
	if a.kind == AvatarImage {
		return "🖼"
	}
	return a.value
}

func (a Avatar) MarshalText() ([]byte, error) {
	return []byte(a.value), nil
}

func (a *Avatar) UnmarshalText(b []byte) error {
	*a = ParseAvatar(string(b))
	return nil
}
