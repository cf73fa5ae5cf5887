// Package validation checks and normalizes client input before it reaches the database.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNicknameLength    = 32
	MaxGroupNameLength   = 64
	MaxDescriptionLength = 256
	MaxContentLength     = 4000
)

var validPhone = regexp.MustCompile(`^\+?\d{3,15}$`)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone strips common separators and returns user-friendly errors.
func NormalizePhone(phone string) (string, error) {
	phone = phoneSeparators.Replace(strings.TrimSpace(phone))
	if phone == "" {
		return "", errors.New("Phone required")
	}
	if !validPhone.MatchString(phone) {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	return phone, nil
}

// Nickname trims the nickname, applying the default when it is blank.
func Nickname(nickname, fallback string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return fallback, nil
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return "", fmt.Errorf("nickname too long. Must be %d characters or less", MaxNicknameLength)
	}
	return nickname, nil
}

// GroupName trims and checks a group name and description.
func GroupName(name, description string) (string, string, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	switch {
	case name == "":
		return "", "", errors.New("Group name required")
	case utf8.RuneCountInString(name) > MaxGroupNameLength:
		return "", "", fmt.Errorf("group name too long. Must be %d characters or less", MaxGroupNameLength)
	case utf8.RuneCountInString(description) > MaxDescriptionLength:
		return "", "", fmt.Errorf("description too long. Must be %d characters or less", MaxDescriptionLength)
	}
	return name, description, nil
}

// Content limits the length of a message body.
func Content(content string) error {
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("message too long. Must be %d characters or less", MaxContentLength)
	}
	return nil
}
