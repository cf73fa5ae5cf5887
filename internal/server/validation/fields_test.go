package validation

import (
	"strings"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+7 (123) 456-78-90", "+71234567890", false},
		{"  5551234 ", "5551234", false},
		{"555.123.4567", "5551234567", false},
		{"", "", true},
		{"   ", "", true},
		{"12", "", true},
		{"+7abc", "", true},
		{"++71234", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizePhone(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNickname(t *testing.T) {
	if got, _ := Nickname("  ", "User"); got != "User" {
		t.Errorf("blank nickname = %q", got)
	}
	if got, _ := Nickname(" Neo ", "User"); got != "Neo" {
		t.Errorf("trimmed nickname = %q", got)
	}
	if _, err := Nickname(strings.Repeat("я", MaxNicknameLength+1), "User"); err == nil {
		t.Error("long nickname accepted")
	}
	if _, err := Nickname(strings.Repeat("я", MaxNicknameLength), "User"); err != nil {
		t.Errorf("nickname at the limit rejected: %v", err)
	}
}

func TestGroupName(t *testing.T) {
	name, desc, err := GroupName("  Team  ", " raids ")
	if err != nil || name != "Team" || desc != "raids" {
		t.Fatalf("GroupName = %q, %q, %v", name, desc, err)
	}
	if _, _, err := GroupName(" ", ""); err == nil {
		t.Error("blank name accepted")
	}
	if _, _, err := GroupName("x", strings.Repeat("d", MaxDescriptionLength+1)); err == nil {
		t.Error("long description accepted")
	}
}
