package crypto

import (
	"strings"
	"testing"
)

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		code := GenerateInviteCode()
		if len(code) != InviteCodeLength {
			t.Fatalf("len(%q) = %d", code, len(code))
		}
		if strings.Trim(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789") != "" {
			t.Fatalf("unexpected characters in %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 95 {
		t.Fatalf("only %d distinct codes out of 100", len(seen))
	}
}

func TestTokenHash(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 2*tokenBytes {
		t.Fatalf("token length %d", len(token))
	}

	hashed := HashToken(token)
	if hashed == token || len(hashed) != 64 {
		t.Fatalf("hash = %q", hashed)
	}
	if HashToken(token) != hashed {
		t.Fatal("hash is not deterministic")
	}
	if HashToken(token+"x") == hashed {
		t.Fatal("different tokens share a hash")
	}
}
