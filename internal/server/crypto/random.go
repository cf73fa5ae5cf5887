package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const (
	InviteCodeLength = 8
	tokenBytes       = 32
)

// GenerateInviteCode creates the code a user shares so others can join through them.
func GenerateInviteCode() string {
	return secureRandomString(InviteCodeLength)
}

// GenerateToken creates an opaque bearer token. Only its hash is stored.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func secureRandomString(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
