// Package crypto issues invite codes and bearer tokens for the development server.
package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
