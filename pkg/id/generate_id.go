package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewID32 returns exactly 32 lowercase hex characters (16 random bytes).
func NewID32() string {
	s, err := NewToken(16)
	if err != nil {
		panic(err)
	}
	return s
}

// NewToken returns n random bytes hex-encoded. Session tokens use 32 bytes.
func NewToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("id: invalid token size %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("id: read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
