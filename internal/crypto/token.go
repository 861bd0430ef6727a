package crypto

import (
	"crypto/rand"
	"encoding/base64"
)

// NewSessionToken returns an opaque high-entropy key for a server-side
// session entry. It carries no claim content.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
