package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a stored bcrypt hash. Rows that
// predate the bcrypt migration hold a bare sha256 hex digest, so on any
// bcrypt failure the legacy digest is compared instead. Malformed stored
// values simply fail the check.
func CheckPassword(stored, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil {
		return true
	}
	legacy := LegacyHash(password)
	return subtle.ConstantTimeCompare([]byte(legacy), []byte(stored)) == 1
}

// LegacyHash is the pre-migration sha256 password digest.
func LegacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
