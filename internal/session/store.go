// Package session implements the server-side session table: a revocable
// mapping from an opaque token to the identity that logged in. Two backends
// exist, an in-process map and Redis; the resolver only sees the Store
// interface.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound covers absent, expired and invalidated tokens alike, so a
// caller cannot distinguish which (no oracle for token probing).
var ErrNotFound = errors.New("session: not found")

type Entry struct {
	Role      string    `json:"role"`
	SubjectID int64     `json:"subjectId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store interface {
	// Create registers a new entry and returns its opaque token. The token
	// is random and carries no claim content.
	Create(ctx context.Context, role string, subjectID int64) (string, error)
	// Resolve returns the entry for a token, or ErrNotFound if the token is
	// unknown, expired or invalidated.
	Resolve(ctx context.Context, token string) (*Entry, error)
	// Invalidate removes an entry. Removing an absent token is not an error.
	Invalidate(ctx context.Context, token string) error
}
