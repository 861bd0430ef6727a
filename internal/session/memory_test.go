package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCreateResolve(t *testing.T) {
	store := NewMemory(24 * time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "student", 42)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	entry, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if entry.Role != "student" || entry.SubjectID != 42 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestMemoryUnknownToken(t *testing.T) {
	store := NewMemory(24 * time.Hour)
	if _, err := store.Resolve(context.Background(), "no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryInvalidate(t *testing.T) {
	store := NewMemory(24 * time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "admin", 1)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := store.Invalidate(ctx, token); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}
	if _, err := store.Resolve(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after invalidate, got %v", err)
	}
	// Invalidating again must not error.
	if err := store.Invalidate(ctx, token); err != nil {
		t.Fatalf("second invalidate error: %v", err)
	}
}

func TestMemoryLazyExpiry(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemory(24 * time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	token, err := store.Create(ctx, "student", 7)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	now = now.Add(23 * time.Hour)
	if _, err := store.Resolve(ctx, token); err != nil {
		t.Fatalf("expected entry still valid at 23h, got %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.Resolve(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past TTL, got %v", err)
	}
	// The expired entry is removed at lookup time.
	store.mu.Lock()
	_, present := store.entries[token]
	store.mu.Unlock()
	if present {
		t.Fatalf("expected expired entry to be deleted")
	}
}
