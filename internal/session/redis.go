package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"monipersonal/server/internal/crypto"
)

const keyPrefix = "session:"

// Redis backs the session table with an external cache so sessions survive
// process restarts and are shared across replicas. Expiry is delegated to
// the key TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Create(ctx context.Context, role string, subjectID int64) (string, error) {
	token, err := crypto.NewSessionToken()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(Entry{Role: role, SubjectID: subjectID, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}
	if err := r.client.Set(ctx, keyPrefix+token, payload, r.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (r *Redis) Resolve(ctx context.Context, token string) (*Entry, error) {
	payload, err := r.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (r *Redis) Invalidate(ctx context.Context, token string) error {
	return r.client.Del(ctx, keyPrefix+token).Err()
}
