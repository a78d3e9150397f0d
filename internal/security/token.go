package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoToken is returned when a token is absent from the store, whether it
// never existed, was revoked, or expired. Callers cannot tell these apart.
var ErrNoToken = errors.New("token not found")

const tokenKeyPrefix = "auth_"

// TokenStore issues and resolves opaque session tokens backed by redis.
// A token is valid exactly as long as its key lives; expiry is the TTL set
// at issue time and is never extended by validation.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Issue stores token -> userID with the configured TTL and returns the
// token. uuid gives enough entropy that live tokens never collide.
func (s *TokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Validate resolves a token to its user id. ErrNoToken covers missing and
// expired tokens; any other error means the store itself is unreachable.
func (s *TokenStore) Validate(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("lookup token: %w", err)
	}
	return userID, nil
}

// Revoke deletes the token and reports whether it existed. Revoking an
// unknown token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) (bool, error) {
	deleted, err := s.client.Del(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("delete token: %w", err)
	}
	return deleted > 0, nil
}
