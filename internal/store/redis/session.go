package redis

import (
	"context"
	"fmt"
	"time"
)

// Save records an admin session token with its expiry.
func (s *Store) Save(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, SessionKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Exists reports whether the session token is still live.
func (s *Store) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, SessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return n == 1, nil
}

// Delete removes a session token. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, SessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
