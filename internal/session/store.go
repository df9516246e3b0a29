package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/oggyb/muzz-web/internal/cache"
	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
)

// Store maps opaque session tokens to user ids.
// Tokens live in Redis under session:<token> with a sliding TTL.
type Store struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

func NewStore(c *cache.RedisCache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// TTL is how long an idle session stays valid.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create opens a new session bound to who and returns its token.
func (s *Store) Create(ctx context.Context, who db.Identifiable) (string, error) {
	token := uuid.NewString()
	key := s.cache.KeyForSession(token)
	if err := s.cache.Set(ctx, key, strconv.FormatUint(who.Identity(), 10), s.ttl); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id bound to token and refreshes its TTL.
// Unknown, expired or malformed tokens yield ErrUnauthenticated.
func (s *Store) Resolve(ctx context.Context, token string) (uint64, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, svcErr.ErrUnauthenticated
	}

	key := s.cache.KeyForSession(token)
	val, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return 0, svcErr.ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("resolve session: %w", err)
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.ErrUnauthenticated
	}

	// sliding expiry: active users stay logged in
	_ = s.cache.Expire(ctx, key, s.ttl)
	return id, nil
}

// Destroy ends the session. Unknown or empty tokens are a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Del(ctx, s.cache.KeyForSession(token)); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
