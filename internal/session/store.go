// Package session keeps server-side login state in Redis. A session is an
// opaque id mapped to a user id with a sliding idle expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

const keyPrefix = "session:"

type Store struct {
	rdb         *redis.Client
	idleTimeout time.Duration
}

func NewStore(rdb *redis.Client, idleTimeout time.Duration) *Store {
	return &Store{rdb: rdb, idleTimeout: idleTimeout}
}

// Create opens a session for userID and returns its id.
func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+id, userID, s.idleTimeout).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Resolve returns the session's user id and pushes its expiry forward.
func (s *Store) Resolve(ctx context.Context, id string) (uint, error) {
	key := keyPrefix + id
	raw, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	if err := s.rdb.Expire(ctx, key, s.idleTimeout).Err(); err != nil {
		return 0, fmt.Errorf("refresh session: %w", err)
	}
	return uint(userID), nil
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
