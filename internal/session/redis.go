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

const keyPrefix = "session:"

// RedisStore manages sessions in Redis. Each session is a key holding the user id,
// expiring after ttl.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisStore returns a new session store.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// Create stores a new session for userID and returns its ID.
func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+id, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}
	return id, nil
}

// UserID returns the user a session belongs to.
func (s *RedisStore) UserID(ctx context.Context, id string) (int64, error) {
	userID, err := s.rdb.Get(ctx, keyPrefix+id).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis get: %w", err)
	}
	return userID, nil
}

// Delete removes a session by ID.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}
