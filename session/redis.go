package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore shares session records between instances. Records are written
// with their remaining TTL so Redis expires them on its own.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient builds a client from the flat connection settings used by
// the deployment environment.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if _, err := s.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, redisKeyPrefix+sess.Token, strconv.FormatUint(uint64(sess.UserID), 10), ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	key := redisKeyPrefix + token

	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session record %q: %w", key, err)
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		UserID:    uint(userID),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisKeyPrefix+token).Err()
}
