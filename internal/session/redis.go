package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "quizbot:session:"

// RedisStore хранит сессии в Redis в виде JSON с истечением по ttl.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore создает RedisStore.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil for RedisStore")
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get читает сессию пользователя.
func (r *RedisStore) Get(ctx context.Context, userID int64) (*Session, error) {
	data, err := r.client.Get(ctx, redisKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}

	if err != nil {
		return nil, err
	}

	var s Session
	if err = json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &s, nil
}

// Save записывает сессию и продлевает ее время жизни.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return r.client.Set(ctx, redisKey(s.UserID), data, r.ttl).Err()
}

// Delete удаляет сессию пользователя.
func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, redisKey(userID)).Err()
}

func redisKey(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}
