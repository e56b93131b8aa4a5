package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore Redis 会话存储
// token -> userID，带 TTL，登出即删除
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

// Create 生成会话，返回 token
func (s *SessionStore) Create(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	err := s.client.Set(ctx, sessionKey(token), strconv.FormatUint(uint64(userID), 10), s.ttl).Err()
	if err != nil {
		return "", err
	}
	return token, nil
}

// Get 校验会话，返回 userID
func (s *SessionStore) Get(ctx context.Context, token string) (uint, error) {
	val, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	return uint(userID), nil
}

// Delete 删除会话（登出）
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}
