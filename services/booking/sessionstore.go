package booking

import (
	"context"
	"encoding/json"
	"time"

	"deskhub/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "booking:session:"

// SessionStore persists wizard sessions between selection steps.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Save(ctx context.Context, session *models.BookingSession) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL, so abandoned
// wizards clean themselves up.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+session.SessionID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionPrefix+sessionID).Err()
}
