package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/domain"
)

// Store manages session records keyed by (userID, sessionID). Entries are
// bounded by TTL even when never explicitly invalidated, which is the safety
// net against sessions leaked by crashed pipelines.
type Store interface {
	// NewIdentifier returns a fresh session id, collision-free within any
	// validity window.
	NewIdentifier() string
	// Create writes a session entry with the given TTL.
	Create(ctx context.Context, sess domain.Session, ttl time.Duration) error
	// Invalidate removes (userID, sessionID). It returns false when the entry
	// was already absent; that is not an error.
	Invalidate(ctx context.Context, userID, sessionID string) (bool, error)
	// Get loads a session entry, or nil when absent or expired.
	Get(ctx context.Context, userID, sessionID string) (*domain.Session, error)
}

type redisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore returns a Redis-backed session store.
func NewRedisStore(client *redis.Client, logger *zap.Logger) Store {
	return &redisStore{client: client, logger: logger}
}

func sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("session:%s:%s", userID, sessionID)
}

func (s *redisStore) NewIdentifier() string {
	return uuid.NewString()
}

func (s *redisStore) Create(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := sessionKey(sess.UserID, sess.SessionID)
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("create session %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Invalidate(ctx context.Context, userID, sessionID string) (bool, error) {
	key := sessionKey(userID, sessionID)
	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("invalidate session %s: %w", key, err)
	}
	if removed == 0 {
		s.logger.Debug("session already absent", zap.String("key", key))
		return false, nil
	}
	return true, nil
}

func (s *redisStore) Get(ctx context.Context, userID, sessionID string) (*domain.Session, error) {
	key := sessionKey(userID, sessionID)
	payload, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", key, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", key, err)
	}
	return &sess, nil
}
