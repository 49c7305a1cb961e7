package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"labportal/internal/common/logger"
	"labportal/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the session under portal:session:<profile> so separate
// CLI invocations share one login.
type RedisStore struct {
	client     redis.Cmdable
	profile    string
	defaultTTL time.Duration
	logger     logger.Logger
}

func NewRedisStore(client redis.Cmdable, profile string, defaultTTL time.Duration, log logger.Logger) *RedisStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{client: client, profile: profile, defaultTTL: defaultTTL, logger: log}
}

func (r *RedisStore) key() string {
	return fmt.Sprintf("portal:session:%s", r.profile)
}

func (r *RedisStore) Get(ctx context.Context) (*models.Session, error) {
	raw, err := r.client.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		r.logger.Warn("Discarding unreadable session", map[string]interface{}{
			"key":   r.key(),
			"error": err.Error(),
		})
		_ = r.client.Del(ctx, r.key()).Err()
		return nil, ErrNoSession
	}
	if s.IsExpired() {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Set stores the session until its expiry, or for the default TTL when it has none.
func (r *RedisStore) Set(ctx context.Context, s *models.Session) error {
	if s == nil {
		return r.Clear(ctx)
	}
	ttl := r.defaultTTL
	if !s.ExpiresAt.IsZero() {
		ttl = time.Until(s.ExpiresAt)
		if ttl <= 0 {
			return r.Clear(ctx)
		}
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	r.logger.Debug("Session stored", map[string]interface{}{
		"profile": r.profile,
		"userId":  s.User.ID,
		"ttl":     ttl.String(),
	})
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
