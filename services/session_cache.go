package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adegamar/backend/model"
	"github.com/redis/go-redis/v9"
)

// SessionCache is an optional Redis read-through cache in front of the
// session collection. MongoDB stays authoritative; every cache failure
// is non-fatal and callers fall back to the database.
type SessionCache struct {
	client *redis.Client
}

// GlobalSessionCache is nil when REDIS_URL is not configured. All
// callers nil-check before use.
var GlobalSessionCache *SessionCache

// NewSessionCache connects to Redis and verifies the connection
func NewSessionCache(redisURL string) (*SessionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SessionCache{client: client}, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

// SetSession caches a session with a TTL matching its expiry, so Redis
// drops it on its own once it can no longer validate.
func (sc *SessionCache) SetSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session has already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := sc.client.Set(ctx, sessionKey(session.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}

	return nil
}

// GetSession returns the cached session for a token, or nil on a miss.
// An expired entry is deleted and treated as a miss.
func (sc *SessionCache) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}

	data, err := sc.client.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	// Token is excluded from JSON, restore it from the lookup key.
	session.Token = token

	if session.Expired(time.Now()) {
		sc.DeleteSession(ctx, token)
		return nil, nil
	}

	return &session, nil
}

// DeleteSession removes a session from the cache
func (sc *SessionCache) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := sc.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from cache: %w", err)
	}

	return nil
}

func (sc *SessionCache) IsConnected() bool {
	if sc == nil || sc.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sc.client.Ping(ctx).Err() == nil
}

func (sc *SessionCache) Close() error {
	if sc == nil || sc.client == nil {
		return nil
	}
	return sc.client.Close()
}
