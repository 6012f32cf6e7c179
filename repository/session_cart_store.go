package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"oskar-api/entity"

	"github.com/redis/go-redis/v9"
)

// SessionCartStore keeps anonymous carts in redis, keyed by session id. The
// TTL doubles as the retention policy: an untouched anonymous cart simply
// vanishes when it expires.
type SessionCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionCartStore(client *redis.Client, ttl time.Duration) *SessionCartStore {
	return &SessionCartStore{Client: client, TTL: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("panier:session:%s", sessionID)
}

// Get returns the session's cart, or redis.Nil when none exists.
func (s *SessionCartStore) Get(ctx context.Context, sessionID string) (*entity.Cart, error) {
	raw, err := s.Client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	var c entity.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("unmarshal session cart: %w", err)
	}
	c.SessionID = sessionID
	return &c, nil
}

// Save writes the cart back and refreshes the retention TTL.
func (s *SessionCartStore) Save(ctx context.Context, sessionID string, c *entity.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal session cart: %w", err)
	}
	return s.Client.Set(ctx, sessionKey(sessionID), raw, s.TTL).Err()
}

// Delete drops the session's cart, typically after it was merged into an
// authenticated cart.
func (s *SessionCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKey(sessionID)).Err()
}

// IsMissing reports whether err means "no cart stored for this session".
func IsMissing(err error) bool {
	return errors.Is(err, redis.Nil)
}
