// Package session issues and resolves opaque login tokens.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidSession indicates the token is unknown or expired.
var ErrInvalidSession = errors.New("invalid session token")

// Store persists session tokens.
type Store interface {
	NewSession(userID string) (string, error)
	UserIDByToken(token string) (string, error)
	DeleteSession(token string) error
}

const redisKeyPrefix = "officedesk:session:"

// RedisStore keeps sessions in Redis with a TTL. Tokens are stored
// hashed so a Redis dump never exposes live credentials.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis for session persistence.
func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		ttl:    ttl,
	}
}

// NewSession issues a token bound to the user.
func (s *RedisStore) NewSession(userID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ctx, cancel := opCtx()
	defer cancel()
	if err := s.client.Set(ctx, redisKeyPrefix+tokenHash(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// UserIDByToken resolves a token to its user.
func (s *RedisStore) UserIDByToken(token string) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()
	userID, err := s.client.Get(ctx, redisKeyPrefix+tokenHash(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidSession
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

// DeleteSession revokes a token; unknown tokens are a no-op.
func (s *RedisStore) DeleteSession(token string) error {
	ctx, cancel := opCtx()
	defer cancel()
	if err := s.client.Del(ctx, redisKeyPrefix+tokenHash(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// MemoryStore keeps sessions in-process for tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]string)}
}

// NewSession issues a token bound to the user.
func (m *MemoryStore) NewSession(userID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.sessions[tokenHash(token)] = userID
	m.mu.Unlock()
	return token, nil
}

// UserIDByToken resolves a token to its user.
func (m *MemoryStore) UserIDByToken(token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.sessions[tokenHash(token)]
	if !ok {
		return "", ErrInvalidSession
	}
	return userID, nil
}

// DeleteSession revokes a token.
func (m *MemoryStore) DeleteSession(token string) error {
	m.mu.Lock()
	delete(m.sessions, tokenHash(token))
	m.mu.Unlock()
	return nil
}
