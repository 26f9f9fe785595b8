package session

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStoreLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", time.Hour)

	token, err := s.NewSession("u1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	userID, err := s.UserIDByToken(token)
	if err != nil {
		t.Fatalf("UserIDByToken: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("userID = %q, want u1", userID)
	}

	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.UserIDByToken(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("revoked token: got %v, want ErrInvalidSession", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", time.Minute)

	token, err := s.NewSession("u1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.UserIDByToken(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expired token: got %v, want ErrInvalidSession", err)
	}
}

func TestRedisStoreHashesTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", time.Hour)

	token, err := s.NewSession("u1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	// The raw token must never appear as a key.
	if mr.Exists(redisKeyPrefix + token) {
		t.Fatal("session stored under the raw token")
	}
	if !mr.Exists(redisKeyPrefix + tokenHash(token)) {
		t.Fatal("session not stored under the token hash")
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore()
	token, err := s.NewSession("u1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	userID, err := s.UserIDByToken(token)
	if err != nil || userID != "u1" {
		t.Fatalf("UserIDByToken: %q, %v", userID, err)
	}
	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.UserIDByToken(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("revoked token: got %v, want ErrInvalidSession", err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	s := NewMemoryStore()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := s.NewSession("u1")
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		if seen[token] {
			t.Fatal("duplicate token issued")
		}
		seen[token] = true
	}
}
