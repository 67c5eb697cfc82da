// Package session holds the session-id to continuity-token stores.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
)

// MemoryStore keeps tokens in process with LRU eviction and a TTL.
// maxEntries of zero means unbounded.
type MemoryStore struct {
	// mu pairs the membership check and insert in Put so the active
	// sessions gauge counts each insert once
	mu    sync.Mutex
	cache *expirable.LRU[string, string]
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	// onEvict runs under the cache lock and must not call back into it.
	cache := expirable.NewLRU[string, string](maxEntries, func(string, string) {
		metrics.MemorySessionsActive.Dec()
	}, ttl)
	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (string, bool, error) {
	token, ok := s.cache.Get(sessionID)
	return token, ok, nil
}

// Put stores the token. Last write wins.
func (s *MemoryStore) Put(_ context.Context, sessionID, responseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cache.Contains(sessionID) {
		metrics.MemorySessionsActive.Inc()
	}
	s.cache.Add(sessionID, responseID)
	return nil
}

func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

// Ping always succeeds
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
