package session

import (
	"context"
	"errors"
	"time"

	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/ports"
)

// DatabaseStore persists tokens through a SessionRepository. Rows older than
// the TTL are invisible to Get and removed by Prune.
type DatabaseStore struct {
	repo ports.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewDatabaseStore(repo ports.SessionRepository, ttl time.Duration) *DatabaseStore {
	return &DatabaseStore{repo: repo, ttl: ttl, now: time.Now}
}

func (s *DatabaseStore) notBefore() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(-s.ttl)
}

func (s *DatabaseStore) Get(ctx context.Context, sessionID string) (string, bool, error) {
	token, err := s.repo.Get(ctx, sessionID, s.notBefore())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return token, true, nil
}

func (s *DatabaseStore) Put(ctx context.Context, sessionID, responseID string) error {
	return s.repo.Upsert(ctx, sessionID, responseID)
}

// Prune deletes expired sessions and returns how many were removed. A zero
// TTL keeps everything.
func (s *DatabaseStore) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.repo.DeleteOlderThan(ctx, s.notBefore())
}
