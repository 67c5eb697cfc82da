package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chat2purchase/shopassist/internal/domain"
)

type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(pool Querier) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(pool),
	}
}

// Get returns the stored continuity token, ignoring rows last written before notBefore
func (r *SessionRepository) Get(ctx context.Context, sessionID string, notBefore time.Time) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT response_id
		FROM chat_sessions
		WHERE id = $1 AND updated_at >= $2`

	var responseID string
	if err := r.conn(ctx).QueryRow(ctx, query, sessionID, notBefore).Scan(&responseID); err != nil {
		if checkNoRows(err) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	return responseID, nil
}

// Upsert stores the latest continuity token. Last write wins.
func (r *SessionRepository) Upsert(ctx context.Context, sessionID, responseID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO chat_sessions (id, response_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET response_id = EXCLUDED.response_id, updated_at = NOW()`

	if _, err := r.conn(ctx).Exec(ctx, query, sessionID, responseID); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM chat_sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
