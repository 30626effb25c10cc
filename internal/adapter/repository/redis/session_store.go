package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nkhoury/tillbook/internal/domain"
)

// SessionStore implements usecase.SessionStore on Redis. The day session
// is a small JSON document keyed per branch; the TTL only has to outlive
// the longest gap between two operator actions, since every mutation
// rewrites the key.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "day_session:",
		ttl:    ttl,
	}
}

// Load returns the branch's checkpointed session, or
// domain.ErrSessionNotFound.
func (s *SessionStore) Load(ctx context.Context, branchID int64) (*domain.DaySession, error) {
	data, err := s.client.Get(ctx, s.key(branchID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.DaySession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode day session: %w", err)
	}

	return &session, nil
}

// Save checkpoints the session, replacing any previous checkpoint.
func (s *SessionStore) Save(ctx context.Context, session *domain.DaySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode day session: %w", err)
	}

	return s.client.Set(ctx, s.key(session.BranchID), data, s.ttl).Err()
}

func (s *SessionStore) key(branchID int64) string {
	return fmt.Sprintf("%s%d", s.prefix, branchID)
}
