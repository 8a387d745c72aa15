package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

const sessionKeyPrefix = "booking:session:"

// DraftStore keeps booking session snapshots in Redis. Keys expire with the
// session so nothing outlives the reservation attempt.
type DraftStore struct {
	client goredis.Cmdable
}

func NewDraftStore(client goredis.Cmdable) *DraftStore {
	return &DraftStore{client: client}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *DraftStore) Save(ctx context.Context, snap ports.SessionSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snap.SessionID, err)
	}
	return s.client.Set(ctx, sessionKey(snap.SessionID), data, ttl).Err()
}

func (s *DraftStore) Get(ctx context.Context, sessionID string) (*ports.SessionSnapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var snap ports.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &snap, nil
}

func (s *DraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
