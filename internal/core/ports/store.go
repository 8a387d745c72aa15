package ports

import (
	"context"
	"time"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
)

// PendingInput is date and time input entered before a draft exists.
type PendingInput struct {
	SportID     string                 `json:"sport_id"`
	TimeRange   domain.TimeRange       `json:"time_range"`
	Dates       domain.DateSeries      `json:"dates"`
	FieldByDate map[domain.Date]string `json:"field_by_date,omitempty"`
}

// SessionSnapshot is what a session persists between requests.
type SessionSnapshot struct {
	SessionID      string              `json:"session_id"`
	Draft          domain.BookingDraft `json:"draft"`
	Pending        *PendingInput       `json:"pending,omitempty"`
	CountdownStart *time.Time          `json:"countdown_start,omitempty"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// DraftStore keeps session snapshots for the lifetime of a reservation
// attempt only. Get returns domain.ErrNotFound for unknown sessions.
type DraftStore interface {
	Save(ctx context.Context, snap SessionSnapshot, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
