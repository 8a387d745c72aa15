package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

// DraftJanitor enforces server-side draft expiry for the embedded
// reservation service by deleting unpaid drafts past their deadline.
type DraftJanitor struct {
	repo     ports.ExpiredDraftRepository
	interval time.Duration
	log      *zap.Logger
}

func NewDraftJanitor(repo ports.ExpiredDraftRepository, interval time.Duration, log *zap.Logger) *DraftJanitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DraftJanitor{repo: repo, interval: interval, log: log}
}

func (j *DraftJanitor) RunBackgroundCleanup(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info("draft janitor started", zap.Duration("interval", j.interval))

	for {
		select {
		case <-ctx.Done():
			j.log.Info("draft janitor stopped")
			return
		case <-ticker.C:
			j.ProcessExpiredDrafts(ctx)
		}
	}
}

// ProcessExpiredDrafts releases every expired draft once and returns how
// many were released.
func (j *DraftJanitor) ProcessExpiredDrafts(ctx context.Context) int {
	ids, err := j.repo.GetExpiredDrafts(ctx)
	if err != nil {
		j.log.Error("fetch expired drafts", zap.Error(err))
		return 0
	}
	if len(ids) == 0 {
		return 0
	}

	j.log.Info("expired drafts found", zap.Int("count", len(ids)))

	released := 0
	for _, id := range ids {
		if err := j.repo.ExpireDraft(ctx, id); err != nil {
			j.log.Warn("expire draft failed", zap.String("draft_id", id), zap.Error(err))
			continue
		}
		released++
		j.log.Debug("draft expired and slots released", zap.String("draft_id", id))
	}
	return released
}
