package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tuananh0303/DATN-sub000/internal/core/ports/mocks"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
)

func TestProcessExpiredDrafts(t *testing.T) {
	repo := mocks.NewExpiredDraftRepository(t)
	janitor := services.NewDraftJanitor(repo, time.Minute, nil)
	ctx := context.Background()

	repo.On("GetExpiredDrafts", ctx).Return([]string{"d-1", "d-2"}, nil)
	repo.On("ExpireDraft", ctx, "d-1").Return(nil)
	repo.On("ExpireDraft", ctx, "d-2").Return(errors.New("locked"))

	assert.Equal(t, 1, janitor.ProcessExpiredDrafts(ctx))
}

func TestProcessExpiredDrafts_FetchError(t *testing.T) {
	repo := mocks.NewExpiredDraftRepository(t)
	janitor := services.NewDraftJanitor(repo, time.Minute, nil)
	ctx := context.Background()

	repo.On("GetExpiredDrafts", ctx).Return(nil, errors.New("connection refused"))

	assert.Zero(t, janitor.ProcessExpiredDrafts(ctx))
}

func TestRunBackgroundCleanup_StopsOnCancel(t *testing.T) {
	repo := mocks.NewExpiredDraftRepository(t)
	janitor := services.NewDraftJanitor(repo, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		janitor.RunBackgroundCleanup(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
