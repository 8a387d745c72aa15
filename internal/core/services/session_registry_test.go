package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports/mocks"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
)

func newRegistry(t *testing.T) (*services.SessionRegistry, *mocks.ReservationService, *mocks.DraftStore, *fakeClock) {
	svc := mocks.NewReservationService(t)
	store := mocks.NewDraftStore(t)
	clock := newFakeClock(time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC))
	reg := services.NewSessionRegistry(svc, store, clock, services.RegistryConfig{
		CountdownBudget: services.DefaultCountdownBudget,
		IdleTTL:         30 * time.Minute,
	}, nil)
	return reg, svc, store, clock
}

func create(ctx context.Context) func(*services.DraftController) error {
	return func(c *services.DraftController) error {
		_, err := c.Create(ctx, draftInput())
		return err
	}
}

func TestRegistry_NewSessionIsPersisted(t *testing.T) {
	reg, svc, store, _ := newRegistry(t)
	ctx := context.Background()

	store.On("Get", ctx, "s-1").Return(nil, domain.ErrNotFound).Once()
	svc.On("CreateDraft", ctx, mock.Anything).Return(ports.DraftHandle{ID: "d-1", PaymentHandle: "pay-1"}, nil)
	store.On("Save", ctx, mock.MatchedBy(func(s ports.SessionSnapshot) bool {
		return s.SessionID == "s-1" && s.Draft.ID == "d-1" && s.Draft.Phase == domain.PhaseFieldsSet
	}), 30*time.Minute).Return(nil).Twice()

	require.NoError(t, reg.Do(ctx, "s-1", create(ctx)))

	var phase domain.Phase
	require.NoError(t, reg.Do(ctx, "s-1", func(c *services.DraftController) error {
		phase = c.Snapshot().Phase
		return nil
	}))
	assert.Equal(t, domain.PhaseFieldsSet, phase)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RestoresFromStore(t *testing.T) {
	reg, _, store, clock := newRegistry(t)
	ctx := context.Background()
	started := clock.Now().Add(-time.Minute)

	draft := domain.EmptyDraft().Created("d-7", "pay-7", started)
	store.On("Get", ctx, "s-2").Return(&ports.SessionSnapshot{
		SessionID:      "s-2",
		Draft:          draft,
		CountdownStart: &started,
	}, nil)
	store.On("Save", ctx, mock.AnythingOfType("ports.SessionSnapshot"), 30*time.Minute).Return(nil)

	var got domain.BookingDraft
	var remaining time.Duration
	err := reg.Do(ctx, "s-2", func(c *services.DraftController) error {
		got = c.Snapshot()
		remaining, _ = c.Countdown()
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "d-7", got.ID)
	assert.Equal(t, domain.PhaseDraft, got.Phase)
	assert.Equal(t, 14*time.Minute, remaining)
}

func TestRegistry_EmptySessionIsDeleted(t *testing.T) {
	reg, _, store, _ := newRegistry(t)
	ctx := context.Background()

	store.On("Get", ctx, "s-3").Return(nil, domain.ErrNotFound)
	store.On("Delete", ctx, "s-3").Return(nil)

	err := reg.Do(ctx, "s-3", func(c *services.DraftController) error { return nil })

	assert.NoError(t, err)
}

func TestRegistry_ReturnsOperationError(t *testing.T) {
	reg, svc, store, _ := newRegistry(t)
	ctx := context.Background()

	store.On("Get", ctx, "s-4").Return(nil, domain.ErrNotFound)
	svc.On("CreateDraft", ctx, mock.Anything).Return(ports.DraftHandle{}, errUnavailable)
	store.On("Save", ctx, mock.MatchedBy(func(s ports.SessionSnapshot) bool {
		return s.Pending != nil && len(s.Pending.Dates) == 2
	}), 30*time.Minute).Return(errors.New("redis down"))

	err := reg.Do(ctx, "s-4", create(ctx))

	assert.ErrorIs(t, err, domain.ErrCreationFailed)
}

func TestRegistry_StoreFailure(t *testing.T) {
	reg, _, store, _ := newRegistry(t)
	ctx := context.Background()
	storeErr := errors.New("redis down")

	store.On("Get", ctx, "s-5").Return(nil, storeErr)

	err := reg.Do(ctx, "s-5", func(c *services.DraftController) error {
		t.Fatal("operation must not run without a session")
		return nil
	})

	assert.ErrorIs(t, err, storeErr)
	assert.Zero(t, reg.Len())
}

func TestRegistry_SweepIdleDeletesAbandonedDrafts(t *testing.T) {
	reg, svc, store, clock := newRegistry(t)
	ctx := context.Background()

	store.On("Get", ctx, "s-6").Return(nil, domain.ErrNotFound)
	svc.On("CreateDraft", ctx, mock.Anything).Return(ports.DraftHandle{ID: "d-6", PaymentHandle: "pay-6"}, nil)
	store.On("Save", ctx, mock.Anything, 30*time.Minute).Return(nil)
	require.NoError(t, reg.Do(ctx, "s-6", create(ctx)))

	assert.Zero(t, reg.SweepIdle(ctx), "session is still fresh")

	svc.On("DeleteDraft", mock.Anything, "d-6").Return(nil).Once()
	store.On("Delete", ctx, "s-6").Return(nil).Once()

	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, reg.SweepIdle(ctx))
	require.NoError(t, reg.Drain(ctx))
	assert.Zero(t, reg.Len())
}

func TestRegistry_End(t *testing.T) {
	reg, svc, store, _ := newRegistry(t)
	ctx := context.Background()

	store.On("Get", ctx, "s-8").Return(nil, domain.ErrNotFound)
	svc.On("CreateDraft", ctx, mock.Anything).Return(ports.DraftHandle{ID: "d-8", PaymentHandle: "pay-8"}, nil)
	store.On("Save", ctx, mock.Anything, 30*time.Minute).Return(nil)
	require.NoError(t, reg.Do(ctx, "s-8", create(ctx)))

	svc.On("DeleteDraft", mock.Anything, "d-8").Return(nil).Once()
	store.On("Delete", ctx, "s-8").Return(nil).Once()

	require.NoError(t, reg.End(ctx, "s-8"))
	require.NoError(t, reg.Drain(ctx))
	assert.Zero(t, reg.Len())
}

func TestRegistry_NextSessionWaitsForEndedDraftDeletion(t *testing.T) {
	reg, svc, store, _ := newRegistry(t)
	ctx := context.Background()

	store.On("Get", ctx, "s-9").Return(nil, domain.ErrNotFound)
	store.On("Save", ctx, mock.Anything, 30*time.Minute).Return(nil)
	svc.On("CreateDraft", ctx, mock.Anything).Return(ports.DraftHandle{ID: "d-1", PaymentHandle: "pay-1"}, nil).Once()
	require.NoError(t, reg.Do(ctx, "s-9", create(ctx)))

	release := make(chan time.Time)
	svc.On("DeleteDraft", mock.Anything, "d-1").WaitUntil(release).Return(nil).Once()
	store.On("Delete", ctx, "s-9").Return(nil).Once()
	require.NoError(t, reg.End(ctx, "s-9"))

	svc.On("CreateDraft", ctx, mock.Anything).Return(ports.DraftHandle{ID: "d-2", PaymentHandle: "pay-2"}, nil).Once()
	created := make(chan string, 1)
	go func() {
		var id string
		_ = reg.Do(ctx, "s-9", func(c *services.DraftController) error {
			d, err := c.Create(ctx, draftInput())
			id = d.ID
			return err
		})
		created <- id
	}()

	select {
	case <-created:
		t.Fatal("create finished before the ended session's draft was deleted")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case id := <-created:
		assert.Equal(t, "d-2", id)
	case <-time.After(time.Second):
		t.Fatal("create did not resume after deletion")
	}
	require.NoError(t, reg.Drain(ctx))
}
