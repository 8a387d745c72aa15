package mocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports/mocks"
)

func TestReservationService_ReturnFunc(t *testing.T) {
	m := mocks.NewReservationService(t)
	m.On("CreateDraft", context.Background(), ports.CreateDraftRequest{SportID: "football"}).
		Return(func(_ context.Context, req ports.CreateDraftRequest) (ports.DraftHandle, error) {
			return ports.DraftHandle{ID: "d-" + req.SportID}, nil
		}, nil)
	m.On("DeleteDraft", context.Background(), "d-1").Return(errors.New("timeout"))

	var svc ports.ReservationService = m
	h, err := svc.CreateDraft(context.Background(), ports.CreateDraftRequest{SportID: "football"})
	require.NoError(t, err)
	assert.Equal(t, "d-football", h.ID)
	assert.EqualError(t, svc.DeleteDraft(context.Background(), "d-1"), "timeout")
}

func TestDraftStore_MissingSnapshot(t *testing.T) {
	m := mocks.NewDraftStore(t)
	m.On("Get", context.Background(), "s-1").Return(nil, errors.New("not found"))

	var store ports.DraftStore = m
	snap, err := store.Get(context.Background(), "s-1")
	assert.Nil(t, snap)
	assert.Error(t, err)
}

func TestExpiredDraftRepository(t *testing.T) {
	m := mocks.NewExpiredDraftRepository(t)
	m.On("GetExpiredDrafts", context.Background()).Return([]string{"d-1"}, nil)
	m.On("ExpireDraft", context.Background(), "d-1").Return(nil)

	var repo ports.ExpiredDraftRepository = m
	ids, err := repo.GetExpiredDrafts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"d-1"}, ids)
	assert.NoError(t, repo.ExpireDraft(context.Background(), "d-1"))
}
