package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuananh0303/DATN-sub000/internal/adapter/repository/redis"
	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

func snapshot(t *testing.T) ports.SessionSnapshot {
	d1, err := domain.ParseDate("2024-01-10")
	require.NoError(t, err)
	started := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)

	draft := domain.EmptyDraft()
	draft.SportID = "football"
	draft.TimeRange = domain.TimeRange{Start: domain.MustTimeOfDay("18:00"), End: domain.MustTimeOfDay("20:00")}
	draft.Dates = domain.DateSeries{d1}
	draft = draft.Created("d-1", "pay-1", started).FieldsAssigned(map[domain.Date]string{d1: "f-1"}, "")

	return ports.SessionSnapshot{
		SessionID:      "s-1",
		Draft:          draft,
		CountdownStart: &started,
		UpdatedAt:      started,
	}
}

func TestDraftStore_SaveAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := redis.NewDraftStore(client)
	ctx := context.Background()
	snap := snapshot(t)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	mock.ExpectSet("booking:session:s-1", data, 30*time.Minute).SetVal("OK")
	mock.ExpectGet("booking:session:s-1").SetVal(string(data))

	require.NoError(t, store.Save(ctx, snap, 30*time.Minute))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, snap.Draft.ID, got.Draft.ID)
	assert.Equal(t, domain.PhaseFieldsSet, got.Draft.Phase)
	assert.Equal(t, snap.Draft.FieldByDate, got.Draft.FieldByDate)
	assert.Equal(t, snap.Draft.TimeRange, got.Draft.TimeRange)
	assert.True(t, snap.CountdownStart.Equal(*got.CountdownStart))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftStore_GetMissing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := redis.NewDraftStore(client)

	mock.ExpectGet("booking:session:s-2").RedisNil()

	_, err := store.Get(context.Background(), "s-2")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftStore_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := redis.NewDraftStore(client)

	mock.ExpectGet("booking:session:s-3").SetErr(errors.New("connection reset"))

	_, err := store.Get(context.Background(), "s-3")

	assert.EqualError(t, err, "connection reset")
}

func TestDraftStore_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := redis.NewDraftStore(client)

	mock.ExpectDel("booking:session:s-1").SetVal(1)

	require.NoError(t, store.Delete(context.Background(), "s-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
