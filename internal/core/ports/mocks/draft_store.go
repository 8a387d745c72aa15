package mocks

import (
	context "context"
	time "time"

	ports "github.com/tuananh0303/DATN-sub000/internal/core/ports"
	mock "github.com/stretchr/testify/mock"
)

// DraftStore is a mock type for the DraftStore type
type DraftStore struct {
	mock.Mock
}

var _ ports.DraftStore = (*DraftStore)(nil)

// Save provides a mock function with given fields: ctx, snap, ttl
func (_m *DraftStore) Save(ctx context.Context, snap ports.SessionSnapshot, ttl time.Duration) error {
	ret := _m.Called(ctx, snap, ttl)
	return ret.Error(0)
}

// Get provides a mock function with given fields: ctx, sessionID
func (_m *DraftStore) Get(ctx context.Context, sessionID string) (*ports.SessionSnapshot, error) {
	ret := _m.Called(ctx, sessionID)

	var r0 *ports.SessionSnapshot
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ports.SessionSnapshot)
	}
	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, sessionID
func (_m *DraftStore) Delete(ctx context.Context, sessionID string) error {
	ret := _m.Called(ctx, sessionID)
	return ret.Error(0)
}

// NewDraftStore creates a new instance of DraftStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewDraftStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *DraftStore {
	m := &DraftStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
