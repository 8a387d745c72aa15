package mocks

import (
	context "context"

	ports "github.com/tuananh0303/DATN-sub000/internal/core/ports"
	mock "github.com/stretchr/testify/mock"
)

// ExpiredDraftRepository is a mock type for the ExpiredDraftRepository type
type ExpiredDraftRepository struct {
	mock.Mock
}

var _ ports.ExpiredDraftRepository = (*ExpiredDraftRepository)(nil)

// GetExpiredDrafts provides a mock function with given fields: ctx
func (_m *ExpiredDraftRepository) GetExpiredDrafts(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

// ExpireDraft provides a mock function with given fields: ctx, draftID
func (_m *ExpiredDraftRepository) ExpireDraft(ctx context.Context, draftID string) error {
	ret := _m.Called(ctx, draftID)
	return ret.Error(0)
}

// NewExpiredDraftRepository creates a new instance of ExpiredDraftRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewExpiredDraftRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ExpiredDraftRepository {
	m := &ExpiredDraftRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
