// Package mocks holds hand-written testify mocks of the core ports.
package mocks

import (
	context "context"

	domain "github.com/tuananh0303/DATN-sub000/internal/core/domain"
	ports "github.com/tuananh0303/DATN-sub000/internal/core/ports"
	mock "github.com/stretchr/testify/mock"
)

// ReservationService is a mock type for the ReservationService type
type ReservationService struct {
	mock.Mock
}

var _ ports.ReservationService = (*ReservationService)(nil)

// CreateDraft provides a mock function with given fields: ctx, req
func (_m *ReservationService) CreateDraft(ctx context.Context, req ports.CreateDraftRequest) (ports.DraftHandle, error) {
	ret := _m.Called(ctx, req)

	var r0 ports.DraftHandle
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, ports.CreateDraftRequest) (ports.DraftHandle, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, ports.CreateDraftRequest) ports.DraftHandle); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.Get(0).(ports.DraftHandle)
	}
	if rf, ok := ret.Get(1).(func(context.Context, ports.CreateDraftRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}
	return r0, r1
}

// UpdateDraftSlots provides a mock function with given fields: ctx, draftID, slots
func (_m *ReservationService) UpdateDraftSlots(ctx context.Context, draftID string, slots []domain.FieldSlot) (string, error) {
	ret := _m.Called(ctx, draftID, slots)
	return ret.String(0), ret.Error(1)
}

// UpdateDraftServices provides a mock function with given fields: ctx, draftID, services
func (_m *ReservationService) UpdateDraftServices(ctx context.Context, draftID string, services []domain.ServiceSelection) (string, error) {
	ret := _m.Called(ctx, draftID, services)
	return ret.String(0), ret.Error(1)
}

// DeleteDraft provides a mock function with given fields: ctx, draftID
func (_m *ReservationService) DeleteDraft(ctx context.Context, draftID string) error {
	ret := _m.Called(ctx, draftID)
	return ret.Error(0)
}

// InitiatePayment provides a mock function with given fields: ctx, req
func (_m *ReservationService) InitiatePayment(ctx context.Context, req ports.PaymentRequest) (string, error) {
	ret := _m.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}

// ListAvailableFieldGroups provides a mock function with given fields: ctx, q
func (_m *ReservationService) ListAvailableFieldGroups(ctx context.Context, q ports.FieldGroupQuery) ([]domain.FieldGroupOffer, error) {
	ret := _m.Called(ctx, q)

	var r0 []domain.FieldGroupOffer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.FieldGroupOffer)
	}
	return r0, ret.Error(1)
}

// ListAvailableServices provides a mock function with given fields: ctx, facilityID, draftID
func (_m *ReservationService) ListAvailableServices(ctx context.Context, facilityID string, draftID string) ([]domain.ServiceCatalogEntry, error) {
	ret := _m.Called(ctx, facilityID, draftID)

	var r0 []domain.ServiceCatalogEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ServiceCatalogEntry)
	}
	return r0, ret.Error(1)
}

// GetOperatingHours provides a mock function with given fields: ctx, facilityID
func (_m *ReservationService) GetOperatingHours(ctx context.Context, facilityID string) (domain.OperatingHours, error) {
	ret := _m.Called(ctx, facilityID)
	return ret.Get(0).(domain.OperatingHours), ret.Error(1)
}

// ListVouchers provides a mock function with given fields: ctx, facilityID
func (_m *ReservationService) ListVouchers(ctx context.Context, facilityID string) ([]domain.Voucher, error) {
	ret := _m.Called(ctx, facilityID)

	var r0 []domain.Voucher
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Voucher)
	}
	return r0, ret.Error(1)
}

// NewReservationService creates a new instance of ReservationService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewReservationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReservationService {
	m := &ReservationService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
