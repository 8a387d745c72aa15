package ports

import (
	"context"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
)

type FieldGroupQuery struct {
	FacilityID string
	SportID    string
	Dates      []domain.Date
	Start      domain.TimeOfDay
	End        domain.TimeOfDay
}

type DraftHandle struct {
	ID            string `json:"id"`
	PaymentHandle string `json:"payment_handle"`
}

type CreateDraftRequest struct {
	TimeRange domain.TimeRange
	Slots     []domain.FieldSlot
	SportID   string
}

type PaymentRequest struct {
	PaymentHandle string
	Method        domain.PaymentMethod
	VoucherID     string
}

// CatalogService is the read side of the reservation service.
type CatalogService interface {
	ListAvailableFieldGroups(ctx context.Context, q FieldGroupQuery) ([]domain.FieldGroupOffer, error)
	ListAvailableServices(ctx context.Context, facilityID, draftID string) ([]domain.ServiceCatalogEntry, error)
	GetOperatingHours(ctx context.Context, facilityID string) (domain.OperatingHours, error)
	ListVouchers(ctx context.Context, facilityID string) ([]domain.Voucher, error)
}

// DraftService owns draft reservations. Every mutation may re-price the draft
// and therefore returns a fresh payment handle.
type DraftService interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (DraftHandle, error)
	UpdateDraftSlots(ctx context.Context, draftID string, slots []domain.FieldSlot) (string, error)
	UpdateDraftServices(ctx context.Context, draftID string, services []domain.ServiceSelection) (string, error)
	DeleteDraft(ctx context.Context, draftID string) error
	InitiatePayment(ctx context.Context, req PaymentRequest) (string, error)
}

type ReservationService interface {
	CatalogService
	DraftService
}

// ExpiredDraftRepository is implemented by reservation backends that enforce
// draft expiry themselves.
type ExpiredDraftRepository interface {
	GetExpiredDrafts(ctx context.Context) ([]string, error)
	ExpireDraft(ctx context.Context, draftID string) error
}
