package handler

import (
	"time"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
)

type validateWindowRequest struct {
	FacilityID string           `json:"facility_id"`
	Date       domain.Date      `json:"date"`
	Start      domain.TimeOfDay `json:"start"`
	End        domain.TimeOfDay `json:"end"`
}

type expandRecurrenceRequest struct {
	BaseDate domain.Date           `json:"base_date"`
	Rule     domain.RecurrenceRule `json:"rule"`
}

type quoteRequest struct {
	FacilityID   string                    `json:"facility_id" binding:"required"`
	FieldGroupID string                    `json:"field_group_id" binding:"required"`
	SportID      string                    `json:"sport_id"`
	Start        domain.TimeOfDay          `json:"start"`
	End          domain.TimeOfDay          `json:"end"`
	Dates        []domain.Date             `json:"dates"`
	Services     []domain.ServiceSelection `json:"services"`
	VoucherID    string                    `json:"voucher_id"`
	Points       int                       `json:"points"`
}

type createDraftRequest struct {
	// FacilityID enables the operating hours check; it is optional.
	FacilityID  string                 `json:"facility_id"`
	SportID     string                 `json:"sport_id" binding:"required"`
	Start       domain.TimeOfDay       `json:"start"`
	End         domain.TimeOfDay       `json:"end"`
	Dates       []domain.Date          `json:"dates"`
	FieldByDate map[domain.Date]string `json:"field_by_date"`
}

type reassignFieldsRequest struct {
	FieldByDate map[domain.Date]string `json:"field_by_date"`
}

type attachServicesRequest struct {
	Services []domain.ServiceSelection `json:"services"`
}

type paymentRequest struct {
	Method    domain.PaymentMethod `json:"method" binding:"required"`
	VoucherID string               `json:"voucher_id"`
	// FacilityID and FieldGroupID are needed to check the voucher locally.
	FacilityID   string `json:"facility_id"`
	FieldGroupID string `json:"field_group_id"`
}

type countdownView struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	Running          bool `json:"running"`
	Expired          bool `json:"expired"`
}

type draftView struct {
	Draft     domain.BookingDraft  `json:"draft"`
	Pending   *services.DraftInput `json:"pending,omitempty"`
	Countdown countdownView        `json:"countdown"`
}

func newDraftView(ctrl *services.DraftController) draftView {
	remaining, running := ctrl.Countdown()
	return draftView{
		Draft:   ctrl.Snapshot(),
		Pending: ctrl.Pending(),
		Countdown: countdownView{
			RemainingSeconds: int(remaining / time.Second),
			Running:          running,
			Expired:          running && remaining <= 0,
		},
	}
}
