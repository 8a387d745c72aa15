package domain

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseEmpty          Phase = "EMPTY"
	PhaseDraft          Phase = "DRAFT"
	PhaseFieldsSet      Phase = "FIELDS_SET"
	PhaseServicesSet    Phase = "SERVICES_SET"
	PhasePaymentPending Phase = "PAYMENT_PENDING"
)

// HoldsDraft reports whether a draft exists on the reservation service.
func (p Phase) HoldsDraft() bool {
	return p != PhaseEmpty && p != ""
}

// Abandonable reports whether a draft in this phase must be deleted when the
// owning session ends.
func (p Phase) Abandonable() bool {
	return p == PhaseDraft || p == PhaseFieldsSet || p == PhaseServicesSet
}

// BookingDraft is a provisional reservation that is not paid yet. Transition
// methods return a new value and never modify the receiver.
type BookingDraft struct {
	ID            string             `json:"id,omitempty"`
	SportID       string             `json:"sport_id,omitempty"`
	TimeRange     TimeRange          `json:"time_range"`
	Dates         DateSeries         `json:"dates,omitempty"`
	FieldByDate   map[Date]string    `json:"field_by_date,omitempty"`
	Services      []ServiceSelection `json:"services,omitempty"`
	PaymentHandle string             `json:"payment_handle,omitempty"`
	Phase         Phase              `json:"phase"`
	CreatedAt     time.Time          `json:"created_at,omitempty"`
}

func EmptyDraft() BookingDraft {
	return BookingDraft{Phase: PhaseEmpty}
}

func (d BookingDraft) Clone() BookingDraft {
	out := d
	out.Dates = append(DateSeries(nil), d.Dates...)
	out.Services = append([]ServiceSelection(nil), d.Services...)
	if d.FieldByDate != nil {
		out.FieldByDate = make(map[Date]string, len(d.FieldByDate))
		for k, v := range d.FieldByDate {
			out.FieldByDate[k] = v
		}
	}
	return out
}

// Created records a draft freshly issued by the reservation service.
func (d BookingDraft) Created(id, paymentHandle string, at time.Time) BookingDraft {
	out := d.Clone()
	out.ID = id
	out.PaymentHandle = paymentHandle
	out.CreatedAt = at
	out.Phase = PhaseDraft
	return out
}

func (d BookingDraft) FieldsAssigned(fieldByDate map[Date]string, paymentHandle string) BookingDraft {
	out := d.Clone()
	out.FieldByDate = make(map[Date]string, len(fieldByDate))
	for k, v := range fieldByDate {
		out.FieldByDate[k] = v
	}
	if paymentHandle != "" {
		out.PaymentHandle = paymentHandle
	}
	if out.Phase == PhaseDraft {
		out.Phase = PhaseFieldsSet
	}
	return out
}

func (d BookingDraft) ServicesAttached(services []ServiceSelection, paymentHandle string) BookingDraft {
	out := d.Clone()
	out.Services = append([]ServiceSelection(nil), services...)
	if paymentHandle != "" {
		out.PaymentHandle = paymentHandle
	}
	out.Phase = PhaseServicesSet
	return out
}

func (d BookingDraft) PaymentInitiated() BookingDraft {
	out := d.Clone()
	out.Phase = PhasePaymentPending
	return out
}

// SlotsFor pairs every date with its field. Each date needs exactly one
// field and the map may not reference dates outside the series.
func SlotsFor(dates DateSeries, fieldByDate map[Date]string) ([]FieldSlot, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no dates", ErrIncompleteSlots)
	}
	out := make([]FieldSlot, 0, len(dates))
	for _, date := range dates {
		field, ok := fieldByDate[date]
		if !ok || field == "" {
			return nil, fmt.Errorf("%w: no field for %s", ErrIncompleteSlots, date)
		}
		out = append(out, FieldSlot{Date: date, FieldID: field})
	}
	for date := range fieldByDate {
		if !dates.Contains(date) {
			return nil, fmt.Errorf("%w: %s is not a booked date", ErrIncompleteSlots, date)
		}
	}
	return out, nil
}
