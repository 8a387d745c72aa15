package services

import (
	"fmt"
	"math"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
)

const (
	// PointValue is the amount one loyalty point is worth.
	PointValue = 1000
	// peakSampleMinutes is the resolution at which a booking is matched
	// against peak windows.
	peakSampleMinutes = 30
)

// PricingCalculator mirrors the total the reservation service will charge so
// the interface can show it before payment. It holds no state.
type PricingCalculator struct{}

func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

// ComputeFieldCost prices one booking window on one field group, then
// multiplies by the number of booked dates. Overlapping peak windows are
// each charged in full. Only the first domain.MaxPeakWindows windows of an
// offer are charged.
func (c *PricingCalculator) ComputeFieldCost(offer domain.FieldGroupOffer, window domain.TimeRange, dateCount int) domain.FieldCost {
	base := offer.BasePricePerHour * window.Hours()

	peaks := offer.PeakWindows
	if len(peaks) > domain.MaxPeakWindows {
		peaks = peaks[:domain.MaxPeakWindows]
	}
	detail := make([]domain.PeakCharge, 0, len(peaks))
	surcharge := 0.0
	for _, pw := range peaks {
		hours := peakOverlapHours(window, pw)
		amount := round2(hours * pw.SurchargePerHour)
		detail = append(detail, domain.PeakCharge{Window: pw, OverlapHours: hours, Amount: amount})
		surcharge += amount
	}

	daily := round2(base + surcharge)
	if dateCount < 0 {
		dateCount = 0
	}
	return domain.FieldCost{
		PerDateFieldCost:      round2(base),
		PeakSurchargeDetail:   detail,
		DailyFieldTotal:       daily,
		FieldTotalAcrossDates: round2(daily * float64(dateCount)),
	}
}

// peakOverlapHours counts the half-hour slices of the window lying entirely
// inside the peak window, boundaries included.
func peakOverlapHours(window domain.TimeRange, pw domain.PeakWindow) float64 {
	matched := 0
	for t := window.Start; t+peakSampleMinutes <= window.End; t += peakSampleMinutes {
		if t >= pw.Start && t+peakSampleMinutes <= pw.End {
			matched++
		}
	}
	return float64(matched) / 2
}

// ComputeServiceCost sums catalog price times quantity. The result is charged
// once per booking regardless of how many dates it spans.
func (c *PricingCalculator) ComputeServiceCost(selections []domain.ServiceSelection, catalog []domain.ServiceCatalogEntry) (float64, error) {
	prices := make(map[string]float64, len(catalog))
	for _, entry := range catalog {
		prices[entry.ID] = entry.Price
	}

	total := 0.0
	for _, sel := range selections {
		if sel.Quantity <= 0 {
			return 0, fmt.Errorf("%w: %d for service %s", domain.ErrInvalidQuantity, sel.Quantity, sel.ServiceID)
		}
		price, ok := prices[sel.ServiceID]
		if !ok {
			return 0, fmt.Errorf("%w: %s", domain.ErrUnknownService, sel.ServiceID)
		}
		total += price * float64(sel.Quantity)
	}
	return round2(total), nil
}

// ComputeGrandTotal applies the voucher, then the redeemed points, to the
// subtotal. Both discounts are bounded by what is left to pay.
func (c *PricingCalculator) ComputeGrandTotal(fieldTotal, serviceTotal float64, voucher *domain.Voucher, points int) (domain.PricingBreakdown, error) {
	if points < 0 {
		return domain.PricingBreakdown{}, fmt.Errorf("%w: %d points", domain.ErrInvalidQuantity, points)
	}
	subtotal := fieldTotal + serviceTotal

	voucherDiscount, err := voucherDiscountFor(voucher, subtotal)
	if err != nil {
		return domain.PricingBreakdown{}, err
	}

	pointDiscount := math.Max(0, math.Min(float64(points)*PointValue, subtotal-voucherDiscount))

	return domain.PricingBreakdown{
		FieldCost:       domain.FieldCost{FieldTotalAcrossDates: round2(fieldTotal)},
		ServiceTotal:    round2(serviceTotal),
		VoucherDiscount: round2(voucherDiscount),
		PointDiscount:   round2(pointDiscount),
		GrandTotal:      round2(math.Max(0, subtotal-voucherDiscount-pointDiscount)),
	}, nil
}

// voucherDiscountFor returns the amount v takes off subtotal. A nil voucher
// discounts nothing.
func voucherDiscountFor(v *domain.Voucher, subtotal float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if subtotal < v.MinPrice {
		return 0, fmt.Errorf("%w: subtotal %.2f below minimum %.2f", domain.ErrVoucherNotApplicable, subtotal, v.MinPrice)
	}

	var discount float64
	switch v.Type {
	case domain.VoucherCash:
		discount = v.Discount
	case domain.VoucherPercent:
		discount = subtotal * v.Discount / 100
		if v.MaxDiscount > 0 {
			discount = math.Min(discount, v.MaxDiscount)
		}
	default:
		return 0, fmt.Errorf("%w: unknown voucher type %q", domain.ErrVoucherNotApplicable, v.Type)
	}
	return math.Max(0, math.Min(discount, subtotal)), nil
}

// QuoteInput gathers everything needed for a full breakdown.
type QuoteInput struct {
	Offer     domain.FieldGroupOffer
	Window    domain.TimeRange
	DateCount int
	Services  []domain.ServiceSelection
	Catalog   []domain.ServiceCatalogEntry
	Voucher   *domain.Voucher
	Points    int
}

// Quote rejects windows shorter than MinBookingDuration, which includes
// windows ending before they start.
func (c *PricingCalculator) Quote(in QuoteInput) (domain.PricingBreakdown, error) {
	if in.Window.Duration() < MinBookingDuration {
		return domain.PricingBreakdown{}, fmt.Errorf("%w: %s is shorter than %s", domain.ErrDurationTooShort, in.Window, MinBookingDuration)
	}
	fieldCost := c.ComputeFieldCost(in.Offer, in.Window, in.DateCount)

	serviceTotal, err := c.ComputeServiceCost(in.Services, in.Catalog)
	if err != nil {
		return domain.PricingBreakdown{}, err
	}

	out, err := c.ComputeGrandTotal(fieldCost.FieldTotalAcrossDates, serviceTotal, in.Voucher, in.Points)
	if err != nil {
		return domain.PricingBreakdown{}, err
	}
	out.FieldCost = fieldCost
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
