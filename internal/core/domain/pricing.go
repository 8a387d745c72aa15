package domain

// PeakCharge is the surcharge one peak window adds to a single date.
type PeakCharge struct {
	Window       PeakWindow `json:"window"`
	OverlapHours float64    `json:"overlap_hours"`
	Amount       float64    `json:"amount"`
}

type FieldCost struct {
	PerDateFieldCost      float64      `json:"per_date_field_cost"`
	PeakSurchargeDetail   []PeakCharge `json:"peak_surcharge_detail"`
	DailyFieldTotal       float64      `json:"daily_field_total"`
	FieldTotalAcrossDates float64      `json:"field_total_across_dates"`
}

// PricingBreakdown is derived on demand and never persisted.
// PerDateFieldCost is the base cost of one date before peak surcharges.
type PricingBreakdown struct {
	FieldCost
	ServiceTotal    float64 `json:"service_total"`
	VoucherDiscount float64 `json:"voucher_discount"`
	PointDiscount   float64 `json:"point_discount"`
	GrandTotal      float64 `json:"grand_total"`
}
