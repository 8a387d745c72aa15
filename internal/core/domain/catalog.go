package domain

type ServiceCatalogEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Unit  string  `json:"unit,omitempty"`
}

type ServiceSelection struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

type VoucherType string

const (
	VoucherCash    VoucherType = "cash"
	VoucherPercent VoucherType = "percent"
)

// Voucher is a discount instrument. For percent vouchers Discount is a
// percentage capped by MaxDiscount; for cash vouchers it is a flat amount.
type Voucher struct {
	ID          string      `json:"id"`
	Code        string      `json:"code,omitempty"`
	Type        VoucherType `json:"type"`
	Discount    float64     `json:"discount"`
	MaxDiscount float64     `json:"max_discount"`
	MinPrice    float64     `json:"min_price"`
}

type PaymentMethod string

const (
	PaymentVNPay PaymentMethod = "vnpay"
	PaymentMomo  PaymentMethod = "momo"
	PaymentCard  PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentVNPay, PaymentMomo, PaymentCard:
		return true
	}
	return false
}

// FieldSlot binds one field to one booked date.
type FieldSlot struct {
	Date    Date   `json:"date"`
	FieldID string `json:"field_id"`
}
