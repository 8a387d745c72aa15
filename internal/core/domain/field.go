package domain

type FieldStatus string

const (
	FieldAvailable   FieldStatus = "AVAILABLE"
	FieldBooked      FieldStatus = "BOOKED"
	FieldHeld        FieldStatus = "HELD"
	FieldMaintenance FieldStatus = "MAINTENANCE"
)

type FieldAvailability struct {
	FieldID string      `json:"field_id"`
	Name    string      `json:"name,omitempty"`
	Status  FieldStatus `json:"status"`
}

func (f FieldAvailability) IsAvailable() bool {
	return f.Status == FieldAvailable
}

// PeakWindow raises the hourly rate by SurchargePerHour between Start and End.
type PeakWindow struct {
	Start            TimeOfDay `json:"start"`
	End              TimeOfDay `json:"end"`
	SurchargePerHour float64   `json:"surcharge_per_hour"`
}

// MaxPeakWindows is the number of peak windows a field group can carry.
const MaxPeakWindows = 3

// FieldGroupOffer is a bookable field category with its pricing and a
// snapshot of per-date field availability. It is read-only to the engine.
type FieldGroupOffer struct {
	ID                  string                       `json:"id"`
	Name                string                       `json:"name,omitempty"`
	BasePricePerHour    float64                      `json:"base_price_per_hour"`
	PeakWindows         []PeakWindow                 `json:"peak_windows,omitempty"`
	PerDateAvailability map[Date][]FieldAvailability `json:"per_date_availability,omitempty"`
}

// AvailableFields lists the fields reported available on d.
func (o FieldGroupOffer) AvailableFields(d Date) []FieldAvailability {
	var out []FieldAvailability
	for _, f := range o.PerDateAvailability[d] {
		if f.IsAvailable() {
			out = append(out, f)
		}
	}
	return out
}

// Shift is one open/close pair of a facility day. Close is inclusive.
type Shift struct {
	Open  TimeOfDay `json:"open"`
	Close TimeOfDay `json:"close"`
}

func (s Shift) Contains(r TimeRange) bool {
	return r.Start >= s.Open && r.End <= s.Close
}

// OperatingHours holds up to three daily shifts.
type OperatingHours struct {
	Shifts []Shift `json:"shifts"`
}
