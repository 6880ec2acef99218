package domain

// BoxType is the closed set of box kinds a provider can publish.
type BoxType int

const (
	BoxStandard BoxType = 1
	BoxVegan    BoxType = 2
	BoxDiabetic BoxType = 3
)

// ParseBoxType maps the wire code (1|2|3) to a BoxType.
func ParseBoxType(code int) (BoxType, bool) {
	switch BoxType(code) {
	case BoxStandard, BoxVegan, BoxDiabetic:
		return BoxType(code), true
	}
	return 0, false
}

// BoxTypeFromName maps a stored type string back to a BoxType.
func BoxTypeFromName(name string) (BoxType, bool) {
	switch name {
	case "Standard":
		return BoxStandard, true
	case "Vegan":
		return BoxVegan, true
	case "Diabetic":
		return BoxDiabetic, true
	}
	return 0, false
}

func (t BoxType) Name() string {
	switch t {
	case BoxStandard:
		return "Standard"
	case BoxVegan:
		return "Vegan"
	case BoxDiabetic:
		return "Diabetic"
	}
	return ""
}

// QuantityColumn returns the fixed weekly_plans column holding this type's
// remaining units. The selector is a closed enum; no caller-supplied string
// ever reaches SQL text.
func (t BoxType) QuantityColumn() string {
	switch t {
	case BoxVegan:
		return "vegan_quantity"
	case BoxDiabetic:
		return "diabetic_quantity"
	default:
		return "standard_quantity"
	}
}

// AllBoxTypes in catalog order.
func AllBoxTypes() []BoxType { return []BoxType{BoxStandard, BoxVegan, BoxDiabetic} }

// Reservation status values as stored. The machine only moves forward:
// active -> ready -> issued.
const (
	StatusActive = "active"
	StatusReady  = "ready"
	StatusIssued = "issued"
)

// StatusLabel translates a stored status into its user-facing label.
func StatusLabel(status string) string {
	switch status {
	case StatusActive:
		return "Reserved"
	case StatusReady:
		return "Ready for Pickup"
	case StatusIssued:
		return "Delivered"
	}
	return status
}

type Box struct {
	ID          int64  `db:"id"`
	ProviderID  int64  `db:"provider_id"`
	Type        string `db:"type"`
	Description string `db:"description"`
}

type WeeklyPlan struct {
	ProviderID       int64  `db:"provider_id"`
	WeekStart        string `db:"week_start"` // YYYY-MM-DD
	StandardQuantity int    `db:"standard_quantity"`
	VeganQuantity    int    `db:"vegan_quantity"`
	DiabeticQuantity int    `db:"diabetic_quantity"`
	PickupTime       string `db:"pickup_time"` // HH:MM
}

type Reservation struct {
	ID              int64   `db:"id"`
	UserID          int64   `db:"user_id"`
	ProviderID      int64   `db:"provider_id"`
	BoxID           int64   `db:"box_id"`
	ReservationDate string  `db:"reservation_date"`
	Quantity        int     `db:"quantity"`
	Status          string  `db:"status"`
	IssuedDate      *string `db:"issued_date"`
}
