package enums

import "fmt"

// TotalsType tags a monetary figure in a session's totals list.
type TotalsType string

const (
	TotalsTypeSubtotal    TotalsType = "subtotal"
	TotalsTypeDiscount    TotalsType = "discount"
	TotalsTypeFulfillment TotalsType = "fulfillment"
	TotalsTypeTax         TotalsType = "tax"
	TotalsTypeTotal       TotalsType = "total"
)

var validTotalsTypes = []TotalsType{
	TotalsTypeSubtotal,
	TotalsTypeDiscount,
	TotalsTypeFulfillment,
	TotalsTypeTax,
	TotalsTypeTotal,
}

// String implements fmt.Stringer.
func (t TotalsType) String() string {
	return string(t)
}

// IsValid reports whether the totals type is recognized.
func (t TotalsType) IsValid() bool {
	for _, candidate := range validTotalsTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTotalsType converts a raw string into a TotalsType.
func ParseTotalsType(value string) (TotalsType, error) {
	for _, candidate := range validTotalsTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid totals type %q", value)
}
