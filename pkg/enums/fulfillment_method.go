package enums

// FulfillmentMethodType identifies how a merchant delivers line items.
type FulfillmentMethodType string

const (
	FulfillmentMethodShipping FulfillmentMethodType = "shipping"
	FulfillmentMethodPickup   FulfillmentMethodType = "pickup"
)

// String implements fmt.Stringer.
func (m FulfillmentMethodType) String() string {
	return string(m)
}
