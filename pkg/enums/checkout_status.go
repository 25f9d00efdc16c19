package enums

// CheckoutStatus is the server-reported lifecycle state of a checkout
// session. The merchant owns this value; statuses outside the known set
// are carried through verbatim rather than rejected.
type CheckoutStatus string

const (
	CheckoutStatusOpen             CheckoutStatus = "open"
	CheckoutStatusReadyForComplete CheckoutStatus = "ready_for_complete"
	CheckoutStatusComplete         CheckoutStatus = "complete"
)

var knownCheckoutStatuses = []CheckoutStatus{
	CheckoutStatusOpen,
	CheckoutStatusReadyForComplete,
	CheckoutStatusComplete,
}

// String implements fmt.Stringer.
func (s CheckoutStatus) String() string {
	return string(s)
}

// IsKnown reports whether the status is one this client understands.
func (s CheckoutStatus) IsKnown() bool {
	for _, candidate := range knownCheckoutStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
