package ucp

import (
	"github.com/angelmondragon/ucp-shopper/pkg/enums"
)

// CheckoutSession is the merchant-authoritative snapshot of a cart in
// progress. Values are never mutated in place; every operation decodes a
// fresh snapshot from the merchant response.
type CheckoutSession struct {
	ID          string               `json:"id"`
	Status      enums.CheckoutStatus `json:"status"`
	Currency    string               `json:"currency,omitempty"`
	Buyer       *Buyer               `json:"buyer,omitempty"`
	LineItems   []LineItem           `json:"line_items,omitempty"`
	Totals      []TotalsEntry        `json:"totals,omitempty"`
	Discounts   *Discounts           `json:"discounts,omitempty"`
	Payment     *Payment             `json:"payment,omitempty"`
	Fulfillment *Fulfillment         `json:"fulfillment,omitempty"`
	Order       *Order               `json:"order,omitempty"`
}

// Total returns the amount of the first totals entry tagged "total", or 0
// when absent. The merchant owns the arithmetic; this is a lookup only.
func (s *CheckoutSession) Total() int64 {
	return s.totalOfType(enums.TotalsTypeTotal)
}

// Subtotal returns the first "subtotal" entry's amount, or 0 when absent.
func (s *CheckoutSession) Subtotal() int64 {
	return s.totalOfType(enums.TotalsTypeSubtotal)
}

// DiscountAmount returns the first "discount" entry's amount, or 0 when absent.
func (s *CheckoutSession) DiscountAmount() int64 {
	return s.totalOfType(enums.TotalsTypeDiscount)
}

func (s *CheckoutSession) totalOfType(totalsType enums.TotalsType) int64 {
	if s == nil {
		return 0
	}
	for _, entry := range s.Totals {
		if entry.Type == totalsType {
			return entry.Amount
		}
	}
	return 0
}

// LineItem is one purchasable line. The item descriptor is merchant-defined
// and carried opaquely so updates can resend it without losing fields this
// client does not model.
type LineItem struct {
	ID       string         `json:"id,omitempty"`
	Item     map[string]any `json:"item"`
	Quantity int            `json:"quantity"`
	Totals   []TotalsEntry  `json:"totals,omitempty"`
}

// TotalsEntry is a named monetary figure in minor currency units.
type TotalsEntry struct {
	Type   enums.TotalsType `json:"type"`
	Amount int64            `json:"amount"`
}

// Buyer identifies the purchaser on a checkout session.
type Buyer struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Payment is the session's payment block. Instruments and handlers stay
// opaque; the protocol requires resending them verbatim on updates.
type Payment struct {
	Instruments []map[string]any `json:"instruments"`
	Handlers    []map[string]any `json:"handlers"`
}

// EmptyPayment returns a payment block with non-nil, empty collections,
// the shape the protocol expects when no instrument has been attached.
func EmptyPayment() *Payment {
	return &Payment{
		Instruments: []map[string]any{},
		Handlers:    []map[string]any{},
	}
}

// Discounts tracks requested codes and what the merchant actually applied.
type Discounts struct {
	Codes   []string          `json:"codes,omitempty"`
	Applied []AppliedDiscount `json:"applied,omitempty"`
}

// AppliedDiscount is one promo the merchant accepted.
type AppliedDiscount struct {
	Code      string `json:"code"`
	Title     string `json:"title,omitempty"`
	Amount    int64  `json:"amount"`
	Automatic bool   `json:"automatic,omitempty"`
}

// Fulfillment is the shipping negotiation state. Its shape grows across
// negotiation rounds: first destinations, then option groups.
type Fulfillment struct {
	Methods []FulfillmentMethod `json:"methods,omitempty"`
}

// FulfillmentMethod is one way the merchant can deliver line items.
type FulfillmentMethod struct {
	ID                    string                      `json:"id,omitempty"`
	Type                  enums.FulfillmentMethodType `json:"type"`
	Destinations          []Destination               `json:"destinations,omitempty"`
	SelectedDestinationID string                      `json:"selected_destination_id,omitempty"`
	Groups                []OptionGroup               `json:"groups,omitempty"`
}

// Destination is a candidate shipping destination offered by the merchant.
type Destination struct {
	ID      string         `json:"id"`
	Address map[string]any `json:"address,omitempty"`
}

// OptionGroup holds the delivery options available for a selected destination.
type OptionGroup struct {
	ID               string              `json:"id,omitempty"`
	Options          []FulfillmentOption `json:"options,omitempty"`
	SelectedOptionID string              `json:"selected_option_id,omitempty"`
}

// FulfillmentOption is one concrete delivery choice within a group.
type FulfillmentOption struct {
	ID     string        `json:"id"`
	Title  string        `json:"title,omitempty"`
	Totals []TotalsEntry `json:"totals,omitempty"`
}

// Order is the post-completion receipt.
type Order struct {
	ID           string `json:"id,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
}

// CreateCheckoutRequest is the POST /checkout-sessions body.
type CreateCheckoutRequest struct {
	LineItems []LineItem `json:"line_items"`
	Buyer     Buyer      `json:"buyer"`
	Currency  string     `json:"currency"`
	Payment   Payment    `json:"payment"`
}

// UpdateCheckoutRequest is the PUT /checkout-sessions/{id} body. The
// endpoint takes a full resource, not a diff: required fields omitted here
// are treated as cleared by the merchant, which is why updates go through
// the merger rather than being built by hand.
type UpdateCheckoutRequest struct {
	ID          string         `json:"id"`
	LineItems   []LineItem     `json:"line_items,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Payment     *Payment       `json:"payment,omitempty"`
	Discounts   *DiscountCodes `json:"discounts,omitempty"`
	Fulfillment *Fulfillment   `json:"fulfillment,omitempty"`
}

// DiscountCodes is the discounts block of an update request.
type DiscountCodes struct {
	Codes []string `json:"codes"`
}

// CompleteCheckoutRequest is the POST /checkout-sessions/{id}/complete body.
type CompleteCheckoutRequest struct {
	PaymentData PaymentData  `json:"payment_data"`
	RiskSignals []RiskSignal `json:"risk_signals"`
}

// PaymentData carries the caller-selected handler and card credential.
type PaymentData struct {
	ID             string     `json:"id"`
	HandlerID      string     `json:"handler_id"`
	HandlerName    string     `json:"handler_name"`
	Type           string     `json:"type"`
	Brand          string     `json:"brand,omitempty"`
	LastDigits     string     `json:"last_digits,omitempty"`
	Credential     Credential `json:"credential"`
	BillingAddress Address    `json:"billing_address"`
}

// Credential is an opaque payment token reference.
type Credential struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Address is a postal address block.
type Address struct {
	FullName   string `json:"full_name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// RiskSignal is a basic fraud signal forwarded with the payment submission.
type RiskSignal struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
