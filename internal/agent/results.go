package agent

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/ucp-shopper/pkg/errors"
	"github.com/angelmondragon/ucp-shopper/pkg/ucp"
)

// ErrorResult is the structured failure every operation returns instead of
// letting a fault escape the boundary.
type ErrorResult struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
}

type DiscoverResult struct {
	UCPVersion      string              `json:"ucp_version"`
	Capabilities    []CapabilityResult  `json:"capabilities"`
	PaymentHandlers []PaymentHandlerRef `json:"payment_handlers"`
}

type CapabilityResult struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Spec    string `json:"spec,omitempty"`
}

type PaymentHandlerRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type LineItemResult struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Quantity int    `json:"quantity"`
}

type CreateCheckoutResult struct {
	CheckoutID   string           `json:"checkout_id"`
	Status       string           `json:"status"`
	Currency     string           `json:"currency"`
	Total        int64            `json:"total"`
	Subtotal     int64            `json:"subtotal"`
	TotalDisplay string           `json:"total_display"`
	LineItems    []LineItemResult `json:"line_items"`
}

type UpdateCheckoutResult struct {
	CheckoutID      string         `json:"checkout_id"`
	Status          string         `json:"status"`
	Currency        string         `json:"currency"`
	Total           int64          `json:"total"`
	Subtotal        int64          `json:"subtotal"`
	DiscountApplied int64          `json:"discount_applied"`
	TotalDisplay    string         `json:"total_display"`
	Discounts       *ucp.Discounts `json:"discounts,omitempty"`
}

type FulfillmentResult struct {
	CheckoutID   string           `json:"checkout_id"`
	Status       string           `json:"status"`
	Currency     string           `json:"currency"`
	Total        int64            `json:"total"`
	TotalDisplay string           `json:"total_display"`
	Fulfillment  *ucp.Fulfillment `json:"fulfillment,omitempty"`
}

type CompleteCheckoutResult struct {
	CheckoutID   string `json:"checkout_id"`
	Status       string `json:"status"`
	Currency     string `json:"currency"`
	Total        int64  `json:"total"`
	TotalDisplay string `json:"total_display"`
	OrderID      string `json:"order_id,omitempty"`
	OrderURL     string `json:"order_url,omitempty"`
}

// formatAmount renders a minor-unit amount for human consumption, e.g.
// 3150 USD -> "31.50 USD".
func formatAmount(amount int64, currency string) string {
	display := decimal.NewFromInt(amount).Shift(-2).StringFixed(2)
	if currency == "" {
		return display
	}
	return fmt.Sprintf("%s %s", display, currency)
}

func newCreateResult(session *ucp.CheckoutSession) *CreateCheckoutResult {
	items := make([]LineItemResult, 0, len(session.LineItems))
	for _, line := range session.LineItems {
		items = append(items, lineItemResult(line))
	}
	return &CreateCheckoutResult{
		CheckoutID:   session.ID,
		Status:       session.Status.String(),
		Currency:     session.Currency,
		Total:        session.Total(),
		Subtotal:     session.Subtotal(),
		TotalDisplay: formatAmount(session.Total(), session.Currency),
		LineItems:    items,
	}
}

func lineItemResult(line ucp.LineItem) LineItemResult {
	result := LineItemResult{Quantity: line.Quantity}
	if id, ok := line.Item["id"].(string); ok {
		result.ID = id
	}
	if title, ok := line.Item["title"].(string); ok {
		result.Title = title
	}
	return result
}

func newUpdateResult(session *ucp.CheckoutSession) *UpdateCheckoutResult {
	return &UpdateCheckoutResult{
		CheckoutID:      session.ID,
		Status:          session.Status.String(),
		Currency:        session.Currency,
		Total:           session.Total(),
		Subtotal:        session.Subtotal(),
		DiscountApplied: session.DiscountAmount(),
		TotalDisplay:    formatAmount(session.Total(), session.Currency),
		Discounts:       session.Discounts,
	}
}

func newFulfillmentResult(session *ucp.CheckoutSession) *FulfillmentResult {
	return &FulfillmentResult{
		CheckoutID:   session.ID,
		Status:       session.Status.String(),
		Currency:     session.Currency,
		Total:        session.Total(),
		TotalDisplay: formatAmount(session.Total(), session.Currency),
		Fulfillment:  session.Fulfillment,
	}
}

func newCompleteResult(session *ucp.CheckoutSession) *CompleteCheckoutResult {
	result := &CompleteCheckoutResult{
		CheckoutID:   session.ID,
		Status:       session.Status.String(),
		Currency:     session.Currency,
		Total:        session.Total(),
		TotalDisplay: formatAmount(session.Total(), session.Currency),
	}
	if session.Order != nil {
		result.OrderID = session.Order.ID
		result.OrderURL = session.Order.PermalinkURL
	}
	return result
}

func newDiscoverResult(discovery *ucp.Discovery) *DiscoverResult {
	capabilities := make([]CapabilityResult, 0, len(discovery.Capabilities))
	for _, capability := range discovery.Capabilities {
		capabilities = append(capabilities, CapabilityResult{
			Name:    capability.Name,
			Version: capability.Version,
			Spec:    capability.Spec,
		})
	}
	handlers := make([]PaymentHandlerRef, 0, len(discovery.PaymentHandlers))
	for _, handler := range discovery.PaymentHandlers {
		handlers = append(handlers, PaymentHandlerRef{
			ID:      handler.ID,
			Name:    handler.Name,
			Version: handler.Version,
		})
	}
	return &DiscoverResult{
		UCPVersion:      discovery.Version,
		Capabilities:    capabilities,
		PaymentHandlers: handlers,
	}
}

func failureFrom(err error) *ErrorResult {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected failure")
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	result := &ErrorResult{
		Error:     typed.Error(),
		Code:      string(typed.Code()),
		Retryable: meta.Retryable,
	}
	if meta.DetailsAllowed {
		if typed.Code() == pkgerrors.CodeProtocol {
			result.Details = map[string]any{
				"status": typed.HTTPStatus(),
				"body":   typed.ResponseBody(),
			}
		} else if typed.Details() != nil {
			result.Details = typed.Details()
		}
	}
	return result
}
