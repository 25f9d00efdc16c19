package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/ucp-shopper/pkg/logger"
	"github.com/angelmondragon/ucp-shopper/pkg/ucp"
)

// sessionClient is the subset of merchant operations the orchestrator
// relies on.
type sessionClient interface {
	Discover(ctx context.Context, merchantURL string) (*ucp.Discovery, error)
	CreateCheckout(ctx context.Context, merchantURL string, req ucp.CreateCheckoutRequest) (*ucp.CheckoutSession, error)
	GetCheckout(ctx context.Context, merchantURL, checkoutID string) (*ucp.CheckoutSession, error)
	UpdateCheckout(ctx context.Context, merchantURL string, req ucp.UpdateCheckoutRequest) (*ucp.CheckoutSession, error)
	CompleteCheckout(ctx context.Context, merchantURL, checkoutID string, req ucp.CompleteCheckoutRequest) (*ucp.CheckoutSession, error)
}

// Service sequences a checkout session's lifecycle against one merchant.
// It holds no state between calls; the merchant is the sole source of
// truth for session state.
type Service interface {
	Discover(ctx context.Context, merchantURL string) (*ucp.Discovery, error)
	Create(ctx context.Context, merchantURL string, input CreateInput) (*ucp.CheckoutSession, error)
	Update(ctx context.Context, merchantURL, checkoutID string, change Change) (*ucp.CheckoutSession, error)
	NegotiateFulfillment(ctx context.Context, merchantURL, checkoutID string) (*ucp.CheckoutSession, error)
	Complete(ctx context.Context, merchantURL, checkoutID string, payment PaymentInput) (*ucp.CheckoutSession, error)
}

// CreateInput captures the caller's intent for a new session.
type CreateInput struct {
	Items      []ItemInput
	BuyerName  string
	BuyerEmail string
	Currency   string
}

// ItemInput is one purchasable item requested by the caller.
type ItemInput struct {
	ID       string
	Title    string
	Quantity int
}

// PaymentInput selects the handler and credential used to complete a session.
type PaymentInput struct {
	HandlerID   string
	HandlerName string
	Token       string
	Brand       string
	LastDigits  string
}

type service struct {
	client          sessionClient
	logger          *logger.Logger
	defaultCurrency string
}

// NewService builds the checkout orchestrator.
func NewService(client sessionClient, logg *logger.Logger, defaultCurrency string) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("session client required")
	}
	currency := strings.TrimSpace(defaultCurrency)
	if currency == "" {
		currency = "USD"
	}
	return &service{
		client:          client,
		logger:          logg,
		defaultCurrency: currency,
	}, nil
}

func (s *service) Discover(ctx context.Context, merchantURL string) (*ucp.Discovery, error) {
	return s.client.Discover(ctx, merchantURL)
}

func (s *service) Create(ctx context.Context, merchantURL string, input CreateInput) (*ucp.CheckoutSession, error) {
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}

	lineItems := make([]ucp.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		descriptor := map[string]any{"id": item.ID}
		if item.Title != "" {
			descriptor["title"] = item.Title
		}
		lineItems = append(lineItems, ucp.LineItem{
			Item:     descriptor,
			Quantity: item.Quantity,
		})
	}

	return s.client.CreateCheckout(ctx, merchantURL, ucp.CreateCheckoutRequest{
		LineItems: lineItems,
		Buyer: ucp.Buyer{
			FullName: input.BuyerName,
			Email:    input.BuyerEmail,
		},
		Currency: currency,
		Payment:  *ucp.EmptyPayment(),
	})
}

func (s *service) Update(ctx context.Context, merchantURL, checkoutID string, change Change) (*ucp.CheckoutSession, error) {
	snapshot := s.freshSnapshot(ctx, merchantURL, checkoutID)
	req := MergeUpdate(checkoutID, snapshot, change, s.defaultCurrency)
	return s.client.UpdateCheckout(ctx, merchantURL, req)
}

// placeholderBillingAddress stands in for a real billing address; this
// reference client has no wallet to draw one from.
var placeholderBillingAddress = ucp.Address{
	FullName:   "UCP Shopper",
	Line1:      "123 Market Street",
	City:       "San Francisco",
	State:      "CA",
	Country:    "US",
	PostalCode: "94103",
}

var defaultRiskSignals = []ucp.RiskSignal{
	{Type: "session", Value: "automated_agent"},
}

func (s *service) Complete(ctx context.Context, merchantURL, checkoutID string, payment PaymentInput) (*ucp.CheckoutSession, error) {
	handlerName := payment.HandlerName
	if handlerName == "" {
		handlerName = payment.HandlerID
	}

	req := ucp.CompleteCheckoutRequest{
		PaymentData: ucp.PaymentData{
			ID:          uuid.NewString(),
			HandlerID:   payment.HandlerID,
			HandlerName: handlerName,
			Type:        "card",
			Brand:       payment.Brand,
			LastDigits:  payment.LastDigits,
			Credential: ucp.Credential{
				Type:  "token",
				Token: payment.Token,
			},
			BillingAddress: placeholderBillingAddress,
		},
		RiskSignals: defaultRiskSignals,
	}

	return s.client.CompleteCheckout(ctx, merchantURL, checkoutID, req)
}
