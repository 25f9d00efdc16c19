// Package agent is the boundary consumed by a tool-calling front end. Every
// operation returns either a structured result or an ErrorResult; no fault
// propagates past this package.
package agent

import (
	"context"
	"fmt"

	"github.com/angelmondragon/ucp-shopper/internal/checkout"
	pkgerrors "github.com/angelmondragon/ucp-shopper/pkg/errors"
	"github.com/angelmondragon/ucp-shopper/pkg/logger"
)

type Agent struct {
	service checkout.Service
	logger  *logger.Logger
}

// New builds the tool-facing agent over the checkout orchestrator.
func New(service checkout.Service, logg *logger.Logger) (*Agent, error) {
	if service == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	return &Agent{service: service, logger: logg}, nil
}

// Discover reports a merchant's capabilities and accepted payment handlers.
func (a *Agent) Discover(ctx context.Context, req DiscoverRequest) (result *DiscoverResult, failure *ErrorResult) {
	defer a.recoverTo(ctx, "discover", &failure)

	if err := validateRequest(req); err != nil {
		return nil, failureFrom(err)
	}
	discovery, err := a.service.Discover(ctx, req.MerchantURL)
	if err != nil {
		return nil, a.reportFailure(ctx, "discover", err)
	}
	return newDiscoverResult(discovery), nil
}

// CreateCheckout opens a checkout session for the requested items.
func (a *Agent) CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (result *CreateCheckoutResult, failure *ErrorResult) {
	defer a.recoverTo(ctx, "create_checkout", &failure)

	if err := validateRequest(req); err != nil {
		return nil, failureFrom(err)
	}

	items := make([]checkout.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, checkout.ItemInput{
			ID:       item.ID,
			Title:    item.Title,
			Quantity: item.Quantity,
		})
	}

	session, err := a.service.Create(ctx, req.MerchantURL, checkout.CreateInput{
		Items:      items,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		Currency:   req.Currency,
	})
	if err != nil {
		return nil, a.reportFailure(ctx, "create_checkout", err)
	}
	return newCreateResult(session), nil
}

// UpdateCheckout applies discount codes to an existing session.
func (a *Agent) UpdateCheckout(ctx context.Context, req UpdateCheckoutRequest) (result *UpdateCheckoutResult, failure *ErrorResult) {
	defer a.recoverTo(ctx, "update_checkout", &failure)

	if err := validateRequest(req); err != nil {
		return nil, failureFrom(err)
	}
	session, err := a.service.Update(ctx, req.MerchantURL, req.CheckoutID, checkout.Change{
		DiscountCodes: req.DiscountCodes,
	})
	if err != nil {
		return nil, a.reportFailure(ctx, "update_checkout", err)
	}
	return newUpdateResult(session), nil
}

// NegotiateFulfillment selects a shipping destination and option for the
// session, when the merchant requires one.
func (a *Agent) NegotiateFulfillment(ctx context.Context, req FulfillmentRequest) (result *FulfillmentResult, failure *ErrorResult) {
	defer a.recoverTo(ctx, "negotiate_fulfillment", &failure)

	if err := validateRequest(req); err != nil {
		return nil, failureFrom(err)
	}
	session, err := a.service.NegotiateFulfillment(ctx, req.MerchantURL, req.CheckoutID)
	if err != nil {
		return nil, a.reportFailure(ctx, "negotiate_fulfillment", err)
	}
	return newFulfillmentResult(session), nil
}

// CompleteCheckout submits payment and finalizes the purchase.
func (a *Agent) CompleteCheckout(ctx context.Context, req CompleteCheckoutRequest) (result *CompleteCheckoutResult, failure *ErrorResult) {
	defer a.recoverTo(ctx, "complete_checkout", &failure)

	if err := validateRequest(req); err != nil {
		return nil, failureFrom(err)
	}
	req.applyDefaults()

	session, err := a.service.Complete(ctx, req.MerchantURL, req.CheckoutID, checkout.PaymentInput{
		HandlerID:  req.HandlerID,
		Token:      req.CardToken,
		Brand:      req.CardBrand,
		LastDigits: req.CardLastDigits,
	})
	if err != nil {
		return nil, a.reportFailure(ctx, "complete_checkout", err)
	}
	return newCompleteResult(session), nil
}

func (a *Agent) reportFailure(ctx context.Context, op string, err error) *ErrorResult {
	if a.logger != nil {
		a.logger.Error(a.logger.WithField(ctx, "operation", op), "agent operation failed", err)
	}
	return failureFrom(err)
}

func (a *Agent) recoverTo(ctx context.Context, op string, failure **ErrorResult) {
	rec := recover()
	if rec == nil {
		return
	}
	err := fmt.Errorf("panic: %v", rec)
	if a.logger != nil {
		a.logger.Error(a.logger.WithField(ctx, "operation", op), "panic.recovered", err)
	}
	*failure = failureFrom(pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
}
