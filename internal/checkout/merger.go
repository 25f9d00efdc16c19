package checkout

import (
	"context"

	"github.com/angelmondragon/ucp-shopper/pkg/ucp"
)

// Change is the caller's intended delta for an update. Nil fields mean
// "leave as is"; the merger carries the rest forward from the latest
// merchant snapshot.
type Change struct {
	DiscountCodes []string
	LineItems     []ucp.LineItem
}

// MergeUpdate synthesizes the full-resource PUT body the protocol
// requires from the last known snapshot plus the intended change. The
// update endpoint is not a true PATCH: omitted required fields read as
// "clear", so currency, payment, and line items are resent even when the
// caller only wants to touch discounts.
func MergeUpdate(checkoutID string, snapshot *ucp.CheckoutSession, change Change, defaultCurrency string) ucp.UpdateCheckoutRequest {
	req := ucp.UpdateCheckoutRequest{ID: checkoutID}

	switch {
	case change.LineItems != nil:
		req.LineItems = change.LineItems
	case snapshot != nil && len(snapshot.LineItems) > 0:
		req.LineItems = snapshot.LineItems
	}

	req.Currency = defaultCurrency
	if snapshot != nil && snapshot.Currency != "" {
		req.Currency = snapshot.Currency
	}

	req.Payment = ucp.EmptyPayment()
	if snapshot != nil && snapshot.Payment != nil {
		req.Payment = snapshot.Payment
	}

	// Omitting the discounts block leaves server-side discount state
	// untouched; an empty codes list is never synthesized.
	if len(change.DiscountCodes) > 0 {
		req.Discounts = &ucp.DiscountCodes{Codes: change.DiscountCodes}
	}

	return req
}

// freshSnapshot fetches the current session state ahead of an update. A
// fetch failure downgrades to a nil snapshot: the subsequent PUT then
// fails server-side with a clearer validation error than aborting here
// would produce.
func (s *service) freshSnapshot(ctx context.Context, merchantURL, checkoutID string) *ucp.CheckoutSession {
	snapshot, err := s.client.GetCheckout(ctx, merchantURL, checkoutID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(s.logger.WithCheckoutID(ctx, checkoutID), "snapshot fetch failed, updating without carry-forward")
		}
		return nil
	}
	return snapshot
}
