package ucp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const checkoutSessionsPath = "/checkout-sessions"

// CreateCheckout opens a new checkout session at the merchant.
func (c *Client) CreateCheckout(ctx context.Context, merchantURL string, req CreateCheckoutRequest) (*CheckoutSession, error) {
	var session CheckoutSession
	endpoint := merchantEndpoint(merchantURL, checkoutSessionsPath)
	if err := c.do(ctx, "create_checkout", http.MethodPost, endpoint, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetCheckout fetches the current snapshot of a checkout session.
func (c *Client) GetCheckout(ctx context.Context, merchantURL, checkoutID string) (*CheckoutSession, error) {
	var session CheckoutSession
	endpoint := sessionEndpoint(merchantURL, checkoutID, "")
	if err := c.do(ctx, "get_checkout", http.MethodGet, endpoint, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateCheckout submits a full-resource update. Callers are expected to
// build the request through the merger so fields they did not intend to
// touch are carried forward rather than cleared.
func (c *Client) UpdateCheckout(ctx context.Context, merchantURL string, req UpdateCheckoutRequest) (*CheckoutSession, error) {
	var session CheckoutSession
	endpoint := sessionEndpoint(merchantURL, req.ID, "")
	if err := c.do(ctx, "update_checkout", http.MethodPut, endpoint, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CompleteCheckout finalizes payment on a checkout session.
func (c *Client) CompleteCheckout(ctx context.Context, merchantURL, checkoutID string, req CompleteCheckoutRequest) (*CheckoutSession, error) {
	var session CheckoutSession
	endpoint := sessionEndpoint(merchantURL, checkoutID, "complete")
	if err := c.do(ctx, "complete_checkout", http.MethodPost, endpoint, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func sessionEndpoint(merchantURL, checkoutID, action string) string {
	path := fmt.Sprintf("%s/%s", checkoutSessionsPath, url.PathEscape(checkoutID))
	if action != "" {
		path = fmt.Sprintf("%s/%s", path, action)
	}
	return merchantEndpoint(merchantURL, path)
}
