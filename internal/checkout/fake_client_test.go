package checkout

import (
	"context"
	"fmt"

	"github.com/angelmondragon/ucp-shopper/pkg/ucp"
)

// fakeSessionClient scripts merchant responses and records what the
// orchestrator sent.
type fakeSessionClient struct {
	discoverFn func(ctx context.Context, merchantURL string) (*ucp.Discovery, error)
	createFn   func(ctx context.Context, merchantURL string, req ucp.CreateCheckoutRequest) (*ucp.CheckoutSession, error)
	getFn      func(ctx context.Context, merchantURL, checkoutID string) (*ucp.CheckoutSession, error)
	completeFn func(ctx context.Context, merchantURL, checkoutID string, req ucp.CompleteCheckoutRequest) (*ucp.CheckoutSession, error)

	updateResponses []*ucp.CheckoutSession
	updateErr       error
	updateRequests  []ucp.UpdateCheckoutRequest
}

func (f *fakeSessionClient) Discover(ctx context.Context, merchantURL string) (*ucp.Discovery, error) {
	if f.discoverFn == nil {
		return &ucp.Discovery{Version: "unknown"}, nil
	}
	return f.discoverFn(ctx, merchantURL)
}

func (f *fakeSessionClient) CreateCheckout(ctx context.Context, merchantURL string, req ucp.CreateCheckoutRequest) (*ucp.CheckoutSession, error) {
	if f.createFn == nil {
		return &ucp.CheckoutSession{ID: "chk-created"}, nil
	}
	return f.createFn(ctx, merchantURL, req)
}

func (f *fakeSessionClient) GetCheckout(ctx context.Context, merchantURL, checkoutID string) (*ucp.CheckoutSession, error) {
	if f.getFn == nil {
		return &ucp.CheckoutSession{ID: checkoutID}, nil
	}
	return f.getFn(ctx, merchantURL, checkoutID)
}

func (f *fakeSessionClient) UpdateCheckout(ctx context.Context, merchantURL string, req ucp.UpdateCheckoutRequest) (*ucp.CheckoutSession, error) {
	f.updateRequests = append(f.updateRequests, req)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if len(f.updateResponses) == 0 {
		return nil, fmt.Errorf("fake client: no scripted update response for call %d", len(f.updateRequests))
	}
	next := f.updateResponses[0]
	f.updateResponses = f.updateResponses[1:]
	return next, nil
}

func (f *fakeSessionClient) CompleteCheckout(ctx context.Context, merchantURL, checkoutID string, req ucp.CompleteCheckoutRequest) (*ucp.CheckoutSession, error) {
	if f.completeFn == nil {
		return &ucp.CheckoutSession{ID: checkoutID}, nil
	}
	return f.completeFn(ctx, merchantURL, checkoutID, req)
}
