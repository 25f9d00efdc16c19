package checkout

import (
	"context"

	"github.com/angelmondragon/ucp-shopper/pkg/enums"
	"github.com/angelmondragon/ucp-shopper/pkg/ucp"
)

// NegotiateFulfillment drives the merchant's incremental shipping
// negotiation: request shipping, accept the first offered destination,
// then accept the first offered delivery option. The merchant reveals
// each phase's choices only in response to the previous phase, so every
// round trip rebuilds the update body from the latest response rather
// than the pre-negotiation snapshot. Running out of choices at any phase
// ends the negotiation without error and returns the best snapshot so far.
func (s *service) NegotiateFulfillment(ctx context.Context, merchantURL, checkoutID string) (*ucp.CheckoutSession, error) {
	current, err := s.client.GetCheckout(ctx, merchantURL, checkoutID)
	if err != nil {
		return nil, err
	}

	// Phase 0: ask for shipping so the merchant enumerates destinations.
	req := s.carryForward(checkoutID, current)
	req.Fulfillment = &ucp.Fulfillment{
		Methods: []ucp.FulfillmentMethod{{Type: enums.FulfillmentMethodShipping}},
	}
	offered, err := s.client.UpdateCheckout(ctx, merchantURL, req)
	if err != nil {
		return nil, err
	}

	// Phase 1: select the first offered destination.
	method, destination, ok := firstDestination(offered.Fulfillment)
	if !ok {
		return offered, nil
	}
	req = s.carryForward(checkoutID, offered)
	req.Fulfillment = &ucp.Fulfillment{
		Methods: []ucp.FulfillmentMethod{{
			Type:                  method.Type,
			SelectedDestinationID: destination.ID,
		}},
	}
	withDestination, err := s.client.UpdateCheckout(ctx, merchantURL, req)
	if err != nil {
		return nil, err
	}

	// Phases 2-3: the merchant answers with option groups; select the
	// first option of the first group.
	optionMethod, group, option, ok := firstOption(withDestination.Fulfillment)
	if !ok {
		return withDestination, nil
	}
	selectedDestination := optionMethod.SelectedDestinationID
	if selectedDestination == "" {
		selectedDestination = destination.ID
	}
	req = s.carryForward(checkoutID, withDestination)
	req.Fulfillment = &ucp.Fulfillment{
		Methods: []ucp.FulfillmentMethod{{
			Type:                  optionMethod.Type,
			SelectedDestinationID: selectedDestination,
			Groups: []ucp.OptionGroup{{
				ID:               group.ID,
				SelectedOptionID: option.ID,
			}},
		}},
	}
	negotiated, err := s.client.UpdateCheckout(ctx, merchantURL, req)
	if err != nil {
		return nil, err
	}
	return negotiated, nil
}

// carryForward rebuilds the base update body from a phase response so the
// merchant's own changes (added shipping line items, adjusted payment
// block) are resent intact.
func (s *service) carryForward(checkoutID string, snapshot *ucp.CheckoutSession) ucp.UpdateCheckoutRequest {
	return MergeUpdate(checkoutID, snapshot, Change{}, s.defaultCurrency)
}

func firstDestination(fulfillment *ucp.Fulfillment) (ucp.FulfillmentMethod, ucp.Destination, bool) {
	if fulfillment == nil {
		return ucp.FulfillmentMethod{}, ucp.Destination{}, false
	}
	for _, method := range fulfillment.Methods {
		if len(method.Destinations) > 0 {
			return method, method.Destinations[0], true
		}
	}
	return ucp.FulfillmentMethod{}, ucp.Destination{}, false
}

func firstOption(fulfillment *ucp.Fulfillment) (ucp.FulfillmentMethod, ucp.OptionGroup, ucp.FulfillmentOption, bool) {
	if fulfillment == nil {
		return ucp.FulfillmentMethod{}, ucp.OptionGroup{}, ucp.FulfillmentOption{}, false
	}
	for _, method := range fulfillment.Methods {
		for _, group := range method.Groups {
			if len(group.Options) > 0 {
				return method, group, group.Options[0], true
			}
		}
	}
	return ucp.FulfillmentMethod{}, ucp.OptionGroup{}, ucp.FulfillmentOption{}, false
}
