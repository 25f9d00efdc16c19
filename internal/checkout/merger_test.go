package checkout

import (
	"testing"

	"github.com/angelmondragon/ucp-shopper/pkg/enums"
	"github.com/angelmondragon/ucp-shopper/pkg/ucp"
)

func TestMergeUpdatePreservesUnsuppliedFields(t *testing.T) {
	snapshot := &ucp.CheckoutSession{
		ID:       "chk-1",
		Currency: "EUR",
		LineItems: []ucp.LineItem{{
			ID:       "li-1",
			Item:     map[string]any{"id": "bouquet_roses", "title": "Bouquet of Red Roses"},
			Quantity: 2,
		}},
		Payment: &ucp.Payment{
			Instruments: []map[string]any{},
			Handlers:    []map[string]any{{"id": "shop_pay"}},
		},
	}

	req := MergeUpdate("chk-1", snapshot, Change{DiscountCodes: []string{"10OFF"}}, "USD")

	if req.ID != "chk-1" {
		t.Fatalf("unexpected id %q", req.ID)
	}
	if len(req.LineItems) != 1 || req.LineItems[0].ID != "li-1" || req.LineItems[0].Quantity != 2 {
		t.Fatalf("line items not carried forward: %+v", req.LineItems)
	}
	if req.Currency != "EUR" {
		t.Fatalf("snapshot currency not carried forward: %q", req.Currency)
	}
	if req.Payment == nil || len(req.Payment.Handlers) != 1 {
		t.Fatalf("payment block not carried forward: %+v", req.Payment)
	}
	if req.Discounts == nil || len(req.Discounts.Codes) != 1 || req.Discounts.Codes[0] != "10OFF" {
		t.Fatalf("discount codes missing: %+v", req.Discounts)
	}
}

func TestMergeUpdateDefaultsWithoutSnapshot(t *testing.T) {
	req := MergeUpdate("chk-1", nil, Change{}, "USD")

	if req.LineItems != nil {
		t.Fatalf("line items must be omitted without a source: %+v", req.LineItems)
	}
	if req.Currency != "USD" {
		t.Fatalf("expected default currency, got %q", req.Currency)
	}
	if req.Payment == nil || req.Payment.Instruments == nil || req.Payment.Handlers == nil {
		t.Fatalf("payment must default to empty collections: %+v", req.Payment)
	}
	if req.Discounts != nil {
		t.Fatalf("discounts must be omitted when no codes are supplied")
	}
}

func TestMergeUpdateCallerLineItemsWin(t *testing.T) {
	snapshot := &ucp.CheckoutSession{
		LineItems: []ucp.LineItem{{ID: "li-old", Quantity: 1}},
	}
	replacement := []ucp.LineItem{{
		Item:     map[string]any{"id": "bouquet_tulips"},
		Quantity: 3,
	}}

	req := MergeUpdate("chk-1", snapshot, Change{LineItems: replacement}, "USD")

	if len(req.LineItems) != 1 || req.LineItems[0].Quantity != 3 {
		t.Fatalf("caller line items must override the snapshot: %+v", req.LineItems)
	}
}

func TestMergeUpdateNeverSynthesizesEmptyDiscounts(t *testing.T) {
	snapshot := &ucp.CheckoutSession{
		Discounts: &ucp.Discounts{Codes: []string{"10OFF"}},
		Totals:    []ucp.TotalsEntry{{Type: enums.TotalsTypeDiscount, Amount: 350}},
	}

	req := MergeUpdate("chk-1", snapshot, Change{}, "USD")

	if req.Discounts != nil {
		t.Fatalf("omitting codes must leave server discount state untouched, got %+v", req.Discounts)
	}
}
