package agent

// Request types for the tool-facing operations. Field defaults mirror the
// reference agent profile: an unspecified payment handler falls back to the
// mock handler most UCP sandboxes expose.

type DiscoverRequest struct {
	MerchantURL string `json:"merchant_url" validate:"required,url"`
}

type CreateCheckoutRequest struct {
	MerchantURL string        `json:"merchant_url" validate:"required,url"`
	Items       []ItemRequest `json:"items" validate:"required,min=1,dive"`
	BuyerName   string        `json:"buyer_name" validate:"required"`
	BuyerEmail  string        `json:"buyer_email" validate:"required,email"`
	Currency    string        `json:"currency,omitempty"`
}

type ItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Title    string `json:"title,omitempty"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type UpdateCheckoutRequest struct {
	MerchantURL   string   `json:"merchant_url" validate:"required,url"`
	CheckoutID    string   `json:"checkout_id" validate:"required"`
	DiscountCodes []string `json:"discount_codes,omitempty"`
}

type FulfillmentRequest struct {
	MerchantURL string `json:"merchant_url" validate:"required,url"`
	CheckoutID  string `json:"checkout_id" validate:"required"`
}

type CompleteCheckoutRequest struct {
	MerchantURL    string `json:"merchant_url" validate:"required,url"`
	CheckoutID     string `json:"checkout_id" validate:"required"`
	HandlerID      string `json:"payment_handler_id,omitempty"`
	CardToken      string `json:"card_token,omitempty"`
	CardBrand      string `json:"card_brand,omitempty"`
	CardLastDigits string `json:"card_last_digits,omitempty"`
}

const (
	defaultHandlerID      = "mock_payment_handler"
	defaultCardToken      = "success_token"
	defaultCardBrand      = "Visa"
	defaultCardLastDigits = "4242"
)

func (r *CompleteCheckoutRequest) applyDefaults() {
	if r.HandlerID == "" {
		r.HandlerID = defaultHandlerID
	}
	if r.CardToken == "" {
		r.CardToken = defaultCardToken
	}
	if r.CardBrand == "" {
		r.CardBrand = defaultCardBrand
	}
	if r.CardLastDigits == "" {
		r.CardLastDigits = defaultCardLastDigits
	}
}
