package ucp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/angelmondragon/ucp-shopper/pkg/config"
	pkgerrors "github.com/angelmondragon/ucp-shopper/pkg/errors"
)

const sessionBody = `{
	"id": "cb9c0fc5-3e81-427c-ae54-83578294daf3",
	"status": "ready_for_complete",
	"currency": "USD",
	"line_items": [
		{
			"id": "2e86d63a-a6b8-4b4d-8f41-559f4c6991ea",
			"item": {"id": "bouquet_roses", "title": "Bouquet of Red Roses", "price": 3500},
			"quantity": 1,
			"totals": [{"type": "subtotal", "amount": 3500}, {"type": "total", "amount": 3500}]
		}
	],
	"totals": [{"type": "subtotal", "amount": 3500}, {"type": "total", "amount": 3500}],
	"payment": {"handlers": [], "instruments": []},
	"discounts": {}
}`

func testClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(config.UCPConfig{
		AgentProfile:     `profile="https://ucp-shopper.example/profile"`,
		RequestSignature: "sig-test",
	}, WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestCreateCheckoutSendsProtocolHeaders(t *testing.T) {
	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		buyer, ok := payload["buyer"].(map[string]any)
		if !ok || buyer["email"] != "jane@example.com" {
			t.Fatalf("unexpected buyer %v", payload["buyer"])
		}
		payment, ok := payload["payment"].(map[string]any)
		if !ok || payment["instruments"] == nil || payment["handlers"] == nil {
			t.Fatalf("payment block must carry empty collections, got %v", payload["payment"])
		}

		return jsonResponse(http.StatusOK, sessionBody), nil
	})

	client := testClient(t, rt)
	session, err := client.CreateCheckout(context.Background(), "http://flowers.example/", CreateCheckoutRequest{
		LineItems: []LineItem{{Item: map[string]any{"id": "bouquet_roses"}, Quantity: 1}},
		Buyer:     Buyer{FullName: "Jane Doe", Email: "jane@example.com"},
		Currency:  "USD",
		Payment:   *EmptyPayment(),
	})
	if err != nil {
		t.Fatalf("create checkout: %v", err)
	}

	if capturedURL != "http://flowers.example/checkout-sessions" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if got := capturedHeaders.Get("UCP-Agent"); got != `profile="https://ucp-shopper.example/profile"` {
		t.Fatalf("unexpected agent header %q", got)
	}
	if capturedHeaders.Get("request-signature") != "sig-test" {
		t.Fatalf("signature header missing")
	}
	if capturedHeaders.Get("request-id") == "" {
		t.Fatalf("request-id header missing")
	}
	if capturedHeaders.Get("idempotency-key") == "" {
		t.Fatalf("idempotency-key header missing on mutating request")
	}
	if capturedHeaders.Get("Content-Type") != "application/json" {
		t.Fatalf("content type missing")
	}
	if session.ID != "cb9c0fc5-3e81-427c-ae54-83578294daf3" {
		t.Fatalf("unexpected session id %q", session.ID)
	}
}

func TestIdempotencyKeysAreFreshPerAttempt(t *testing.T) {
	var keys []string
	var requestIDs []string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		keys = append(keys, req.Header.Get("idempotency-key"))
		requestIDs = append(requestIDs, req.Header.Get("request-id"))
		return jsonResponse(http.StatusOK, sessionBody), nil
	})

	client := testClient(t, rt)
	req := UpdateCheckoutRequest{ID: "chk-1", Currency: "USD", Payment: EmptyPayment()}
	for i := 0; i < 2; i++ {
		if _, err := client.UpdateCheckout(context.Background(), "http://flowers.example", req); err != nil {
			t.Fatalf("update checkout: %v", err)
		}
	}

	if len(keys) != 2 || keys[0] == keys[1] {
		t.Fatalf("expected distinct idempotency keys, got %v", keys)
	}
	if len(requestIDs) != 2 || requestIDs[0] == requestIDs[1] {
		t.Fatalf("expected distinct request ids, got %v", requestIDs)
	}
}

func TestGetCheckoutOmitsIdempotencyKey(t *testing.T) {
	var capturedHeaders http.Header
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedHeaders = req.Header.Clone()
		return jsonResponse(http.StatusOK, sessionBody), nil
	})

	client := testClient(t, rt)
	if _, err := client.GetCheckout(context.Background(), "http://flowers.example", "chk-1"); err != nil {
		t.Fatalf("get checkout: %v", err)
	}
	if capturedHeaders.Get("idempotency-key") != "" {
		t.Fatalf("read request must not carry an idempotency key")
	}
	if capturedHeaders.Get("request-id") == "" {
		t.Fatalf("request-id header missing")
	}
}

func TestConnectFailureYieldsNetworkError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	client := testClient(t, rt)
	_, err := client.Discover(context.Background(), "http://invalid.example")
	if err == nil {
		t.Fatalf("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestNon2xxYieldsProtocolErrorWithBody(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":"Checkout not found"}`), nil
	})

	client := testClient(t, rt)
	_, err := client.UpdateCheckout(context.Background(), "http://flowers.example", UpdateCheckoutRequest{ID: "missing"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeProtocol {
		t.Fatalf("expected protocol error, got %v", err)
	}
	if typed.HTTPStatus() != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", typed.HTTPStatus())
	}
	if typed.ResponseBody() != `{"error":"Checkout not found"}` {
		t.Fatalf("merchant body not preserved: %q", typed.ResponseBody())
	}
}

func TestMalformedResponseYieldsDecodeError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id": `), nil
	})

	client := testClient(t, rt)
	_, err := client.GetCheckout(context.Background(), "http://flowers.example", "chk-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestClosedClientYieldsMisuseError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("closed client must not issue requests")
		return nil, nil
	})

	client := testClient(t, rt)
	client.Close()

	_, err := client.GetCheckout(context.Background(), "http://flowers.example", "chk-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeClientMisuse {
		t.Fatalf("expected misuse error, got %v", err)
	}
}

func TestDiscoverParsesDocument(t *testing.T) {
	doc := `{
		"ucp": {
			"version": "2026-01-11",
			"capabilities": [
				{"name": "dev.ucp.shopping.checkout", "version": "2026-01-11"},
				{"name": "dev.ucp.shopping.fulfillment", "version": "2026-01-11", "extends": "dev.ucp.shopping.checkout"}
			]
		},
		"payment": {
			"handlers": [
				{"id": "shop_pay", "name": "com.shopify.shop_pay", "version": "2026-01-11", "config": {"shop_id": "d124d01c"}}
			]
		}
	}`
	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, doc), nil
	})

	client := testClient(t, rt)
	result, err := client.Discover(context.Background(), "http://flowers.example")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if capturedURL != "http://flowers.example/.well-known/ucp" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if result.Version != "2026-01-11" {
		t.Fatalf("unexpected version %q", result.Version)
	}
	if len(result.Capabilities) != 2 || result.Capabilities[1].Extends != "dev.ucp.shopping.checkout" {
		t.Fatalf("unexpected capabilities %+v", result.Capabilities)
	}
	if len(result.PaymentHandlers) != 1 || result.PaymentHandlers[0].ID != "shop_pay" {
		t.Fatalf("unexpected handlers %+v", result.PaymentHandlers)
	}
}

func TestDiscoverDefaultsOnSparseDocument(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{}`), nil
	})

	client := testClient(t, rt)
	result, err := client.Discover(context.Background(), "http://flowers.example")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if result.Version != "unknown" {
		t.Fatalf("expected unknown version, got %q", result.Version)
	}
	if result.Capabilities == nil || len(result.Capabilities) != 0 {
		t.Fatalf("expected empty capabilities, got %+v", result.Capabilities)
	}
	if result.PaymentHandlers == nil || len(result.PaymentHandlers) != 0 {
		t.Fatalf("expected empty handlers, got %+v", result.PaymentHandlers)
	}
}

func TestCompleteCheckoutHitsCompleteEndpoint(t *testing.T) {
	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, sessionBody), nil
	})

	client := testClient(t, rt)
	_, err := client.CompleteCheckout(context.Background(), "http://flowers.example", "chk-1", CompleteCheckoutRequest{})
	if err != nil {
		t.Fatalf("complete checkout: %v", err)
	}
	if capturedURL != "http://flowers.example/checkout-sessions/chk-1/complete" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
