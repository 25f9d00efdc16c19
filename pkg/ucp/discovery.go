package ucp

import (
	"context"
	"net/http"
)

// Capability is one protocol capability a merchant declares at discovery.
type Capability struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Spec    string `json:"spec,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Extends string `json:"extends,omitempty"`
}

// PaymentHandler is one payment method the merchant accepts.
type PaymentHandler struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Spec    string         `json:"spec,omitempty"`
	Config  map[string]any `json:"config,omitempty"`
}

// Discovery is the normalized result of the well-known document.
type Discovery struct {
	Version         string
	Capabilities    []Capability
	PaymentHandlers []PaymentHandler
}

type discoveryDocument struct {
	UCP struct {
		Version      string       `json:"version"`
		Capabilities []Capability `json:"capabilities"`
	} `json:"ucp"`
	Payment struct {
		Handlers []PaymentHandler `json:"handlers"`
	} `json:"payment"`
}

// Discover fetches the merchant's well-known UCP document.
func (c *Client) Discover(ctx context.Context, merchantURL string) (*Discovery, error) {
	var doc discoveryDocument
	url := merchantEndpoint(merchantURL, wellKnownPath)
	if err := c.do(ctx, "discover", http.MethodGet, url, nil, &doc); err != nil {
		return nil, err
	}

	version := doc.UCP.Version
	if version == "" {
		version = "unknown"
	}
	capabilities := doc.UCP.Capabilities
	if capabilities == nil {
		capabilities = []Capability{}
	}
	handlers := doc.Payment.Handlers
	if handlers == nil {
		handlers = []PaymentHandler{}
	}

	return &Discovery{
		Version:         version,
		Capabilities:    capabilities,
		PaymentHandlers: handlers,
	}, nil
}
