package ucp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/ucp-shopper/pkg/config"
	pkgerrors "github.com/angelmondragon/ucp-shopper/pkg/errors"
	"github.com/angelmondragon/ucp-shopper/pkg/logger"
	"github.com/angelmondragon/ucp-shopper/pkg/metrics"
)

const (
	headerAgent          = "UCP-Agent"
	headerSignature      = "request-signature"
	headerRequestID      = "request-id"
	headerIdempotencyKey = "idempotency-key"

	wellKnownPath = "/.well-known/ucp"

	errorBodyReadLimit int64 = 4096
)

var (
	errAgentProfileRequired = errors.New("ucp agent profile is required")
)

// Client issues UCP merchant requests with the protocol-mandated headers
// and normalizes failures into the NETWORK/PROTOCOL/DECODE taxonomy. It
// performs no retries; every mutating request carries a fresh idempotency
// key so the caller may safely replay on its own terms.
type Client struct {
	httpClient   *http.Client
	agentProfile string
	signature    string
	logger       *logger.Logger
	metrics      *metrics.RequestMetrics
	closed       bool
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a structured logger for request/response phases.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logger = logg
	}
}

// WithMetrics attaches request metrics.
func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the UCP transport from the protocol identity config.
func NewClient(cfg config.UCPConfig, opts ...Option) (*Client, error) {
	profile := strings.TrimSpace(cfg.AgentProfile)
	if profile == "" {
		return nil, errAgentProfileRequired
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		agentProfile: profile,
		signature:    strings.TrimSpace(cfg.RequestSignature),
		httpClient:   &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// Close releases idle connections and marks the client unusable. Any
// operation invoked afterwards fails with CLIENT_MISUSE.
func (c *Client) Close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}

// NewIdempotencyKey returns a unique key for one logical mutating attempt.
func (c *Client) NewIdempotencyKey(prefix string) string {
	key := strings.TrimSpace(prefix)
	if key == "" {
		key = "ucp"
	}
	return fmt.Sprintf("%s-%s", key, uuid.NewString())
}

func (c *Client) ready() error {
	if c == nil || c.httpClient == nil {
		return pkgerrors.New(pkgerrors.CodeClientMisuse, "ucp client not initialized")
	}
	if c.closed {
		return pkgerrors.New(pkgerrors.CodeClientMisuse, "ucp client is closed")
	}
	return nil
}

// do issues one request and decodes a 2xx response into dest. A nil body
// sends no payload; mutating methods get a fresh idempotency key.
func (c *Client) do(ctx context.Context, op, method, url string, body any, dest any) error {
	if err := c.ready(); err != nil {
		return err
	}

	start := time.Now()
	err := c.roundTrip(ctx, op, method, url, body, dest)
	c.metrics.ObserveDuration(op, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(op, string(pkgerrors.As(err).Code()))
		c.logPhase(ctx, "error", op, map[string]any{"error": err.Error()})
		return err
	}
	c.metrics.IncSuccess(op)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, url string, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", op))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", op))
	}

	requestID := uuid.NewString()
	req.Header.Set(headerAgent, c.agentProfile)
	req.Header.Set(headerSignature, c.signature)
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set(headerIdempotencyKey, c.NewIdempotencyKey(op))
	}

	c.logPhase(ctx, "request", op, map[string]any{
		"method":     method,
		"url":        url,
		"request_id": requestID,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("execute %s request", op))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Protocol(resp.StatusCode, strings.TrimSpace(string(raw)), fmt.Sprintf("%s failed", op))
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, fmt.Sprintf("decode %s response", op))
	}

	c.logPhase(ctx, "response", op, map[string]any{"request_id": requestID})
	return nil
}

func (c *Client) logPhase(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("ucp %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("ucp %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"card", "token", "credential", "cvv", "secret", "email"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func merchantEndpoint(merchantURL, path string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(merchantURL), "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
