// Package billing is the HTTP client for the Study Planner billing backend.
//
// Every operation issues exactly one request, attaches the caller's bearer
// credential and returns the decoded JSON object as-is. Failures are logged
// once and returned as *NetworkError, *ResponseFormatError or
// *RequestFailedError. The client keeps no state between calls.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	CheckoutSessionPath    = "/api/stripeAPI/create-checkout-session"
	SubscriptionStatusPath = "/api/stripeAPI/subscription"
	PortalSessionPath      = "/api/stripeAPI/create-portal-session"
	CancelSubscriptionPath = "/api/stripeAPI/cancel-subscription"
)

// Operation names, used in errors and log entries.
const (
	OpCreateCheckoutSession = "CreateCheckoutSession"
	OpGetSubscriptionStatus = "GetSubscriptionStatus"
	OpCreatePortalSession   = "CreatePortalSession"
	OpCancelSubscription    = "CancelSubscription"
)

var defaultMessages = map[string]string{
	OpCreateCheckoutSession: "Failed to create checkout session",
	OpGetSubscriptionStatus: "Failed to fetch subscription status",
	OpCreatePortalSession:   "Failed to create portal session",
	OpCancelSubscription:    "Failed to cancel subscription",
}

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is a decoded response body.
type Result map[string]any

// String returns the value under key when it is a JSON string.
func (r Result) String(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Result) SessionID() string {
	return r.String("sessionId")
}

func (r Result) URL() string {
	return r.String("url")
}

type Client struct {
	baseURL    string
	httpClient Doer
	logger     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport. http.DefaultClient is used otherwise.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateCheckoutSession posts params as the JSON body and returns the
// checkout session, which carries at least "sessionId".
func (c *Client) CreateCheckoutSession(ctx context.Context, token string, params map[string]any) (Result, error) {
	if params == nil {
		params = map[string]any{}
	}
	return c.doJSON(ctx, OpCreateCheckoutSession, http.MethodPost, CheckoutSessionPath, token, params)
}

// GetSubscriptionStatus returns the caller's current subscription state.
func (c *Client) GetSubscriptionStatus(ctx context.Context, token string) (Result, error) {
	return c.doJSON(ctx, OpGetSubscriptionStatus, http.MethodGet, SubscriptionStatusPath, token, nil)
}

// CreatePortalSession returns a self-service billing portal session carrying "url".
func (c *Client) CreatePortalSession(ctx context.Context, token string) (Result, error) {
	return c.doJSON(ctx, OpCreatePortalSession, http.MethodPost, PortalSessionPath, token, nil)
}

// CancelSubscription cancels subscriptionID. The body is always exactly
// {"subscriptionId": subscriptionID}.
func (c *Client) CancelSubscription(ctx context.Context, token, subscriptionID string) (Result, error) {
	body := struct {
		SubscriptionID string `json:"subscriptionId"`
	}{SubscriptionID: subscriptionID}
	return c.doJSON(ctx, OpCancelSubscription, http.MethodPost, CancelSubscriptionPath, token, body)
}

func (c *Client) doJSON(ctx context.Context, op, method, path, token string, payload any) (Result, error) {
	result, err := c.do(ctx, op, method, path, token, payload)
	if err != nil {
		c.logger.Error("billing request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, payload any) (Result, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ResponseFormatError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}
	if result == nil {
		// a literal JSON null
		return nil, &ResponseFormatError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        fmt.Errorf("response body is null"),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(result, defaultMessages[op]),
		}
	}

	return result, nil
}

// errorMessage reads the backend's "error" field. Both {"error": "msg"} and
// {"error": {"message": "msg"}} are understood.
func errorMessage(body Result, fallback string) string {
	switch v := body["error"].(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fallback
}
