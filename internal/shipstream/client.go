package shipstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shipscout/internal/logging"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the beta shipments endpoint.
	DefaultBaseURL = "https://app.buhologistics.com/api/global/beta/shipments/"

	// APIVersion is pinned; the row formatters assume this envelope shape.
	APIVersion = "2020-10"

	headerAPIVersion = "X-ShipStream-API-Version"
	headerAuth       = "X-AutomationV1-Auth"
)

// Timeout bounds for the single outbound call.
const (
	MinTimeout     = 5 * time.Second
	MaxTimeout     = 120 * time.Second
	DefaultTimeout = 30 * time.Second
)

// maxBodyBytes caps how much of a response body is read. 2MB is far beyond
// any real shipment envelope.
const maxBodyBytes = 2 << 20

// BuildQueryURL builds the lookup URL for a unique_id. The identifier is
// trimmed; validity beyond non-emptiness is the caller's concern. The
// filter syntax is the API's own, kept verbatim.
func BuildQueryURL(base, uniqueID string, expandOrder bool) string {
	uniqueID = strings.TrimSpace(uniqueID)
	u := base + "?filter[]=unique_id:" + uniqueID
	if expandOrder {
		u += "&expand=order"
	}
	return u
}

// Headers returns the fixed header set for an authenticated call. An empty
// token produces an unusable header; callers validate before invoking.
func Headers(token string) map[string]string {
	return map[string]string{
		"Content-Type":   "application/json",
		headerAPIVersion: APIVersion,
		headerAuth:       strings.TrimSpace(token),
	}
}

// ClampTimeout folds an arbitrary duration into the allowed window,
// substituting the default for zero.
func ClampTimeout(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultTimeout
	case d < MinTimeout:
		return MinTimeout
	case d > MaxTimeout:
		return MaxTimeout
	}
	return d
}

// Result is the outcome of one Fetch: whatever the server said, verbatim.
// Statuses >= 400 are data here, not errors; the orchestration layer
// decides how they render.
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Client issues shipment lookups against one base URL.
type Client struct {
	base    string
	token   string
	timeout time.Duration
	httpc   *http.Client
}

// NewClient builds a Client. Empty base falls back to DefaultBaseURL and
// the timeout is clamped to the allowed window.
func NewClient(base, token string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:    base,
		token:   token,
		timeout: ClampTimeout(timeout),
		httpc:   &http.Client{},
	}
}

// BaseURL returns the endpoint the client queries.
func (c *Client) BaseURL() string { return c.base }

// Fetch issues the single authenticated GET for uniqueID. Transport
// failures (DNS, connect, timeout) return an error; every HTTP status comes
// back as a Result.
func (c *Client) Fetch(ctx context.Context, uniqueID string, expandOrder bool) (*Result, error) {
	reqID := uuid.NewString()
	log := logging.WithRequestID(logging.CategoryAPI, reqID)

	u := BuildQueryURL(c.base, uniqueID, expandOrder)
	log.Info("GET %s", u)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range Headers(c.token) {
		req.Header.Set(k, v)
	}

	timer := logging.StartTimer(logging.CategoryAPI, "shipment lookup")
	resp, err := c.httpc.Do(req)
	timer.Stop()
	if err != nil {
		log.Error("request failed: %v", err)
		return nil, fmt.Errorf("failed to reach shipment API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Error("body read failed: %v", err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Info("status %d (%d bytes)", resp.StatusCode, len(body))
	return &Result{URL: u, StatusCode: resp.StatusCode, Body: body}, nil
}
