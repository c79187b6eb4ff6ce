// Package httpx is the shared HTTP plumbing for rate source adapters:
// a single-attempt JSON GET whose failures are classified into the
// domain fetch-error taxonomy. Retrying is deliberately absent; one call
// is one network round trip.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

type Client struct {
	HTTP *http.Client
}

// New returns a client whose requests are bounded by timeout.
func New(timeout time.Duration) *Client {
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// GetJSON performs one GET and decodes the 200 response body into out.
// Every failure comes back as a *domain.FetchError.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &domain.FetchError{Kind: domain.FetchUnrecognized, Msg: fmt.Sprintf("create request: %v", err)}
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.FetchError{Kind: domain.FetchRateLimited, Msg: "rate limit exceeded (429)"}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &domain.FetchError{Kind: domain.FetchAuth, Msg: fmt.Sprintf("authentication rejected (%d)", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return &domain.FetchError{Kind: domain.FetchHTTPStatus, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.FetchError{Kind: domain.FetchUnrecognized, Msg: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func classifyTransport(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return &domain.FetchError{Kind: domain.FetchTimeout, Msg: "request timed out"}
		}
		return &domain.FetchError{Kind: domain.FetchConnection, Msg: fmt.Sprintf("connection failed: %v", ue.Err)}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.FetchError{Kind: domain.FetchTimeout, Msg: "request timed out"}
	}
	return &domain.FetchError{Kind: domain.FetchUnrecognized, Msg: err.Error()}
}
