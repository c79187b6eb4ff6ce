package httpx

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func clientWith(rt http.RoundTripper) *Client {
	return &Client{HTTP: &http.Client{Transport: rt, Timeout: 2 * time.Second}}
}

func respond(code int, body string) rtFunc {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	}
}

func fetchKindOf(t *testing.T, err error) domain.FetchKind {
	t.Helper()
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	return fe.Kind
}

func TestGetJSON_OK(t *testing.T) {
	c := clientWith(respond(200, `{"ok": true}`))
	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "http://example.com", &out))
	require.True(t, out.OK)
}

func TestGetJSON_StatusClassification(t *testing.T) {
	cases := []struct {
		code int
		kind domain.FetchKind
	}{
		{429, domain.FetchRateLimited},
		{401, domain.FetchAuth},
		{403, domain.FetchAuth},
		{500, domain.FetchHTTPStatus},
		{404, domain.FetchHTTPStatus},
	}
	for _, tc := range cases {
		c := clientWith(respond(tc.code, "err"))
		var out any
		err := c.GetJSON(context.Background(), "http://example.com", &out)
		require.Equal(t, tc.kind, fetchKindOf(t, err), "status %d", tc.code)
	}
}

func TestGetJSON_HTTPStatusKeepsCode(t *testing.T) {
	c := clientWith(respond(503, "err"))
	var out any
	err := c.GetJSON(context.Background(), "http://example.com", &out)
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, 503, fe.Status)
	require.Equal(t, "http status 503", fe.Error())
}

func TestGetJSON_DecodeError(t *testing.T) {
	c := clientWith(respond(200, "{not json"))
	var out map[string]any
	err := c.GetJSON(context.Background(), "http://example.com", &out)
	require.Equal(t, domain.FetchUnrecognized, fetchKindOf(t, err))
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestGetJSON_TransportTimeout(t *testing.T) {
	c := clientWith(rtFunc(func(r *http.Request) (*http.Response, error) {
		return nil, &url.Error{Op: "Get", URL: r.URL.String(), Err: timeoutErr{}}
	}))
	var out any
	err := c.GetJSON(context.Background(), "http://example.com", &out)
	require.Equal(t, domain.FetchTimeout, fetchKindOf(t, err))
}

func TestGetJSON_ConnectionRefused(t *testing.T) {
	c := clientWith(rtFunc(func(r *http.Request) (*http.Response, error) {
		return nil, &url.Error{Op: "Get", URL: r.URL.String(), Err: io.EOF}
	}))
	var out any
	err := c.GetJSON(context.Background(), "http://example.com", &out)
	require.Equal(t, domain.FetchConnection, fetchKindOf(t, err))
}
