package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// DefaultTimeout is used when NewClient is given a non-positive timeout.
const DefaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of a failed response body is kept on the error.
const maxErrorBody = 512

// UseNumber keeps prices and balances as json.Number so no precision is lost
// before they are converted to decimals.
var jsonAPI = sonic.Config{UseNumber: true}.Froze()

// arrayKeys are the envelope keys some API versions wrap list payloads in.
var arrayKeys = []string{"data", "trades", "history", "items", "points", "chart"}

// Client fetches JSON payloads from the trading-account API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL. Relative endpoints are joined
// to baseURL; absolute endpoints are requested as-is.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the root relative endpoints are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// URL resolves endpoint against the client's base URL.
func (c *Client) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if endpoint == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Fetch issues a GET for endpoint and decodes the JSON body. It fails with a
// *NetworkError on transport failure or non-2xx status and with a *ParseError
// on malformed JSON. No partial data is ever returned.
func (c *Client) Fetch(ctx context.Context, endpoint string) (any, error) {
	target := c.URL(endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: errors.Wrap(err, "create request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: errors.Wrap(err, "execute request")}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &NetworkError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
			Err:      errors.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Status: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}

	var out any
	if err := jsonAPI.Unmarshal(body, &out); err != nil {
		return nil, &ParseError{Endpoint: endpoint, Err: errors.Wrap(err, "decode response")}
	}
	return out, nil
}

// FetchObject fetches endpoint and requires a JSON object.
func (c *Client) FetchObject(ctx context.Context, endpoint string) (map[string]any, error) {
	v, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Endpoint: endpoint, Err: errors.Errorf("expected JSON object, got %s", kind(v))}
	}
	return obj, nil
}

// FetchArray fetches endpoint and requires a JSON array. An object wrapping
// a single array under one of the usual envelope keys is unwrapped.
func (c *Client) FetchArray(ctx context.Context, endpoint string) ([]any, error) {
	v, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		for _, k := range arrayKeys {
			if arr, ok := t[k].([]any); ok {
				return arr, nil
			}
		}
	}
	return nil, &ParseError{Endpoint: endpoint, Err: errors.Errorf("expected JSON array, got %s", kind(v))}
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
