// Package gateway is the HTTP client for the remote franchise API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when no base endpoint is configured.
const DefaultBaseURL = "http://localhost:8080/api"

// ErrUpstream wraps failures that happen before a remote status is known:
// transport errors, timeouts and unreadable payloads.
var ErrUpstream = errors.New("gateway: upstream failure")

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("http %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// TokenSource yields the current session token.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Interceptor may modify an outbound request before it is sent.
type Interceptor func(ctx context.Context, req *http.Request) error

// BearerInterceptor attaches the session token when one is stored.
func BearerInterceptor(tokens TokenSource) Interceptor {
	return func(ctx context.Context, req *http.Request) error {
		if tokens == nil {
			return nil
		}
		if tok, ok := tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		return nil
	}
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
	// Limiter throttles outbound calls when set.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Client is the shared remote API client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	interceptors []Interceptor
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// New creates a client. Cookies set by the remote API are kept for the
// lifetime of the client.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("gateway: invalid base url %q: %w", baseURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("gateway: cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    opts.Limiter,
		logger:     logger.With(slog.String("component", "gateway")),
	}
	if opts.Tokens != nil {
		c.Use(BearerInterceptor(opts.Tokens))
	}
	return c, nil
}

// BaseURL returns the configured base endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// Use appends an interceptor to the request chain.
func (c *Client) Use(i Interceptor) {
	c.interceptors = append(c.interceptors, i)
}

func (c *Client) getJSON(ctx context.Context, requestPath string, query url.Values, out any) error {
	if len(query) > 0 {
		requestPath += "?" + query.Encode()
	}
	return c.doJSON(ctx, http.MethodGet, requestPath, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, requestPath string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limit: %w", ErrUpstream, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for _, intercept := range c.interceptors {
		if err := intercept(ctx, req); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	payload, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("%w: read body: %w", ErrUpstream, readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if out == nil || len(bytes.TrimSpace(payload)) == 0 {
			return nil
		}
		if err := decodeEnvelope(payload, out); err != nil {
			return fmt.Errorf("%w: decode: %w", ErrUpstream, err)
		}
		return nil
	}

	var errPayload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(payload, &errPayload)
	msg := errPayload.Message
	if msg == "" {
		msg = errPayload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Code: errPayload.Code, Message: msg}
}

// decodeEnvelope decodes {"data": ...} responses into out, and anything else
// as the value itself.
func decodeEnvelope(payload []byte, out any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if data, ok := env["data"]; ok {
				return json.Unmarshal(data, out)
			}
		}
	}
	return json.Unmarshal(trimmed, out)
}
