// Package client is the single point of HTTP contact with the civic issue
// backend. Every failure is one of ServerError, NetworkError or
// UnexpectedError and Message(err) yields a user-displayable text.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/session"
)

const (
	// DefaultBaseURL is the backend base path
	DefaultBaseURL = "http://localhost:5000/api"
	// DefaultTimeout bounds each request, AI classification included
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 10 << 20
)

// Client is the backend API client
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	session    *session.Manager
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets the backend base URL, e.g. http://localhost:5000/api
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// still wrapped to attach the session token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSession sets the session accessor used for tokens, login and logout
func WithSession(m *session.Manager) Option {
	return func(c *Client) {
		c.session = m
	}
}

// New creates a client. Without WithSession the session lives in memory.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.session == nil {
		c.session = session.NewManager(session.NewMemory())
	}

	var hc http.Client
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &transport{base: base, source: c.session}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc

	return c
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session accessor
func (c *Client) Session() *session.Manager {
	return c.session
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON sends a request with an optional JSON body and returns the raw
// response body of a 2xx answer
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, unexpected(goerr.Wrap(err, "failed to encode request body"))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, unexpected(goerr.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{cause: goerr.Wrap(err, "request failed",
			goerr.V("method", req.Method),
			goerr.V("url", req.URL.String()),
		)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, &NetworkError{cause: goerr.Wrap(err, "failed to read response body")}
	}
	tooLarge := len(data) > maxResponseSize
	if tooLarge {
		data = data[:maxResponseSize]
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(data),
		}
	}
	if tooLarge {
		return nil, unexpected(goerr.New("response too large",
			goerr.V("url", req.URL.String()),
			goerr.V("limit", maxResponseSize),
		))
	}
	return data, nil
}

// envelope is the common {success, data, message} response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// decodeData decodes the data field of an envelope into out. An absent or
// null data field leaves out untouched.
func decodeData(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return unexpected(goerr.Wrap(err, "failed to decode response"))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return unexpected(goerr.Wrap(err, "failed to decode response data"))
	}
	return nil
}
