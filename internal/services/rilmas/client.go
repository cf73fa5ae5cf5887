// Package rilmas is the client for the two remote rilmas endpoints: the
// authentication endpoint and the chat endpoint.
package rilmas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gregriff/rilmas/internal/services"
)

// Endpoints are the two fixed addresses the client talks to.
type Endpoints struct {
	Auth  string
	Chats string
}

// Client issues JSON requests to the rilmas endpoints. It performs no retries
// and sets no timeout of its own; callers bound requests through the context.
type Client struct {
	endpoints Endpoints
	http      *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient provides a Client for the given endpoints.
func NewClient(endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints: endpoints,
		http:      &http.Client{Transport: services.NewTransport()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the failure shape both endpoints use.
type errorBody struct {
	Error string `json:"error"`
}

// post sends body as JSON to endpoint and decodes the response into out.
func (c *Client) post(ctx context.Context, op, endpoint, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: json marshal error: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.Header.Set(services.TokenHeader, token)
	}
	return c.do(req, op, out)
}

// get issues a GET to endpoint with the query attached.
func (c *Client) get(ctx context.Context, op, endpoint, token string, query url.Values, out any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%s: bad endpoint %q: %w", op, endpoint, err)
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if token != "" {
		req.Header.Set(services.TokenHeader, token)
	}
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var eb errorBody
		msg := string(bytes.TrimSpace(data))
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &StatusError{Op: op, StatusCode: res.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
