// Package services holds the HTTP plumbing shared by the rilmas API clients.
package services

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gregriff/rilmas/internal/logx"
)

const (
	RequestIDHeader = "X-Request-ID"
	TokenHeader     = "X-User-Token"
	userAgent       = "rilmas-cli"
)

// Transport stamps every request sent by an http.Client with a request id and
// user agent, and logs it. Requests are delegated to Base.
// Reference: https://cs.opensource.google/go/x/oauth2/+/refs/tags/v0.31.0:transport.go
type Transport struct {
	Base http.RoundTripper
}

// NewTransport builds a Transport over a pooled http.Transport.
func NewTransport() *Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConns = 10
	base.IdleConnTimeout = 30 * time.Second
	base.TLSHandshakeTimeout = 5 * time.Second
	return &Transport{Base: base}
}

// RoundTrip clones the request before adding headers, as required of RoundTrippers.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	req.Header.Set("User-Agent", userAgent)

	logx.Debug("sending request",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"request_id", req.Header.Get(RequestIDHeader),
		"authenticated", req.Header.Get(TokenHeader) != "",
	)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
