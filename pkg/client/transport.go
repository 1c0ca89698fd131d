package client

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"golang.org/x/oauth2"
)

// transport attaches the session bearer token and a request ID to every
// outgoing request. A missing session sends the request unauthenticated.
type transport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrip must not modify the caller's request
	req = req.Clone(req.Context())

	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	if t.source != nil {
		tok, err := t.source.Token()
		switch {
		case err == nil && tok.AccessToken != "":
			tok.SetAuthHeader(req)
		case err != nil && !errors.Is(err, model.ErrNoSession):
			ctxlog.From(req.Context()).Warn("Failed to read session token", "error", err)
		}
	}

	logger := ctxlog.From(req.Context())
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		logger.Debug("API request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"request_id", req.Header.Get("X-Request-ID"),
			"error", err,
		)
		return nil, err
	}

	logger.Debug("API request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration", time.Since(start),
	)
	return resp, nil
}
