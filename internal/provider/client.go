// Package provider wraps the GitHub-shaped HTTP API behind a typed client
// whose every call returns one of three outcomes: success, BusinessError,
// or TransportError — never a raw go-github error.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client is the adapter's handle on the provider API.
type Client struct {
	gh  *github.Client
	log *slog.Logger
}

type options struct {
	verbose bool
	log     *slog.Logger
}

// Option configures NewClient.
type Option func(*options)

// WithVerbose logs method, URL and latency for every request made through
// the client, via logger.
func WithVerbose(enabled bool, logger *slog.Logger) Option {
	return func(o *options) {
		o.verbose = enabled
		o.log = logger
	}
}

// loggingRoundTripper wraps an underlying transport and emits one log
// record per request/response pair, including latency.
type loggingRoundTripper struct {
	base http.RoundTripper
	log  *slog.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)
	if err != nil {
		t.log.Debug("provider request failed", "method", req.Method, "url", req.URL.String(), "duration", dur, "error", err)
		return resp, err
	}
	t.log.Debug("provider request", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "duration", dur)
	return resp, err
}

// NewClient builds a provider Client authenticated with token.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("provider client: ctx is nil")
	}

	o := &options{log: slog.Default()}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	var transport http.RoundTripper = http.DefaultTransport
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, log: o.log}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	httpClient := &http.Client{Transport: transport}

	return &Client{
		gh:  github.NewClient(httpClient),
		log: o.log,
	}, nil
}
