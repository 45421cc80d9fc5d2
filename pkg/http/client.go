// Package http builds outbound HTTP clients for the external model
// services.
package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc decorates a round tripper.
type TransportFunc func(http.RoundTripper) http.RoundTripper

// Timeouts groups every deadline of an outbound client. Zero fields keep
// their defaults.
type Timeouts struct {
	Connect        time.Duration
	Request        time.Duration
	KeepAlive      time.Duration
	TLSHandshake   time.Duration
	ResponseHeader time.Duration
	IdleConn       time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect:        10 * time.Second,
		Request:        60 * time.Second,
		KeepAlive:      90 * time.Second,
		TLSHandshake:   10 * time.Second,
		ResponseHeader: 60 * time.Second,
		IdleConn:       90 * time.Second,
	}
}

type clientConfig struct {
	timeouts            Timeouts
	maxIdleConnsPerHost int
	transports          []TransportFunc
}

type Option func(*clientConfig)

// WithTimeouts overrides the non-zero fields of t.
func WithTimeouts(t Timeouts) Option {
	return func(c *clientConfig) {
		c.timeouts = mergeTimeouts(c.timeouts, t)
	}
}

// WithMaxIdleConnsPerHost sizes the keep-alive pool for one upstream. Set it
// to the expected request fan-out.
func WithMaxIdleConnsPerHost(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxIdleConnsPerHost = n
		}
	}
}

// WithTransport adds a round tripper decorator. Decorators wrap in the order
// they were added, so the last one sees the request first.
func WithTransport(transport TransportFunc) Option {
	return func(c *clientConfig) {
		c.transports = append(c.transports, transport)
	}
}

// NewClient builds an *http.Client with tuned transport timeouts.
func NewClient(opts ...Option) *http.Client {
	cfg := &clientConfig{
		timeouts:            DefaultTimeouts(),
		maxIdleConnsPerHost: 10,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.timeouts.Connect,
		KeepAlive: cfg.timeouts.KeepAlive,
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
		TLSHandshakeTimeout:   cfg.timeouts.TLSHandshake,
		ResponseHeaderTimeout: cfg.timeouts.ResponseHeader,
		IdleConnTimeout:       cfg.timeouts.IdleConn,
	}
	for _, wrap := range cfg.transports {
		transport = wrap(transport)
	}

	return &http.Client{
		Timeout:   cfg.timeouts.Request,
		Transport: transport,
	}
}

func mergeTimeouts(base, override Timeouts) Timeouts {
	pick := func(b, o time.Duration) time.Duration {
		if o > 0 {
			return o
		}
		return b
	}
	return Timeouts{
		Connect:        pick(base.Connect, override.Connect),
		Request:        pick(base.Request, override.Request),
		KeepAlive:      pick(base.KeepAlive, override.KeepAlive),
		TLSHandshake:   pick(base.TLSHandshake, override.TLSHandshake),
		ResponseHeader: pick(base.ResponseHeader, override.ResponseHeader),
		IdleConn:       pick(base.IdleConn, override.IdleConn),
	}
}
