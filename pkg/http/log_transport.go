package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ObserveFunc receives the outcome of every outbound request. status is the
// HTTP status code or 0 when the round trip failed.
type ObserveFunc func(service string, status int, elapsed time.Duration)

type logTransport struct {
	service   string
	observe   ObserveFunc
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	resp, err := t.transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []zap.Field{
		zap.String("service", t.service),
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Duration("duration", elapsed),
	}

	status := 0
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", append(fields, zap.Error(err))...)
	} else {
		status = resp.StatusCode
		ctxzap.Debug(ctx, "HTTP outbound request", append(fields, zap.Int("status", status))...)
	}

	if t.observe != nil {
		t.observe(t.service, status, elapsed)
	}

	return resp, err
}

// WithRequestLogging wraps the HTTP transport with debug logging of method,
// URL, status and latency. observe may be nil.
func WithRequestLogging(service string, observe ObserveFunc) Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			service:   service,
			observe:   observe,
			transport: rt,
		}
	})
}
