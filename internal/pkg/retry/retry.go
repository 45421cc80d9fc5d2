package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultAttempts = 3
	defaultMaxDelay = 2 * time.Second
	defaultDelay    = 100 * time.Millisecond
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	attempts := rc.Attempts
	if attempts == 0 {
		// retry-go treats zero as "retry forever"
		attempts = defaultAttempts
	}

	return []retry.Option{
		retry.Attempts(attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Do runs fn under the retry policy. Each attempt gets its own timeout when
// one is configured.
func Do[T any](ctx context.Context, rc *RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	opts := append(rc.ToRetryOptions(), retry.Context(ctx))

	return retry.DoWithData(func() (T, error) {
		attemptCtx := ctx
		if rc.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, rc.Timeout)
			defer cancel()
		}
		return fn(attemptCtx)
	}, opts...)
}

// IsTransient reports whether err is worth another attempt: network
// failures, timeouts, rate limiting and server-side errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return isRetryableStatus(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
