package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientAppliesOptions(t *testing.T) {
	client := NewClient(
		WithTimeouts(Timeouts{Request: 5 * time.Second, ResponseHeader: 2 * time.Second}),
		WithMaxIdleConnsPerHost(8),
	)
	assert.Equal(t, 5*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, transport.ResponseHeaderTimeout)
	assert.Equal(t, DefaultTimeouts().TLSHandshake, transport.TLSHandshakeTimeout, "zero fields keep defaults")
	assert.Equal(t, 8, transport.MaxIdleConnsPerHost)
}

func TestNewClientWrapsTransportsInOrder(t *testing.T) {
	var order []string
	tag := func(name string) TransportFunc {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	client := NewClient(WithTransport(tag("inner")), WithTransport(tag("outer")))
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"outer", "inner"}, order)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRequestLoggingObservesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var gotService string
	var gotStatus int
	client := NewClient(WithRequestLogging("embedding", func(service string, status int, _ time.Duration) {
		gotService = service
		gotStatus = status
	}))

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "embedding", gotService)
	assert.Equal(t, http.StatusTooManyRequests, gotStatus)
}

func TestRequestLoggingObservesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	gotStatus := -1
	client := NewClient(WithRequestLogging("llm", func(_ string, status int, _ time.Duration) {
		gotStatus = status
	}))

	_, err := client.Get(url)
	require.Error(t, err)
	assert.Equal(t, 0, gotStatus)
}
