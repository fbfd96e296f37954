package favicon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type mockTransport struct {
	Response *http.Response
	Err      error
	NbCall   int
	LastReq  *http.Request
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.NbCall++
	m.LastReq = req
	return m.Response, m.Err
}

func newResponse(statusCode int, body string) *http.Response {
	recorder := httptest.NewRecorder()
	recorder.WriteHeader(statusCode)
	recorder.WriteString(body)
	return recorder.Result()
}

func TestClientGet_SetsUserAgent(t *testing.T) {
	transport := &mockTransport{Response: newResponse(http.StatusOK, "ok")}
	c := NewClient(transport, rate.Inf, time.Second, "historygen-test")

	resp, err := c.Get(context.Background(), "http://test.com/truc")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, transport.NbCall)
	assert.Equal(t, "historygen-test", transport.LastReq.Header.Get("User-Agent"))
}

func TestClientGet_NoRetry(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		transport := &mockTransport{Response: newResponse(code, "")}
		c := NewClient(transport, rate.Inf, time.Second, "")

		resp, err := c.Get(context.Background(), "http://test.com/")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, code, resp.StatusCode)
		assert.Equal(t, 1, transport.NbCall, "status %d must not be retried", code)
	}
}

func TestClientGet_RateLimitPerHost(t *testing.T) {
	transport := &mockTransport{Response: newResponse(http.StatusOK, "")}
	c := NewClient(transport, rate.Limit(0.001), time.Second, "")

	resp, err := c.Get(context.Background(), "http://a.example/")
	require.NoError(t, err)
	resp.Body.Close()

	// The second request to the same host would wait far beyond the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, "http://a.example/other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")

	// Another host has its own limiter.
	transport.Response = newResponse(http.StatusOK, "")
	resp, err = c.Get(context.Background(), "http://b.example/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 2, transport.NbCall)
}

func TestClientGet_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(nil, rate.Inf, 50*time.Millisecond, "")
	_, err := c.Get(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestNewClient_NonPositiveLimitDisablesLimiting(t *testing.T) {
	c := NewClient(&mockTransport{}, 0, time.Second, "")
	assert.Equal(t, rate.Inf, c.rateLimit)
}
