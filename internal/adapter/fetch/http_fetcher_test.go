package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"quiz-scraper/internal/config"
	"quiz-scraper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() config.ScraperConfig {
	return config.ScraperConfig{
		MaxAttempts:    3,
		BackoffUnit:    time.Millisecond,
		RequestTimeout: 2 * time.Second,
		UserAgents:     []string{"agent-one", "agent-two"},
	}
}

func TestHTTPFetcher_Success(t *testing.T) {
	var (
		mu     sync.Mutex
		agents []string
		extra  string
	)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.UserAgent())
		extra = r.Header.Get("X-Trace")
		mu.Unlock()
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig(), zap.NewNop())
	status, body, err := f.Fetch(context.Background(), srv.URL, http.Header{"X-Trace": {"abc"}})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "<html>ok</html>", string(body))
	require.Len(t, agents, 1)
	assert.Contains(t, []string{"agent-one", "agent-two"}, agents[0])
	assert.Equal(t, "abc", extra)
}

func TestHTTPFetcher_RetriesNon2xx(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("third time"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig(), zap.NewNop())
	status, body, err := f.Fetch(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "third time", string(body))
	assert.Equal(t, int32(3), hits.Load())
}

func TestHTTPFetcher_Exhausted(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig(), zap.NewNop())
	status, body, err := f.Fetch(context.Background(), srv.URL, nil)

	require.Error(t, err)
	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, srv.URL, fetchErr.URL)
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Nil(t, body)
	assert.Equal(t, int32(3), hits.Load())
}

func TestHTTPFetcher_RandomUserAgent(t *testing.T) {
	var agent atomic.Value
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.UserAgent())
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.RandomUserAgents = true
	f := NewHTTPFetcher(cfg, zap.NewNop())
	_, _, err := f.Fetch(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	ua, _ := agent.Load().(string)
	assert.NotEmpty(t, ua)
}

func TestHTTPFetcher_CanceledContext(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.BackoffUnit = time.Hour
	f := NewHTTPFetcher(cfg, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err := f.Fetch(ctx, srv.URL, nil)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
