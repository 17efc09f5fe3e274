package scraper

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"quiz-scraper/internal/domain"
)

// stubFetcher serves canned pages by URL. Unknown URLs fail like an exhausted fetch.
type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls []string
}

func newStubFetcher(pages map[string]string) *stubFetcher {
	return &stubFetcher{pages: pages, errs: map[string]error{}}
}

func (f *stubFetcher) Fetch(ctx context.Context, url string, headers http.Header) (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return 0, nil, err
	}
	body, ok := f.pages[url]
	if !ok {
		return http.StatusNotFound, nil, &domain.FetchError{URL: url, Attempts: 1, LastCause: errors.New("status 404")}
	}
	return http.StatusOK, []byte(body), nil
}

func (f *stubFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// ManualMockComments lets each test decide how a discussion lookup behaves.
type ManualMockComments struct {
	FetchAllFunc func(ctx context.Context, link string) ([]string, error)
	calls        int
	mu           sync.Mutex
}

func (m *ManualMockComments) FetchAll(ctx context.Context, link string) ([]string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx, link)
	}
	return nil, errors.New("FetchAllFunc not set")
}

func (m *ManualMockComments) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// memoryCache is an in-process domain.Cache.
type memoryCache struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setKeys = append(c.setKeys, key)
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = expiration
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error {
	return nil
}
