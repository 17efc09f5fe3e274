package scraper

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"quiz-scraper/internal/cache"
	"quiz-scraper/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cachedCommentsFetcher keeps discussion threads in the cache and collapses
// concurrent lookups of the same link.
type cachedCommentsFetcher struct {
	next   domain.CommentsFetcher
	cache  domain.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewCachedCommentsFetcher wraps next with a cache. Empty threads are not
// cached so a failed first page is retried on the next lookup.
func NewCachedCommentsFetcher(next domain.CommentsFetcher, c domain.Cache, ttl time.Duration, logger *zap.Logger) domain.CommentsFetcher {
	return &cachedCommentsFetcher{next: next, cache: c, ttl: ttl, logger: logger}
}

// DiscussionCacheKey is the cache key for a discussion link.
func DiscussionCacheKey(link string) string {
	sum := sha1.Sum([]byte(link))
	return cache.GenerateCacheKey("scraper", "discussion", hex.EncodeToString(sum[:]))
}

func (c *cachedCommentsFetcher) FetchAll(ctx context.Context, link string) ([]string, error) {
	key := DiscussionCacheKey(link)

	cached, err := c.cache.Get(ctx, key)
	if err == nil {
		var comments []string
		if jsonErr := json.Unmarshal([]byte(cached), &comments); jsonErr == nil {
			c.logger.Debug("Discussion cache hit", zap.String("link", link))
			return comments, nil
		}
		c.logger.Warn("Discarding malformed discussion cache entry", zap.String("key", key))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		c.logger.Warn("Discussion cache lookup failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		comments, err := c.next.FetchAll(ctx, link)
		if err != nil {
			return nil, err
		}
		if len(comments) > 0 {
			payload, marshalErr := json.Marshal(comments)
			if marshalErr == nil {
				if setErr := c.cache.Set(ctx, key, string(payload), c.ttl); setErr != nil {
					c.logger.Warn("Failed to cache discussion", zap.String("key", key), zap.Error(setErr))
				}
			}
		}
		return comments, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
