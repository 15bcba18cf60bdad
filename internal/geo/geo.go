// Package geo resolves an IP address to location attributes via an external
// HTTP oracle (echoip-compatible: GET <endpoint>/json?ip=<ip>).
//
// All failures here are soft: the caller stores the event with empty geo
// fields rather than dropping it, so lookups must never block ingestion for
// long. The HTTP client carries a short timeout for that reason.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/umber-analytics/umber/internal/model"
)

const (
	// DefaultTimeout bounds a single oracle round-trip.
	DefaultTimeout = 2 * time.Second

	// cacheKeyFmt is the Redis key template for cached lookups.
	cacheKeyFmt = "geo:%s"
	// cacheTTL is how long a cached lookup stays valid. Geo data for an IP
	// moves slowly; a day keeps the oracle traffic negligible.
	cacheTTL = 24 * time.Hour
)

// Client queries the geolocation oracle, optionally reading through a
// Redis cache when one is configured.
type Client struct {
	endpoint string
	http     *http.Client
	cache    *redis.Client // nil when caching is disabled
	logger   *zap.Logger
}

// New builds a Client for the given oracle base endpoint. cache may be nil.
func New(endpoint string, timeout time.Duration, cache *redis.Client, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		cache:    cache,
		logger:   logger,
	}
}

// Lookup resolves ip to geo attributes. Network errors, non-2xx statuses
// and undecodable bodies are returned as errors; the caller decides how
// soft to treat them.
func (c *Client) Lookup(ctx context.Context, ip string) (model.GeoInfo, error) {
	if info, ok := c.cached(ctx, ip); ok {
		return info, nil
	}

	reqURL := c.endpoint + "/json?ip=" + url.QueryEscape(ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("building geo request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("geo oracle unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.GeoInfo{}, fmt.Errorf("geo oracle returned status %d", resp.StatusCode)
	}

	var info model.GeoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.GeoInfo{}, fmt.Errorf("decoding geo response: %w", err)
	}

	c.store(ctx, ip, info)
	return info, nil
}

// cached returns a previously resolved lookup from Redis. Cache errors are
// logged and treated as misses.
func (c *Client) cached(ctx context.Context, ip string) (model.GeoInfo, bool) {
	if c.cache == nil {
		return model.GeoInfo{}, false
	}

	key := fmt.Sprintf(cacheKeyFmt, ip)
	val, err := c.cache.Get(ctx, key).Result()
	if err == redis.Nil {
		return model.GeoInfo{}, false
	}
	if err != nil {
		c.logger.Warn("geo cache read failed", zap.String("key", key), zap.Error(err))
		return model.GeoInfo{}, false
	}

	var info model.GeoInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		c.logger.Warn("geo cache entry corrupt", zap.String("key", key), zap.Error(err))
		return model.GeoInfo{}, false
	}
	return info, true
}

// store writes a lookup result to Redis, best effort.
func (c *Client) store(ctx context.Context, ip string, info model.GeoInfo) {
	if c.cache == nil {
		return
	}

	b, err := json.Marshal(info)
	if err != nil {
		return
	}
	key := fmt.Sprintf(cacheKeyFmt, ip)
	if err := c.cache.Set(ctx, key, b, cacheTTL).Err(); err != nil {
		c.logger.Warn("geo cache write failed", zap.String("key", key), zap.Error(err))
	}
}
