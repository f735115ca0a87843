package middleware

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// CacheConfig configures the cache middleware
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
	// PathKey maps a request to the path part of its key. Nil uses the URL path.
	PathKey func(c *gin.Context) string
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:       10 * time.Minute,
		KeyPrefix: "bannermaster:cache:",
	}
}

// cachedHeaders are replayed on a cache hit.
var cachedHeaders = []string{"Content-Type", "Content-Disposition", "ETag"}

type cachedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body"`
}

// Cache returns a gin middleware that caches successful GET responses in
// Redis. A nil client disables caching.
func Cache(redisClient *redis.Client, cfg CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || redisClient == nil {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if cfg.PathKey != nil {
			path = cfg.PathKey(c)
		}
		key := CacheKey(cfg, path, c.Request.URL.RawQuery)
		ctx := c.Request.Context()

		val, err := redisClient.Get(ctx, key).Bytes()
		if err == nil {
			var cached cachedResponse
			if json.Unmarshal(val, &cached) == nil {
				if etag := cached.Headers["ETag"]; etag != "" && NotModified(c, etag) {
					c.Header("X-Cache", "HIT")
					return
				}
				for k, v := range cached.Headers {
					c.Header(k, v)
				}
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, cached.Headers["Content-Type"], cached.Body)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			logging.WarnWithComponent(logging.ComponentCache, "Cache lookup failed", "key", key, "error", err)
		}

		c.Header("X-Cache", "MISS")
		w := &responseWriter{ResponseWriter: c.Writer, body: make([]byte, 0, 4096)}
		c.Writer = w

		c.Next()

		status := w.Status()
		if status < 200 || status >= 300 {
			return
		}
		headers := make(map[string]string, len(cachedHeaders))
		for _, h := range cachedHeaders {
			if v := w.Header().Get(h); v != "" {
				headers[h] = v
			}
		}
		data, err := json.Marshal(cachedResponse{Status: status, Headers: headers, Body: w.body})
		if err != nil {
			return
		}
		if err := redisClient.Set(ctx, key, data, cfg.TTL).Err(); err != nil {
			logging.WarnWithComponent(logging.ComponentCache, "Cache store failed", "key", key, "error", err)
		}
	}
}

// CacheWithTTL is a shorthand for Cache with a custom TTL
func CacheWithTTL(redisClient *redis.Client, ttl time.Duration) gin.HandlerFunc {
	cfg := DefaultCacheConfig()
	cfg.TTL = ttl
	return Cache(redisClient, cfg)
}

// CacheKey builds the Redis key of a request. Keys of one path share a
// prefix so InvalidatePath can drop every query variant.
func CacheKey(cfg CacheConfig, path, query string) string {
	sum := blake2b.Sum256([]byte(query))
	return cfg.KeyPrefix + path + ":" + hex.EncodeToString(sum[:8])
}

// InvalidatePath deletes every cached variant of path.
func InvalidatePath(ctx context.Context, redisClient *redis.Client, cfg CacheConfig, path string) {
	if redisClient == nil {
		return
	}
	iter := redisClient.Scan(ctx, 0, cfg.KeyPrefix+path+":*", 100).Iterator()
	for iter.Next(ctx) {
		redisClient.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logging.WarnWithComponent(logging.ComponentCache, "Cache invalidation failed", "path", path, "error", err)
	}
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}

// NewRedisClient connects to the Redis server at url and verifies the
// connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
