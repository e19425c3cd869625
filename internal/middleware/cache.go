package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// ResponseCache caches successful GET responses in Redis. All cached
// endpoints are world-readable, so entries are keyed by route and query
// only, never by caller. Mutating requests flush the whole prefix, which
// keeps cached listings consistent with writes at the cost of a cold cache
// after every mutation. A nil *ResponseCache or nil Redis client disables
// caching entirely.
type ResponseCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewResponseCache builds a cache over the given client. Returns nil when
// the client is nil so callers can wire it unconditionally.
func NewResponseCache(rdb *redis.Client, prefix string, ttl time.Duration) *ResponseCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ResponseCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

// captureWriter captures the response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Middleware serves GETs from the cache and flushes the prefix after any
// non-GET request that succeeds.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if rc == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				if err := next(c); err != nil {
					return err
				}
				if c.Response().Status < http.StatusBadRequest {
					rc.Flush(c.Request().Context())
				}
				return nil
			}

			ctx := c.Request().Context()
			key := rc.key(c)

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil && len(bs) >= 4 {
				status := int(binary.BigEndian.Uint32(bs[:4]))
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().WriteHeader(status)
				_, _ = c.Response().Write(bs[4:])
				return nil
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				payload := make([]byte, 4+cw.buf.Len())
				binary.BigEndian.PutUint32(payload[:4], uint32(cw.status))
				copy(payload[4:], cw.buf.Bytes())
				_ = rc.rdb.SetEx(context.Background(), key, payload, rc.ttl).Err()
			}
			return nil
		}
	}
}

// Flush removes every entry under the cache prefix. Errors are ignored;
// a stale miss is cheaper than failing the mutation that triggered it.
func (rc *ResponseCache) Flush(ctx context.Context) {
	if rc == nil {
		return
	}
	iter := rc.rdb.Scan(ctx, 0, rc.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = rc.rdb.Del(ctx, keys...).Err()
	}
}

// key builds a stable cache key from the request path and raw query.
func (rc *ResponseCache) key(c echo.Context) string {
	sum := sha1.Sum([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", rc.prefix, sum[:])
}
