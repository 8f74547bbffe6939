package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/combat-tiers/internal/config"
)

// CacheHeader reports whether a GET response came from Redis.
const CacheHeader = "X-Cache"

// captureWriter tees the response body into a bounded buffer while
// forwarding everything to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
	over   bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.over {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.over = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// generationKey holds a counter bumped by every flush. Entry keys embed the
// generation they were read under, so a GET that was already running when a
// write flushed the cache stores its body under a key nobody reads again.
func generationKey(prefix string) string {
	return prefix + ":gen"
}

func cacheGeneration(ctx context.Context, rdb *redis.Client, prefix string) (int64, error) {
	gen, err := rdb.Get(ctx, generationKey(prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func cacheKey(prefix string, gen int64, c echo.Context) string {
	tail := "route:" + c.Path() + ":q:" + c.Request().URL.RawQuery
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:g%d:%x", prefix, gen, sum[:])
}

// storedHeader reports whether a response header belongs in a cache entry.
// Headers the outer middleware sets on every request (CORS, Vary) are
// left out so a hit does not repeat them.
func storedHeader(k string) bool {
	k = http.CanonicalHeaderKey(k)
	switch {
	case k == echo.HeaderContentLength, k == CacheHeader, k == echo.HeaderVary:
		return false
	case strings.HasPrefix(k, "Access-Control-"):
		return false
	}
	return true
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewRedisCache serves repeated GET requests from Redis. Only 200 responses
// are stored. Other methods pass straight through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			gen, err := cacheGeneration(ctx, rdb, cfg.Prefix)
			if err != nil {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, gen, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					out := c.Response().Header()
					for k, vals := range hdr {
						if !storedHeader(k) || len(out.Values(k)) > 0 {
							continue
						}
						for _, v := range vals {
							out.Add(k, v)
						}
					}
					c.Response().Header().Set(CacheHeader, "HIT")
					c.Response().WriteHeader(status)
					_, werr := c.Response().Write(body)
					return werr
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set(CacheHeader, "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.over {
				return nil
			}
			hdr := make(http.Header)
			for k, vals := range c.Response().Header() {
				if storedHeader(k) {
					hdr[k] = append([]string(nil), vals...)
				}
			}
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err()
			}
			return nil
		}
	}
}

// flushingWriter drops the cache just before a successful status line is
// sent, so no client can observe the old listing after a write returns.
type flushingWriter struct {
	http.ResponseWriter
	flush func()
}

func (fw *flushingWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		fw.flush()
	}
	fw.ResponseWriter.WriteHeader(code)
}

// InvalidateCache flushes every cached response when a write request
// succeeds.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			ctx := c.Request().Context()
			c.Response().Writer = &flushingWriter{
				ResponseWriter: c.Response().Writer,
				flush: func() {
					if err := FlushCache(ctx, rdb, cfg.Prefix); err != nil {
						logger.Warn("cache flush failed", "prefix", cfg.Prefix, "error", err)
					}
				},
			}
			return next(c)
		}
	}
}

// FlushCache bumps the generation and deletes every entry under prefix.
func FlushCache(ctx context.Context, rdb *redis.Client, prefix string) error {
	genKey := generationKey(prefix)
	if err := rdb.Incr(ctx, genKey).Err(); err != nil {
		return err
	}
	iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		if k := iter.Val(); k != genKey {
			keys = append(keys, k)
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
