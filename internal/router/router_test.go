package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/combat-tiers/internal/config"
	"github.com/iliyamo/combat-tiers/internal/handler"
	"github.com/iliyamo/combat-tiers/internal/middleware"
	"github.com/iliyamo/combat-tiers/internal/model"
	"github.com/iliyamo/combat-tiers/internal/repository/memory"
)

func newServer(t *testing.T, rdb *redis.Client) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewPlayerHandler(memory.New(), nil, logger)
	return New(h, Options{
		Redis:     rdb,
		Cache:     config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Logger:    logger,
	})
}

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func names(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var players []model.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &players))
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.PlayerName)
	}
	return out
}

func TestCachedListingFollowsWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	srv := newServer(t, rdb)

	require.Equal(t, http.StatusCreated, call(srv, http.MethodPost, "/api/players", `{"playerName":"Ann","tier":"LT1","region":"EU"}`).Code)

	first := call(srv, http.MethodGet, "/api/players", "")
	assert.Equal(t, []string{"Ann"}, names(t, first))
	assert.Equal(t, "MISS", first.Header().Get(middleware.CacheHeader))
	second := call(srv, http.MethodGet, "/api/players", "")
	assert.Equal(t, "HIT", second.Header().Get(middleware.CacheHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Len(t, second.Header().Values("Access-Control-Allow-Origin"), 1)
	assert.Equal(t, first.Header().Values("Vary"), second.Header().Values("Vary"))

	require.Equal(t, http.StatusCreated, call(srv, http.MethodPost, "/api/players", `{"playerName":"Bo","tier":"HT2","region":"NA"}`).Code)
	assert.Equal(t, []string{"Bo", "Ann"}, names(t, call(srv, http.MethodGet, "/api/players", "")))

	require.Equal(t, http.StatusOK, call(srv, http.MethodDelete, "/api/players/1", "").Code)
	assert.Equal(t, []string{"Bo"}, names(t, call(srv, http.MethodGet, "/api/players", "")))

	assert.Equal(t, http.StatusNotFound, call(srv, http.MethodDelete, "/api/players/1", "").Code)
}

func TestRoutesWithoutRedis(t *testing.T) {
	srv := newServer(t, nil)

	rec := call(srv, http.MethodGet, "/api/players", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(middleware.CacheHeader))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = call(srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = call(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, "ok", rec.Body.String())

	rec = call(srv, http.MethodOptions, "/api/players/3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
