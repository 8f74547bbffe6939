// Package router registers the HTTP routes of the Player API.
package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/combat-tiers/internal/config"
	"github.com/iliyamo/combat-tiers/internal/handler"
	"github.com/iliyamo/combat-tiers/internal/middleware"
)

// Options carries the optional Redis-backed features. A nil Redis client
// turns both of them off.
type Options struct {
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Logger    *slog.Logger
}

// New builds an echo instance with the global middleware stack and every
// route registered.
func New(players *handler.PlayerHandler, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.CORS())

	RegisterRoutes(e)
	RegisterPlayers(e, players, opts)
	return e
}

// RegisterRoutes registers the unauthenticated probe endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Healthz)
	e.GET("/api/health", handler.Health)
}

// RegisterPlayers mounts the player CRUD endpoints under /api. The API
// performs no authentication.
func RegisterPlayers(e *echo.Echo, h *handler.PlayerHandler, opts Options) {
	g := e.Group("/api/players",
		middleware.NewTokenBucket(opts.RateLimit, opts.Redis, opts.Logger),
		middleware.InvalidateCache(opts.Cache, opts.Redis, opts.Logger),
		middleware.NewRedisCache(opts.Cache, opts.Redis),
	)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
