package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wildcloud/starter-api/internal/api/handler"
	"github.com/wildcloud/starter-api/internal/api/middleware"
	"github.com/wildcloud/starter-api/internal/core/ports"
	"github.com/wildcloud/starter-api/internal/core/service"
	"github.com/wildcloud/starter-api/internal/infrastructure/db/postgres"
	"github.com/wildcloud/starter-api/internal/infrastructure/db/redis"
	"github.com/wildcloud/starter-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. Every inbound request passes the geo filter first, then the
// session guard; handlers downstream read the injected identity.
func NewRouter(db *sql.DB, rdb *goredis.Client, store ports.ObjectStore, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	kv := redis.NewKV(rdb)
	userRepo := postgres.NewUserRepository(db)
	sessionService := service.NewSessionService(kv, userRepo, log)
	authService := service.NewAuthService(userRepo, sessionService, cfg.JWTSecret, 0, log)
	avatarService := service.NewAvatarService(store, userRepo, sessionService, log)

	geoFilter := middleware.NewGeoFilter(middleware.GeoConfig{
		BlockedCountries: cfg.Geo.BlockedCountries,
		AllowedCountries: cfg.Geo.AllowedCountries,
		BlockMessage:     cfg.Geo.BlockMessage,
		RedirectURL:      cfg.Geo.RedirectURL,
	})
	sessionGuard := middleware.SessionGuard(authService, middleware.RouteRules{
		ProtectedPages: cfg.Routes.ProtectedPages,
		ProtectedAPIs:  cfg.Routes.ProtectedAPIs,
		AuthPages:      cfg.Routes.AuthPages,
	}, log)

	// --- Global middleware (order matters: geo short-circuits first) ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("starter"))
	e.Use(geoFilter.Middleware(log))
	e.Use(sessionGuard)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	settingsHandler := handler.NewSettingsHandler(sessionService)
	avatarHandler := handler.NewAvatarHandler(avatarService)
	kvHandler := handler.NewKVHandler(kv)
	geoHandler := handler.NewGeoHandler()

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.GET("/api/auth/me", authHandler.Me)

	// --- Settings / uploads ---
	e.POST("/api/language", settingsHandler.SetLanguage)
	e.GET("/api/settings", settingsHandler.GetSettings)
	e.POST("/api/avatar", avatarHandler.Upload)

	// --- Raw cache pass-through ---
	e.GET("/api/kv", kvHandler.Get)
	e.POST("/api/kv", kvHandler.Put)
	e.DELETE("/api/kv", kvHandler.Delete)

	// --- Diagnostics ---
	e.GET("/api/geo", geoHandler.Country)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
