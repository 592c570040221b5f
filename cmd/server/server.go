package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/urban-jungle/backend/internal/advice"
	"github.com/urban-jungle/backend/internal/api"
	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/config"
	"github.com/urban-jungle/backend/internal/garden"
	"github.com/urban-jungle/backend/internal/web"
)

func provideEcho(cfg *config.AppConfig, logger *zap.Logger, cat *catalog.Catalog, store *garden.Store, advisor advice.Advisor) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewErrorHandler(cfg.Server.ErrorDetails)

	e.Use(middleware.RequestID())
	e.Use(api.RequestLogger(logger.Named("http"), cfg.Logging.EnableRequestLogging))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/msgpack")
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  origins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			ExposeHeaders: []string{echo.HeaderContentDisposition},
		}))
	}

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Catalog: cat,
		Store:   store,
		Advisor: advisor,
		Logger:  logger.Named("api"),
		Now:     time.Now,
		Version: Version,
		Backend: cfg.Storage.Backend,
	}))

	if web.HasEmbeddedFiles() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			logger.Warn("failed to register static routes", zap.Error(err))
		}
	}

	return e
}

func startServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.AppConfig, logger *zap.Logger) {
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			printBanner(cfg)
			go func() {
				if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("server stopped", zap.Error(err))
				}
			}()
			logger.Info("server listening", zap.String("addr", s.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			return e.Shutdown(ctx)
		},
	})
}

func printBanner(cfg *config.AppConfig) {
	adviceState := "disabled (no API key)"
	if cfg.Advice.APIKey != "" {
		adviceState = cfg.Advice.Model
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Urban Jungle Server                             ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Storage:    %-45s║\n", cfg.Storage.Backend)
	fmt.Printf("║  Advice:     %-45s║\n", adviceState)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.Storage.DataDirectory)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
	fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
}
