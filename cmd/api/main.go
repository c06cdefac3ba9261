package main

import (
	"context"
	"log"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tumanina/docs"
	"tumanina/internal/app"
	"tumanina/internal/config"
	handlers "tumanina/internal/http/handler"
	"tumanina/internal/http/middleware"
	"tumanina/internal/logging"
	"tumanina/internal/otel"
	"tumanina/internal/web"
)

// Uploads are bounded by the request body limit.
const bodyLimit = 25 << 20

// @title Tumanina API
// @version 1.0
// @description Breast cancer awareness content and dashboard API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.String("driver", cfg.DocStoreDriver), zap.Error(err))
	}
	defer stores.Close() //nolint:errcheck

	objStore, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}

	sessions, closeSessions, err := app.OpenSessions(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to open session registry", zap.Error(err))
	}
	defer closeSessions() //nolint:errcheck

	secret, err := app.SessionSecret(cfg.Auth.JWTSecret, logger)
	if err != nil {
		logger.Fatal("failed to generate session secret", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcs, err := app.NewServices(app.ServiceDeps{
		Stores:     stores,
		Storage:    objStore,
		Sessions:   sessions,
		Secret:     secret,
		TTL:        time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
		Registerer: reg,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to build services", zap.Error(err))
	}

	site, err := web.New(web.Deps{
		Site:         svcs.Site,
		Auth:         svcs.Auth,
		Editors:      svcs.Editors(),
		Settings:     svcs.Settings,
		Media:        svcs.Media,
		Dashboard:    svcs.Dashboard,
		Logger:       logger,
		BaseURL:      cfg.SiteBaseURL,
		CookieSecure: cfg.Auth.CookieSecure,
	})
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to register http metrics", zap.Error(err))
	}

	srv := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	// Register global middleware
	srv.Use(recover.New())
	srv.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	srv.Use(middleware.RequestID())
	// Structured request logs
	srv.Use(middleware.Logger(logger))
	srv.Use(promMiddleware.Handler())

	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI; host and scheme come from the public site URL.
	configureSwagger(cfg.SiteBaseURL)
	srv.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(srv, handlers.Deps{
		Ping:      stores.Ping,
		Auth:      svcs.Auth,
		Site:      svcs.Site,
		Editors:   svcs.Editors(),
		Settings:  svcs.Settings,
		Media:     svcs.Media,
		Dashboard: svcs.Dashboard,
	})
	// The HTML site goes last: its catch-all renders the 404 page.
	site.Register(srv)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server starting",
		zap.String("addr", addr),
		zap.String("docstore", cfg.DocStoreDriver),
		zap.String("storage", cfg.StorageDriver),
	)
	if err := srv.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// configureSwagger points the API docs at the host serving the site. It runs once
// before the server starts; an unparsable URL leaves the docs host-relative.
func configureSwagger(baseURL string) {
	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.Schemes = nil
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return
	}
	docs.SwaggerInfo.Host = u.Host
	if u.Scheme != "" {
		docs.SwaggerInfo.Schemes = []string{u.Scheme}
	}
}
