package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/docs"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/config"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/database"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/database/migration"
	handlers "github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/http/handler"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/http/middleware"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/logger"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/notify"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/otel"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository/postgres"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/service"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/storage"
)

// @title Easydoc Routing API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// PostgreSQL connection with pooling; driver calls are traced via otelsql
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	// S3-compatible object storage for attachment blobs
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		zlog.Fatal("failed to initialize object storage", zap.Error(err))
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var notifier notify.Notifier = notify.NewLogNotifier(zlog)
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL)
	}

	dispatcher, err := notify.NewDispatcher(
		notifier,
		zlog,
		promRegistry,
		notify.DispatcherOptions{
			QueueSize: cfg.Notify.QueueSize,
			Workers:   cfg.Notify.Workers,
			Timeout:   time.Duration(cfg.Notify.TimeoutSec) * time.Second,
		},
	)
	if err != nil {
		zlog.Fatal("failed to start notification dispatcher", zap.Error(err))
	}

	// Repositories and services
	sentRepo := postgres.NewSentPostgres(db)
	historyRepo := postgres.NewStatusHistoryPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	docSvc := service.NewDocumentService(objStore, docRepo)
	chainSvc := service.NewChainService(sentRepo, historyRepo)
	statusSvc := service.NewStatusService(sentRepo, dispatcher)
	routingSvc := service.NewRoutingService(sentRepo, userRepo, docSvc, chainSvc, dispatcher)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(promRegistry)
	if err != nil {
		zlog.Fatal("failed to register http metrics", zap.Error(err))
	}

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.ActorID())
	app.Use(middleware.Logger(zlog))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, handlers.Services{
		Routing:  routingSvc,
		Chain:    chainSvc,
		Status:   statusSvc,
		Document: docSvc,
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/index.html", fiber.StatusFound)
	})
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	// Serve until interrupted, then drain in-flight work
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zlog.Fatal("server stopped", zap.Error(err))
	case sig := <-stop:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("http shutdown failed", zap.Error(err))
	}
	dispatcher.Close()
	if err := shutdownTracing(shutdownCtx); err != nil {
		zlog.Error("tracing shutdown failed", zap.Error(err))
	}
}
