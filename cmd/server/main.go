package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/oreshnik/storefront/internal/config"
	"github.com/oreshnik/storefront/internal/db"
	"github.com/oreshnik/storefront/internal/es"
	"github.com/oreshnik/storefront/internal/httpserver"
	"github.com/oreshnik/storefront/internal/hypertext"
	"github.com/oreshnik/storefront/internal/logging"
	"github.com/oreshnik/storefront/internal/middleware/loggingmw"
	"github.com/oreshnik/storefront/internal/mykafka"
	"github.com/oreshnik/storefront/internal/repo"
	"github.com/oreshnik/storefront/internal/service"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	renderer, err := hypertext.NewRenderer()
	if err != nil {
		logger.Error("template parsing failed", "error", err)
		os.Exit(1)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()
	if producer == nil {
		logger.Warn("kafka disabled, events will be dropped")
	}

	r := &repo.GormRepo{DB: gdb}
	cartSvc := &service.CartService{Repo: r}
	checkoutSvc := &service.CheckoutService{Repo: r}
	paymentSvc := &service.PaymentService{Repo: r}
	catalogSvc := &service.CatalogService{Repo: r}
	authSvc := &service.AuthService{Repo: r}

	deps := httpserver.Deps{
		Cart: &httpserver.CartHTTP{Svc: cartSvc, Renderer: renderer, Producer: producer},
		Checkout: &httpserver.CheckoutHTTP{
			Svc:        checkoutSvc,
			Cart:       cartSvc,
			Users:      authSvc,
			Renderer:   renderer,
			Producer:   producer,
			SuccessURL: cfg.SuccessPageURL,
		},
		Payment: &httpserver.PaymentHTTP{
			Svc:        paymentSvc,
			Renderer:   renderer,
			Producer:   producer,
			SuccessURL: cfg.SuccessPageURL,
		},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalogSvc, ESIndex: cfg.ESIndex},
		Auth:      &httpserver.AuthHTTP{Svc: authSvc, JWTSecret: cfg.JWTSecret},
		JWTSecret: cfg.JWTSecret,
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			logger.Error("elasticsearch unavailable, search disabled", "error", err)
		} else {
			deps.Catalog.ES = esClient
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("server starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
