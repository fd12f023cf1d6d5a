package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/liquorlane/liquorfront/internal/backend"
	"github.com/liquorlane/liquorfront/internal/config"
	"github.com/liquorlane/liquorfront/internal/events"
	"github.com/liquorlane/liquorfront/internal/httpserver"
	"github.com/liquorlane/liquorfront/internal/localstate"
	"github.com/liquorlane/liquorfront/internal/logging"
	"github.com/liquorlane/liquorfront/internal/search"
	"github.com/liquorlane/liquorfront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	state, err := localstate.Open(cfg.StatePath)
	if err != nil {
		log.Fatalf("local state: %v", err)
	}

	var producer *events.Producer
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	}

	var index store.ProductIndexer
	var searcher httpserver.Searcher
	if cfg.ESURL != "" {
		idx, err := search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			log.Fatalf("search index: %v", err)
		}
		index = idx
		searcher = idx
	}

	api := backend.NewClient(cfg.BackendURL)
	session := store.NewSessionStore(api, state, publisher, logger)
	cart := store.NewCartStore(api, session, publisher, logger)
	catalog := store.NewCatalogStore(api, session, index, publisher, logger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	if err := catalog.Fetch(startCtx); err != nil {
		logger.Warn("initial catalog fetch failed", "error", err)
	}
	if session.IsAuthenticated() {
		if err := cart.Fetch(startCtx); err != nil {
			logger.Warn("initial cart fetch failed", "error", err)
		}
	}
	cancelStart()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		SessionHandler:  &httpserver.SessionHandler{Store: session},
		CatalogHandler:  &httpserver.CatalogHandler{Store: catalog},
		CartHandler:     &httpserver.CartHandler{Store: cart},
		CheckoutHandler: &httpserver.CheckoutHandler{API: api, Session: session, Cart: cart},
		SearchHandler:   &httpserver.SearchHandler{Index: searcher},
		Session:         session,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("storefront listening", "addr", cfg.ListenAddr, "backend", cfg.BackendURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	if err := state.Close(); err != nil {
		logger.Error("local state close error", "error", err)
	}

	logger.Info("shutdown complete")
}
