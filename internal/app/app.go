package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"crypto-analyst-bot/internal/bot"
	"crypto-analyst-bot/internal/config"
	httphandler "crypto-analyst-bot/internal/handler/http"
	"crypto-analyst-bot/internal/market"
	"crypto-analyst-bot/internal/market/coingecko"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/internal/service"
	"crypto-analyst-bot/internal/session"
	"crypto-analyst-bot/storage/db"
	"crypto-analyst-bot/storage/redis"

	"github.com/gin-gonic/gin"
)

type App struct {
	cfg        *config.Config
	log        *slog.Logger
	storage    *db.Storage
	subscriber *redis.Subscriber
	scheduler  *market.Scheduler
	registry   service.Registry
	httpServer *http.Server

	// Dispatcher is the inbound edge: the chat transport feeds updates
	// into it.
	Dispatcher *bot.Dispatcher

	ctx    context.Context
	cancel context.CancelFunc
}

func New(log *slog.Logger, cfg *config.Config, replier bot.Replier) *App {
	ctx, cancel := context.WithCancel(context.Background())

	storage, err := db.New(cfg.Database)
	if err != nil {
		panic(fmt.Errorf("failed to init storage: %w", err))
	}

	usersRepo := repository.NewUsersRepository(storage.DB)
	adminsRepo := repository.NewAdminsRepository(storage.DB)
	coinsRepo := repository.NewCoinsRepository(storage.DB)

	directory := service.NewDirectory(usersRepo, storage.DB, log)
	registry := service.NewRegistry(adminsRepo, usersRepo, storage.DB, log)

	fetcher := coingecko.NewClient(coingecko.Config{
		BaseURL: cfg.Market.BaseURL,
		Timeout: cfg.Market.FetchTimeout,
	})
	marketService := service.NewMarket(coinsRepo, fetcher, cfg.Market.Currency, cfg.Market.PageSize, log)

	subscriber := redis.NewSubscriber(cfg.Redis.Addr, log)
	scheduler := market.NewScheduler(marketService, subscriber, cfg.Redis.PriceChannel, cfg.Market.SyncSpec, log)

	sessions := session.NewStore()
	analyzer := bot.NewStoreAnalyzer(coinsRepo, cfg.Market.Currency)
	dispatcher := bot.NewDispatcher(directory, registry, coinsRepo, sessions, analyzer, replier, cfg.Market.Currency, log)

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())
	httpHandler := httphandler.NewHandler(storage, usersRepo, adminsRepo, coinsRepo, log)
	httpHandler.RegisterRoutes(ginEngine)

	httpServer := &http.Server{
		Addr:    net.JoinHostPort("", strconv.FormatUint(uint64(cfg.HTTP.Port), 10)),
		Handler: ginEngine,
	}

	return &App{
		cfg:        cfg,
		log:        log,
		storage:    storage,
		subscriber: subscriber,
		scheduler:  scheduler,
		registry:   registry,
		httpServer: httpServer,
		Dispatcher: dispatcher,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (a *App) Run() error {
	a.log.Info("starting application components...")

	if err := a.registry.Bootstrap(a.ctx, a.cfg.Bot.BootstrapAdmins); err != nil {
		return fmt.Errorf("failed to bootstrap admins: %w", err)
	}

	if err := a.scheduler.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start market scheduler: %w", err)
	}

	errChan := make(chan error, 1)

	go func() {
		if err := a.runHTTP(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	err := <-errChan
	a.log.Warn("shutting down application due to an error", "error", err)

	a.Stop()
	return err
}

func (a *App) Stop() {
	a.log.Info("stopping application components gracefully...")

	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.HTTP.Timeout)
	defer shutdownCancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("failed to gracefully shutdown HTTP server", "error", err)
	} else {
		a.log.Info("HTTP server stopped")
	}

	a.scheduler.Stop()
	a.subscriber.Close()

	if err := a.storage.Stop(); err != nil {
		a.log.Error("failed to stop storage", "error", err)
	} else {
		a.log.Info("database connection closed")
	}
}

func (a *App) runHTTP() error {
	const op = "app.runHTTP"

	a.log.Info("HTTP server is running", "addr", a.httpServer.Addr)

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
