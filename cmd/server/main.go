package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"miningdash/internal/config"
	"miningdash/internal/db"
	"miningdash/internal/handlers"
	"miningdash/internal/logger"
	"miningdash/internal/mining"
	"miningdash/internal/prices"
	"miningdash/internal/services"
	"miningdash/internal/store"
	"miningdash/internal/websocket"
)

func main() {
	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.AppEnv == "production")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	rigs := store.NewRigStore(database)
	portfolio := store.NewPortfolioStore(database)
	transactions := store.NewMiningTransactionStore(database)
	exchanges := store.NewExchangeConnectionStore(database)
	payments := store.NewPaymentStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	priceCache := prices.NewCache(prices.FallbackSnapshot())
	poller := prices.NewPoller(prices.NewClient(cfg.PriceAPIURL), priceCache, hub, cfg.PricePollInterval)

	// Without Redis the per-owner lock only serializes ticks inside this process.
	var locker mining.Locker = mining.NewKeyedMutex()
	if cfg.RedisURL != "" {
		rdb, err := mining.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		locker = mining.NewRedisLocker(rdb, cfg.MiningInterval)
		logger.Info("mining ticks coordinated through redis")
	}

	rewards := services.NewRewardService(txRunner, transactions, portfolio)
	paymentSvc := services.NewPaymentService(txRunner, payments, audit, cfg.PaymentAddress)
	simulator := mining.NewSimulator(rigs, portfolio, rewards, priceCache, hub, locker, mining.NewRandomSource(time.Now().UnixNano()), cfg.MiningInterval)

	go poller.Run(ctx)
	go simulator.Run(ctx)

	handler := handlers.New(txRunner, cfg, users, rigs, portfolio, transactions, exchanges, payments, audit, paymentSvc, priceCache, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("mining dashboard API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("shutdown error: %v", err)
	}
}
