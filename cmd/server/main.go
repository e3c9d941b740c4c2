package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/bootstrap"
	"github.com/koop46/crypto-prices/internal/config"
	"github.com/koop46/crypto-prices/internal/domain"
	infraconfig "github.com/koop46/crypto-prices/internal/infrastructure/config"
	httpserver "github.com/koop46/crypto-prices/internal/infrastructure/http"
	"github.com/koop46/crypto-prices/internal/infrastructure/logx"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := bootstrap.BuildStore(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap store", zap.Error(err))
	}
	defer closeStore()

	guard, closeGuard := bootstrap.BuildGuard(cfg)
	defer closeGuard()

	fetcher := bootstrap.BuildFetcher(cfg)

	sched := application.NewScheduler(
		fetcher,
		store.History,
		domain.CredentialTail(cfg.APIKey),
		cfg.RefreshInterval,
		logger,
	)
	go sched.Start(ctx)

	srv := httpserver.NewServer(sched, store.History, guard)
	if store.Ping != nil {
		srv.SetReadyCheck(store.Ping)
	}
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
