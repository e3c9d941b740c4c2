package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/config"
	"github.com/koop46/crypto-prices/internal/infrastructure/csvstore"
	"github.com/koop46/crypto-prices/internal/infrastructure/logx"
	"github.com/koop46/crypto-prices/internal/infrastructure/pg"
	"github.com/koop46/crypto-prices/internal/infrastructure/provider"
	redisstore "github.com/koop46/crypto-prices/internal/infrastructure/redis"
)

// Store bundles the history store with an optional readiness ping.
type Store struct {
	History application.HistoryStore
	Ping    func(ctx context.Context) error
}

// BuildStore builds the history store based on STORAGE ("csv" or "pg").
func BuildStore(ctx context.Context, cfg config.Config) (Store, func(), error) {
	log := logx.L()

	switch cfg.Storage {
	case "csv":
		return Store{History: csvstore.New(cfg.DataFile)}, func() {}, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return Store{}, func() {}, fmt.Errorf("DATABASE_URL is required for STORAGE=pg")
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Store{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Store{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Store{History: pg.NewHistoryRepo(db), Ping: db.Ping}, cleanup, nil
	default:
		return Store{}, func() {}, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}
}

// BuildFetcher returns the upstream price source. Without an API key the
// fake source keeps local development working offline.
func BuildFetcher(cfg config.Config) application.PriceFetcher {
	if cfg.APIKey == "" {
		logx.L().Warn("API_KEY not set, using fake price source")
		return provider.NewFake(4.0, 0.001, 10.0)
	}
	return provider.NewCoinGecko(cfg.APIBaseURL, cfg.APIKey, cfg.FetchTimeout)
}

// BuildGuard builds the manual-refresh dedup guard ("redis" or "none").
func BuildGuard(cfg config.Config) (application.RefreshGuard, func()) {
	if cfg.RefreshGuard != "redis" {
		return redisstore.NoopGuard{}, func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return redisstore.New(rdb, cfg.RefreshGuardTTL), func() { _ = rdb.Close() }
}
