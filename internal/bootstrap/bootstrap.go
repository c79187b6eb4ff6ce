// Package bootstrap wires configuration into constructed services. Every
// component receives its dependencies explicitly; there is no hidden
// global state beyond the process-wide logger.
package bootstrap

import (
	"github.com/redis/go-redis/v9"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/config"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/filestore"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/httpx"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/logx"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/provider"
	redisstore "github.com/valutatrade/valutatrade-hub/internal/infrastructure/redis"
)

// BuildRateStore constructs the single rate store handle shared by every
// component in the process.
func BuildRateStore(cfg config.Config) *filestore.RateStore {
	return filestore.NewRateStore(cfg.SnapshotPath, cfg.HistoryPath)
}

// BuildSources constructs the configured rate source adapters.
// SOURCE_MODE=fake swaps in static sources for offline development.
func BuildSources(cfg config.Config) []application.RateSource {
	if cfg.SourceMode == "fake" {
		return []application.RateSource{
			provider.NewFake("CoinGecko", map[domain.Pair]float64{
				domain.MakePair("BTC", cfg.BaseCurrency): 59337.21,
				domain.MakePair("ETH", cfg.BaseCurrency): 3720.00,
			}),
			provider.NewFake("ExchangeRate-API", map[domain.Pair]float64{
				domain.MakePair("EUR", cfg.BaseCurrency): 1.0786,
				domain.MakePair("GBP", cfg.BaseCurrency): 1.27,
			}),
		}
	}
	client := httpx.New(cfg.RequestTimeout)
	return []application.RateSource{
		&provider.CoinGecko{
			BaseURL: cfg.CoinGeckoURL,
			Base:    cfg.BaseCurrency,
			Assets:  cfg.CryptoAssets,
			Client:  client,
		},
		&provider.ExchangeRateAPI{
			BaseURL:    cfg.ExchangeRateAPIURL,
			APIKey:     cfg.ExchangeRateAPIKey,
			Base:       cfg.BaseCurrency,
			Currencies: cfg.FiatCurrencies,
			Client:     client,
		},
	}
}

// BuildUpdateService assembles the update coordinator.
func BuildUpdateService(cfg config.Config, store *filestore.RateStore, observer application.UpdateObserver) *application.UpdateService {
	opts := []application.UpdateOption{application.WithLogger(logx.L())}
	if observer != nil {
		opts = append(opts, application.WithObserver(observer))
	}
	return application.NewUpdateService(store, BuildSources(cfg), opts...)
}

// BuildWalletService assembles the account/portfolio service on the shared
// rate store.
func BuildWalletService(cfg config.Config, store *filestore.RateStore) *application.WalletService {
	ws := filestore.NewWalletStore(cfg.DataDir)
	return application.NewWalletService(ws, ws, ws, store, cfg.BaseCurrency, cfg.CacheTTL)
}

// BuildRefreshGuard returns the refresh deduplication store; Redis when
// enabled, otherwise a no-op guard.
func BuildRefreshGuard(cfg config.Config) (application.RefreshGuard, func(), error) {
	if cfg.RefreshGuardBackend != "redis" {
		return application.NoopGuard{}, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cleanup := func() { _ = rdb.Close() }
	return redisstore.New(rdb, cfg.RedisTTL), cleanup, nil
}
