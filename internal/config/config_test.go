package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "USD", cfg.BaseCurrency)
	require.Equal(t, "data/rates.json", cfg.SnapshotPath)
	require.Equal(t, "data/exchange_rates.json", cfg.HistoryPath)
	require.Equal(t, 300*time.Second, cfg.CacheTTL)
	require.Equal(t, 300*time.Second, cfg.RefreshInterval)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, "none", cfg.RefreshGuardBackend)
	require.Empty(t, cfg.ExchangeRateAPIKey, "no key may ship as a default")
	require.Equal(t, "bitcoin", cfg.CryptoAssets["BTC"])
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BASE_CURRENCY", "eur")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("FIAT_CURRENCIES", " usd , gbp ")
	t.Setenv("CRYPTO_ASSETS", "btc:Bitcoin, bad, ETH:ethereum")

	cfg := Load()
	require.Equal(t, "EUR", cfg.BaseCurrency)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, []string{"USD", "GBP"}, cfg.FiatCurrencies)
	require.Equal(t, map[string]string{"BTC": "bitcoin", "ETH": "ethereum"}, cfg.CryptoAssets)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()
	require.Equal(t, 300*time.Second, cfg.CacheTTL)
	require.Zero(t, cfg.RedisDB)
}
