package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	DataDir  string
	// Rates
	BaseCurrency string
	SnapshotPath string
	HistoryPath  string
	CacheTTL     time.Duration
	// Sources
	SourceMode         string // "live" or "fake"
	CoinGeckoURL       string
	CryptoAssets       map[string]string // currency code -> provider asset id
	ExchangeRateAPIURL string
	ExchangeRateAPIKey string
	FiatCurrencies     []string
	RequestTimeout     time.Duration
	// Scheduler
	RefreshInterval time.Duration
	// HTTP
	Port string
	// Redis (refresh dedup)
	RefreshGuardBackend string // "redis" or "none"
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisTTL            time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func secs(key string, defSec int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defSec)), defSec)) * time.Second
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}

// parseAssetMap reads "BTC:bitcoin,ETH:ethereum" into code→asset-id.
func parseAssetMap(s string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(s, ",") {
		code, id, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || code == "" || id == "" {
			continue
		}
		out[strings.ToUpper(code)] = strings.ToLower(id)
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DataDir:  getEnv("DATA_DIR", "data"),

		BaseCurrency: strings.ToUpper(getEnv("BASE_CURRENCY", "USD")),
		SnapshotPath: getEnv("RATES_FILE", "data/rates.json"),
		HistoryPath:  getEnv("HISTORY_FILE", "data/exchange_rates.json"),
		CacheTTL:     secs("CACHE_TTL_SECONDS", 300),

		SourceMode:   getEnv("SOURCE_MODE", "live"),
		CoinGeckoURL: getEnv("COINGECKO_URL", "https://api.coingecko.com/api/v3/simple/price"),
		CryptoAssets: parseAssetMap(getEnv("CRYPTO_ASSETS",
			"BTC:bitcoin,ETH:ethereum,SOL:solana,XRP:ripple,DOGE:dogecoin,ADA:cardano")),
		ExchangeRateAPIURL: getEnv("EXCHANGERATE_API_URL", "https://v6.exchangerate-api.com/v6"),
		ExchangeRateAPIKey: getEnv("EXCHANGERATE_API_KEY", ""),
		FiatCurrencies:     splitCSV(getEnv("FIAT_CURRENCIES", "EUR,GBP,RUB,JPY,CHF,CNY,AUD")),
		RequestTimeout:     secs("REQUEST_TIMEOUT_SECONDS", 10),

		RefreshInterval: secs("REFRESH_INTERVAL_SECONDS", 300),

		Port: getEnv("PORT", "8080"),

		RefreshGuardBackend: getEnv("REFRESH_GUARD_BACKEND", "none"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:            secs("REFRESH_GUARD_TTL_SECONDS", 60),
	}
}
