package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/provider"
)

const geckoSample = `{
  "bitcoin": {"usd": 59337.21},
  "ethereum": {"usd": 3720.45}
}`

func newGecko(c *provider.CoinGecko) *provider.CoinGecko {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.coingecko.com/api/v3/simple/price"
	}
	if c.Base == "" {
		c.Base = "USD"
	}
	if c.Assets == nil {
		c.Assets = map[string]string{"BTC": "bitcoin", "ETH": "ethereum"}
	}
	return c
}

func TestCoinGecko_FetchRates(t *testing.T) {
	var lastURL string
	p := newGecko(&provider.CoinGecko{Client: jsonClient(geckoSample, 200, &lastURL)})

	rates, err := p.FetchRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[domain.Pair]float64{
		"BTC_USD": 59337.21,
		"ETH_USD": 3720.45,
	}, rates)

	require.Contains(t, lastURL, "ids=bitcoin%2Cethereum")
	require.Contains(t, lastURL, "vs_currencies=usd")
}

func TestCoinGecko_SkipsMissingAssets(t *testing.T) {
	p := newGecko(&provider.CoinGecko{
		Assets: map[string]string{"BTC": "bitcoin", "ETH": "ethereum", "SOL": "solana"},
		Client: jsonClient(`{"bitcoin": {"usd": 59337.21}}`, 200, nil),
	})

	rates, err := p.FetchRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[domain.Pair]float64{"BTC_USD": 59337.21}, rates)
}

func TestCoinGecko_SkipsNonPositivePrices(t *testing.T) {
	p := newGecko(&provider.CoinGecko{
		Client: jsonClient(`{"bitcoin": {"usd": 0}, "ethereum": {"usd": 3720.45}}`, 200, nil),
	})

	rates, err := p.FetchRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[domain.Pair]float64{"ETH_USD": 3720.45}, rates)
}

func TestCoinGecko_RateLimited(t *testing.T) {
	p := newGecko(&provider.CoinGecko{Client: jsonClient(`{}`, 429, nil)})

	_, err := p.FetchRates(context.Background())
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, domain.FetchRateLimited, fe.Kind)
}

func TestCoinGecko_ServerError(t *testing.T) {
	p := newGecko(&provider.CoinGecko{Client: jsonClient(`oops`, 503, nil)})

	_, err := p.FetchRates(context.Background())
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, domain.FetchHTTPStatus, fe.Kind)
	require.Equal(t, 503, fe.Status)
}
