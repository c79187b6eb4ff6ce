package provider

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/httpx"
)

const coinGeckoName = "CoinGecko"

// CoinGecko fetches crypto spot prices against one base currency in a
// single multi-asset request.
type CoinGecko struct {
	BaseURL string
	Base    string            // base currency code, e.g. "USD"
	Assets  map[string]string // currency code -> CoinGecko asset id
	Client  *httpx.Client
}

var _ application.RateSource = (*CoinGecko)(nil)

func (c *CoinGecko) Name() string { return coinGeckoName }

// FetchRates queries the simple-price endpoint once for every configured
// asset. Assets absent from the response are skipped, not errors.
func (c *CoinGecko) FetchRates(ctx context.Context) (map[domain.Pair]float64, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchUnrecognized, Msg: "invalid base url: " + err.Error()}
	}
	q := u.Query()
	q.Set("ids", strings.Join(c.assetIDs(), ","))
	q.Set("vs_currencies", strings.ToLower(c.Base))
	u.RawQuery = q.Encode()

	// asset id -> { base currency (lowercase) -> price }
	var body map[string]map[string]float64
	if err := c.Client.GetJSON(ctx, u.String(), &body); err != nil {
		return nil, err
	}

	rates := make(map[domain.Pair]float64, len(c.Assets))
	vs := strings.ToLower(c.Base)
	for code, assetID := range c.Assets {
		prices, ok := body[assetID]
		if !ok {
			continue
		}
		price, ok := prices[vs]
		if !ok || price <= 0 {
			continue
		}
		rates[domain.MakePair(code, c.Base)] = price
	}
	return rates, nil
}

func (c *CoinGecko) assetIDs() []string {
	ids := make([]string, 0, len(c.Assets))
	for _, id := range c.Assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
