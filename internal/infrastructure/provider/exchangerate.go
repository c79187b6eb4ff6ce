package provider

import (
	"context"
	"fmt"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
	"github.com/valutatrade/valutatrade-hub/internal/infrastructure/httpx"
)

const exchangeRateName = "ExchangeRate-API"

// placeholderAPIKey is the sample value shipped in .env templates; it is
// rejected the same way as a missing key.
const placeholderAPIKey = "YOUR_API_KEY_HERE"

// ExchangeRateAPI fetches fiat rates from the "latest relative to base"
// endpoint. The endpoint reports base→quote multipliers (1 base = N quote),
// which are inverted so every pair follows the quote-priced-in-base
// convention shared with the crypto source.
type ExchangeRateAPI struct {
	BaseURL    string
	APIKey     string
	Base       string   // base currency code, e.g. "USD"
	Currencies []string // quote currency codes to extract
	Client     *httpx.Client
}

var _ application.RateSource = (*ExchangeRateAPI)(nil)

func (p *ExchangeRateAPI) Name() string { return exchangeRateName }

type xrLatestResp struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	ErrorType       string             `json:"error-type"`
}

func (p *ExchangeRateAPI) FetchRates(ctx context.Context) (map[domain.Pair]float64, error) {
	// A missing credential is a configuration failure; no network call
	// is attempted.
	if p.APIKey == "" || p.APIKey == placeholderAPIKey {
		return nil, &domain.FetchError{
			Kind: domain.FetchAuth,
			Msg:  "api key is not configured; set EXCHANGERATE_API_KEY",
		}
	}

	u := fmt.Sprintf("%s/%s/latest/%s", p.BaseURL, p.APIKey, p.Base)
	var body xrLatestResp
	if err := p.Client.GetJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	if body.Result != "success" {
		msg := body.ErrorType
		if msg == "" {
			msg = "unexpected API result"
		}
		return nil, &domain.FetchError{Kind: domain.FetchUnrecognized, Msg: msg}
	}

	rates := make(map[domain.Pair]float64, len(p.Currencies))
	for _, code := range p.Currencies {
		multiplier, ok := body.ConversionRates[code]
		if !ok || multiplier <= 0 {
			continue
		}
		rates[domain.MakePair(code, p.Base)] = 1.0 / multiplier
	}
	return rates, nil
}
