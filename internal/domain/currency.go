package domain

import (
	"fmt"
	"sort"
	"strings"
)

type CurrencyKind string

const (
	CurrencyFiat   CurrencyKind = "fiat"
	CurrencyCrypto CurrencyKind = "crypto"
)

// Currency is one entry of the supported-currency registry.
type Currency struct {
	Code           string
	Name           string
	Kind           CurrencyKind
	IssuingCountry string  // fiat only
	Algorithm      string  // crypto only
	MarketCap      float64 // crypto only, USD
}

// DisplayInfo renders the registry entry for CLI output.
func (c Currency) DisplayInfo() string {
	if c.Kind == CurrencyFiat {
		return fmt.Sprintf("[FIAT] %s - %s (Issuing: %s)", c.Code, c.Name, c.IssuingCountry)
	}
	return fmt.Sprintf("[CRYPTO] %s - %s (Algo: %s, MCAP: %s)", c.Code, c.Name, c.Algorithm, formatMarketCap(c.MarketCap))
}

func formatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

var currencyRegistry = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Kind: CurrencyFiat, IssuingCountry: "United States"},
	"EUR": {Code: "EUR", Name: "Euro", Kind: CurrencyFiat, IssuingCountry: "Eurozone"},
	"RUB": {Code: "RUB", Name: "Russian Ruble", Kind: CurrencyFiat, IssuingCountry: "Russia"},
	"GBP": {Code: "GBP", Name: "British Pound", Kind: CurrencyFiat, IssuingCountry: "United Kingdom"},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Kind: CurrencyFiat, IssuingCountry: "Japan"},
	"CHF": {Code: "CHF", Name: "Swiss Franc", Kind: CurrencyFiat, IssuingCountry: "Switzerland"},
	"CNY": {Code: "CNY", Name: "Chinese Yuan", Kind: CurrencyFiat, IssuingCountry: "China"},
	"AUD": {Code: "AUD", Name: "Australian Dollar", Kind: CurrencyFiat, IssuingCountry: "Australia"},
	"BTC": {Code: "BTC", Name: "Bitcoin", Kind: CurrencyCrypto, Algorithm: "SHA-256", MarketCap: 1.12e12},
	"ETH": {Code: "ETH", Name: "Ethereum", Kind: CurrencyCrypto, Algorithm: "Ethash", MarketCap: 2.8e11},
	"SOL": {Code: "SOL", Name: "Solana", Kind: CurrencyCrypto, Algorithm: "Proof of History", MarketCap: 4.5e10},
	"XRP": {Code: "XRP", Name: "Ripple", Kind: CurrencyCrypto, Algorithm: "RPCA", MarketCap: 3.2e10},
	"DOGE": {Code: "DOGE", Name: "Dogecoin", Kind: CurrencyCrypto, Algorithm: "Scrypt", MarketCap: 2.1e10},
	"ADA": {Code: "ADA", Name: "Cardano", Kind: CurrencyCrypto, Algorithm: "Ouroboros", MarketCap: 1.5e10},
}

// GetCurrency looks a code up in the registry.
func GetCurrency(code string) (Currency, error) {
	c, ok := currencyRegistry[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, &CurrencyNotFoundError{Code: code}
	}
	return c, nil
}

// SupportedCurrencies lists registry entries in code order.
func SupportedCurrencies() []Currency {
	out := make([]Currency, 0, len(currencyRegistry))
	for _, c := range currencyRegistry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ValidateCurrencyCode normalizes a code and checks it against the registry.
func ValidateCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 || len(code) > 5 {
		return "", &ValidationError{Field: "currency_code", Reason: "must be 2-5 characters"}
	}
	if _, err := GetCurrency(code); err != nil {
		return "", &ValidationError{Field: "currency_code", Reason: err.Error()}
	}
	return code, nil
}
