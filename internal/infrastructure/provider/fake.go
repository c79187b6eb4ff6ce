package provider

import (
	"context"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// Ensure Fake implements application.RateSource.
var _ application.RateSource = (*Fake)(nil)

// Fake serves a fixed rate set; useful for dev and tests without network.
type Fake struct {
	SourceName string
	Rates      map[domain.Pair]float64
	Err        error
}

func NewFake(name string, rates map[domain.Pair]float64) *Fake {
	return &Fake{SourceName: name, Rates: rates}
}

func (f *Fake) Name() string { return f.SourceName }

func (f *Fake) FetchRates(context.Context) (map[domain.Pair]float64, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make(map[domain.Pair]float64, len(f.Rates))
	for p, r := range f.Rates {
		out[p] = r
	}
	return out, nil
}
