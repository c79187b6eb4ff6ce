package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

func TestRunUpdate_AllSourcesSucceed(t *testing.T) {
	store := newFakeRateStore()
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 59337.21, "ETH_USD": 3720.0}},
		&fakeSource{name: "ExchangeRate-API", rates: map[domain.Pair]float64{"EUR_USD": 1.0786}},
	}, WithClock(fixedClock{at: time.Date(2025, 10, 25, 14, 30, 0, 0, time.UTC)}))

	res, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Empty(t, res.Errors)
	require.Len(t, res.UpdatedPairs, 3)

	require.Len(t, store.saves, 1)
	require.Equal(t, "CoinGecko+ExchangeRate-API", store.saves[0].source)
}

func TestRunUpdate_PartialFailureIsolatesSources(t *testing.T) {
	store := newFakeRateStore()
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 59337.21}},
		&fakeSource{name: "ExchangeRate-API", err: &domain.FetchError{Kind: domain.FetchTimeout, Msg: "request timed out"}},
	})

	res, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.True(t, res.PartialSuccess())
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0], "ExchangeRate-API")
	require.Equal(t, map[domain.Pair]float64{"BTC_USD": 59337.21}, res.UpdatedPairs)

	// The surviving source alone names the merge.
	require.Len(t, store.saves, 1)
	require.Equal(t, "CoinGecko", store.saves[0].source)
	// Only the surviving source's pairs hit the history log.
	require.Len(t, store.history, 1)
	require.Equal(t, domain.Pair("BTC_USD"), store.history[0].pair)
}

func TestRunUpdate_AllSourcesFail_NoMerge(t *testing.T) {
	store := newFakeRateStore()
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", err: &domain.FetchError{Kind: domain.FetchConnection, Msg: "connection refused"}},
		&fakeSource{name: "ExchangeRate-API", err: &domain.FetchError{Kind: domain.FetchAuth, Msg: "bad key"}},
	})

	res, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.False(t, res.PartialSuccess())
	require.Len(t, res.Errors, 2)
	require.Empty(t, res.UpdatedPairs)
	require.Empty(t, store.saves)
	require.Empty(t, store.history)
}

func TestRunUpdate_MultipleFailures_GenericLabel(t *testing.T) {
	store := newFakeRateStore()
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "A", rates: map[domain.Pair]float64{"BTC_USD": 1}},
		&fakeSource{name: "B", err: errors.New("boom")},
		&fakeSource{name: "C", err: errors.New("boom")},
	})

	res, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, res.Errors, 2)
	require.Len(t, store.saves, 1)
	require.Equal(t, MultiSourceLabel, store.saves[0].source)
}

func TestRunUpdate_SelectedSource_CaseInsensitive(t *testing.T) {
	store := newFakeRateStore()
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 59337.21}},
		&fakeSource{name: "ExchangeRate-API", err: errors.New("must not run")},
	})

	res, err := svc.RunUpdate(context.Background(), "coingecko")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, map[domain.Pair]float64{"BTC_USD": 59337.21}, res.UpdatedPairs)
}

func TestRunUpdate_UnknownSourceRejected(t *testing.T) {
	store := newFakeRateStore()
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 59337.21}},
		&fakeSource{name: "ExchangeRate-API", rates: map[domain.Pair]float64{"EUR_USD": 1.0786}},
	})

	_, err := svc.RunUpdate(context.Background(), "bogus")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "source", ve.Field)
	require.Contains(t, ve.Reason, "CoinGecko")
	require.Contains(t, ve.Reason, "ExchangeRate-API")

	// Nothing fetched, nothing written.
	require.Empty(t, store.saves)
	require.Empty(t, store.history)
}

func TestRunUpdate_HistoryWrittenBeforeMerge(t *testing.T) {
	store := newFakeRateStore()
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 59337.21, "ETH_USD": 3720.0}},
	})

	_, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"history", "history", "save"}, store.calls)
}

func TestRunUpdate_HistoryErrorVoidsSource(t *testing.T) {
	store := newFakeRateStore()
	store.histErr = &domain.StorageError{Op: "write", Path: "history.json", Err: errors.New("disk full")}
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 59337.21}},
	})

	res, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Empty(t, res.UpdatedPairs)
	require.Empty(t, store.saves)
}

func TestRunUpdate_SnapshotWriteErrorPropagates(t *testing.T) {
	store := newFakeRateStore()
	store.saveErr = &domain.StorageError{Op: "rename", Path: "rates.json", Err: errors.New("permission denied")}
	svc := NewUpdateService(store, []RateSource{
		&fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 59337.21}},
	})

	_, err := svc.RunUpdate(context.Background(), "")
	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
}

func TestRunUpdate_RepeatedCycleKeepsOneQuotePerPair(t *testing.T) {
	store := newFakeRateStore()
	src := &fakeSource{name: "CoinGecko", rates: map[domain.Pair]float64{"BTC_USD": 50000.0}}
	svc := NewUpdateService(store, []RateSource{src})

	_, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	src.rates["BTC_USD"] = 51000.0
	_, err = svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)

	snap := store.LoadSnapshot()
	require.Len(t, snap.Pairs, 1)
	require.Equal(t, 51000.0, snap.Pairs["BTC_USD"].Rate)
	// History kept both observations.
	require.Len(t, store.history, 2)
}

type countingObserver struct {
	cycles int
	errs   map[string]domain.FetchKind
}

func (o *countingObserver) ObserveCycle(domain.UpdateResult, time.Duration) { o.cycles++ }

func (o *countingObserver) ObserveFetchError(source string, kind domain.FetchKind) {
	if o.errs == nil {
		o.errs = map[string]domain.FetchKind{}
	}
	o.errs[source] = kind
}

func TestRunUpdate_ObserverSeesFetchKind(t *testing.T) {
	obs := &countingObserver{}
	svc := NewUpdateService(newFakeRateStore(), []RateSource{
		&fakeSource{name: "ExchangeRate-API", err: &domain.FetchError{Kind: domain.FetchRateLimited, Msg: "429"}},
	}, WithObserver(obs))

	_, err := svc.RunUpdate(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, obs.cycles)
	require.Equal(t, domain.FetchRateLimited, obs.errs["ExchangeRate-API"])
}
