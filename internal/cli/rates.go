package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/subcommands"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

type rateCmd struct {
	from string
	to   string
}

func (*rateCmd) Name() string     { return "get-rate" }
func (*rateCmd) Synopsis() string { return "show one exchange rate with its reciprocal" }
func (*rateCmd) Usage() string {
	return `get-rate -from <code> -to <code>

  Resolves the rate from the local cache. When only the reverse pair is
  cached the reciprocal is derived on the fly.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "quote currency code (required)")
	f.StringVar(&c.to, "to", "", "base currency code (required)")
}

func (c *rateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" {
		fmt.Fprintln(os.Stderr, "Error: -from and -to are required.")
		return subcommands.ExitUsageError
	}
	info, err := walletService().GetRate(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s → %s: %.8f (reverse %.8f)\n", info.From, info.To, info.Rate, info.Reverse)
	fmt.Printf("Last refresh: %s", info.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	if !info.Fresh {
		fmt.Print(" (stale)")
	}
	fmt.Println()
	return subcommands.ExitSuccess
}

type ratesCmd struct {
	currency string
	top      int
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "list cached rates" }
func (*ratesCmd) Usage() string {
	return `rates [-currency <code>] [-top <n>]

  Lists cached pairs alphabetically. -currency keeps only pairs quoting or
  pricing that currency; -top lists the n highest rates instead.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "show only pairs involving this currency")
	f.IntVar(&c.top, "top", 0, "show the n pairs with the highest rates")
}

func (c *ratesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	snap := updateService().CurrentRates()
	if len(snap.Pairs) == 0 {
		fmt.Println("Rate cache is empty; run update-rates first.")
		return subcommands.ExitSuccess
	}
	pairs := filterPairs(snap, c.currency)
	if len(pairs) == 0 {
		fmt.Printf("No cached rates for %q.\n", strings.ToUpper(c.currency))
		return subcommands.ExitSuccess
	}
	pairs = orderPairs(snap, pairs, c.top)
	for _, p := range pairs {
		q := snap.Pairs[p]
		fmt.Printf("  %-10s %16.8f  %-25s %s\n",
			p, q.Rate, q.Source, q.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Last refresh: %s (%s)\n",
		snap.LastRefresh.Format("2006-01-02 15:04:05 MST"), snap.Source)
	return subcommands.ExitSuccess
}

// filterPairs keeps the pairs quoting or priced in currency; an empty
// filter keeps everything.
func filterPairs(snap domain.Snapshot, currency string) []domain.Pair {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	out := make([]domain.Pair, 0, len(snap.Pairs))
	for p := range snap.Pairs {
		if currency != "" &&
			!strings.HasPrefix(string(p), currency+domain.PairSeparator) &&
			!strings.HasSuffix(string(p), domain.PairSeparator+currency) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// orderPairs sorts alphabetically, or by descending rate truncated to the
// top n when n is positive.
func orderPairs(snap domain.Snapshot, pairs []domain.Pair, top int) []domain.Pair {
	if top > 0 {
		sort.Slice(pairs, func(i, j int) bool { return snap.Pairs[pairs[i]].Rate > snap.Pairs[pairs[j]].Rate })
		if top < len(pairs) {
			pairs = pairs[:top]
		}
		return pairs
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i] < pairs[j] })
	return pairs
}

type updateRatesCmd struct {
	source string
}

func (*updateRatesCmd) Name() string     { return "update-rates" }
func (*updateRatesCmd) Synopsis() string { return "fetch fresh rates from the external sources" }
func (*updateRatesCmd) Usage() string {
	return `update-rates [-source <name>]

  Runs one synchronous update cycle across all sources, or only the named
  one. Source failures are reported individually; pairs from the sources
  that succeeded are still merged.
`
}

func (c *updateRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "restrict the cycle to this source")
}

func (c *updateRatesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc := updateService()
	res, err := svc.RunUpdate(ctx, c.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "Source error: %s\n", e)
	}
	switch {
	case res.Success:
		fmt.Printf("Updated %d pairs.\n", len(res.UpdatedPairs))
	case res.PartialSuccess():
		fmt.Printf("Partially updated: %d pairs merged, %d source(s) failed.\n",
			len(res.UpdatedPairs), len(res.Errors))
	default:
		fmt.Println("Update failed: no pairs fetched.")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type currenciesCmd struct{}

func (*currenciesCmd) Name() string             { return "currencies" }
func (*currenciesCmd) Synopsis() string         { return "list supported currencies" }
func (*currenciesCmd) Usage() string            { return "currencies\n" }
func (*currenciesCmd) SetFlags(_ *flag.FlagSet) {}

func (c *currenciesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, cur := range domain.SupportedCurrencies() {
		fmt.Println("  " + cur.DisplayInfo())
	}
	return subcommands.ExitSuccess
}
