package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type buyCmd struct {
	currency string
	amount   string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy currency at the cached rate" }
func (*buyCmd) Usage() string {
	return `buy -currency <code> -amount <amount>

  Credits the amount to the wallet for that currency, creating the wallet
  on first use. The rate against the base currency is taken from the local
  rate cache.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "currency code, e.g. BTC (required)")
	f.StringVar(&c.amount, "amount", "", "amount to buy (required)")
}

func (c *buyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, status := parseAmount(c.currency, c.amount)
	if status != subcommands.ExitSuccess {
		return status
	}
	res, err := walletService().Buy(c.currency, amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Bought %s %s at %.8f (%s in base). Wallet balance: %s %s\n",
		res.Amount, res.Currency, res.Rate, res.BaseValue.StringFixed(2),
		res.WalletBalance, res.Currency)
	return subcommands.ExitSuccess
}

type sellCmd struct {
	currency string
	amount   string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell currency, crediting proceeds to the base wallet" }
func (*sellCmd) Usage() string {
	return `sell -currency <code> -amount <amount>

  Debits the amount from the wallet for that currency and credits the
  proceeds, at the cached rate, to the base currency wallet.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "currency code, e.g. BTC (required)")
	f.StringVar(&c.amount, "amount", "", "amount to sell (required)")
}

func (c *sellCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, status := parseAmount(c.currency, c.amount)
	if status != subcommands.ExitSuccess {
		return status
	}
	res, err := walletService().Sell(c.currency, amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Sold %s %s at %.8f for %s in base. Wallet balance: %s %s\n",
		res.Amount, res.Currency, res.Rate, res.BaseValue.StringFixed(2),
		res.WalletBalance, res.Currency)
	return subcommands.ExitSuccess
}

func parseAmount(currency, amount string) (decimal.Decimal, subcommands.ExitStatus) {
	if currency == "" || amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -currency and -amount are required.")
		return decimal.Zero, subcommands.ExitUsageError
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -amount must be a number, got %q\n", amount)
		return decimal.Zero, subcommands.ExitUsageError
	}
	return d, subcommands.ExitSuccess
}

type portfolioCmd struct {
	base string
}

func (*portfolioCmd) Name() string     { return "show-portfolio" }
func (*portfolioCmd) Synopsis() string { return "show wallets valued in the base currency" }
func (*portfolioCmd) Usage() string {
	return `show-portfolio [-base <code>]

  Lists every wallet with its value converted to the base currency.
  Wallets without a usable cached rate are listed with a zero rate.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "valuation currency (default: configured base)")
}

func (c *portfolioCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	view, err := walletService().ShowPortfolio(c.base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Portfolio of %s (in %s):\n", view.Username, view.BaseCurrency)
	if len(view.Wallets) == 0 {
		fmt.Println("  (empty)")
	}
	for _, w := range view.Wallets {
		fmt.Printf("  %-5s %20s  rate %.8f  = %s %s\n",
			w.Currency, w.Balance.String(), w.Rate,
			w.ValueInBase.StringFixed(2), view.BaseCurrency)
	}
	fmt.Printf("Total: %s %s\n", view.TotalValue.StringFixed(2), view.BaseCurrency)
	return subcommands.ExitSuccess
}
