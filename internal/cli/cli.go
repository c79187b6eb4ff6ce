// Package cli implements the valutatrade command-line application.
package cli

import (
	"github.com/google/subcommands"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/bootstrap"
	"github.com/valutatrade/valutatrade-hub/internal/config"
)

// Register adds every wallet and rates command to the commander.
func Register(cdr *subcommands.Commander) {
	cdr.Register(&registerCmd{}, "account")
	cdr.Register(&loginCmd{}, "account")
	cdr.Register(&logoutCmd{}, "account")

	cdr.Register(&buyCmd{}, "trading")
	cdr.Register(&sellCmd{}, "trading")
	cdr.Register(&portfolioCmd{}, "trading")

	cdr.Register(&rateCmd{}, "rates")
	cdr.Register(&ratesCmd{}, "rates")
	cdr.Register(&updateRatesCmd{}, "rates")
	cdr.Register(&currenciesCmd{}, "rates")
}

// As a one-shot CLI the services are rebuilt per invocation; state lives
// in the data directory, not in the process.

func walletService() *application.WalletService {
	cfg := config.Load()
	return bootstrap.BuildWalletService(cfg, bootstrap.BuildRateStore(cfg))
}

func updateService() *application.UpdateService {
	cfg := config.Load()
	return bootstrap.BuildUpdateService(cfg, bootstrap.BuildRateStore(cfg), nil)
}
