// valutatrade is the personal multi-currency wallet CLI.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/valutatrade/valutatrade-hub/internal/cli"
)

func init() { _ = godotenv.Load() }

func main() {
	cdr := subcommands.NewCommander(flag.CommandLine, "valutatrade")
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")
	cli.Register(cdr)

	flag.Parse()
	os.Exit(int(cdr.Execute(context.Background())))
}
