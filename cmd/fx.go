package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bluechip"
	"github.com/google/subcommands"
)

type fxCmd struct{}

func (*fxCmd) Name() string     { return "fx" }
func (*fxCmd) Synopsis() string { return "prints the exchange rate used to value the portfolio" }
func (*fxCmd) Usage() string {
	return `bcp fx

  Fetches the configured currency pair and prints it, with the
  domestic-per-foreign rate derived from it. When the provider fails, the
  fallback rate is printed instead.
`
}

func (*fxCmd) SetFlags(f *flag.FlagSet) {}

func (*fxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	policy, err := a.cfg.FXPolicy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cm := a.cfg.Currencies()

	snap := bluechip.FetchSnapshot(ctx, a.gateway, cm, policy, nil, a.log)
	fx, err := snap.FX.Get()
	if err != nil {
		for _, e := range snap.Errors {
			fmt.Fprintf(os.Stderr, "Error: %v\n", e)
		}
		fmt.Fprintf(os.Stderr, "Error: no %s rate available\n", policy.Quoted)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.out, "%s %s (%s)\n", snap.FXPair, snap.FXQuoted, snap.FXSource)
	fmt.Fprintf(a.out, "1 %s = %s %s\n", cm.Foreign, fx.StringFixed(4), cm.Domestic)
	return subcommands.ExitSuccess
}
