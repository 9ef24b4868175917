package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bluechip/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	consolidate bool
	json        bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "values the portfolio at current market prices" }
func (*showCmd) Usage() string {
	return `bcp show [-consolidate] [-json]

  Fetches the current prices, the annual dividends and the exchange rate,
  then displays the portfolio: the summary, the positions table and the
  charts.

  Positions without a price are shown as "unknown" and left out of the
  totals. When the exchange rate cannot be fetched, the configured fallback
  rate is used.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.consolidate, "consolidate", false, "Merge the positions of the same ticker into one row.")
	f.BoolVar(&c.json, "json", false, "Print the valuation as JSON.")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	s, err := a.store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	v, err := a.view(ctx, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.consolidate {
		v = v.Consolidate()
	}

	if c.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding valuation: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	a.printMarkdown(renderer.RenderView(v))
	return subcommands.ExitSuccess
}
