package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/bluechip/eodhd"
	"github.com/google/subcommands"
)

// searchCmd implements the "search" command.
type searchCmd struct {
	eodhdApiFlag string
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "searches for securities on EODHD" }
func (*searchCmd) Usage() string {
	return `bcp search <search term>

  Searches for securities via EOD Historical Data API and prints
  ready-to-use 'bcp add' commands for the results.

  Requires the EODHD_API_KEY environment variable to be set, the eodhd_api_key
  configuration entry, or the -eodhd-api-key flag.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.eodhdApiFlag, "eodhd-api-key", "", "EODHD API key to use for consuming EODHD.com API. This flag takes precedence over the configuration. You can get one at https://eodhd.com/")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	searchTerm := strings.Join(f.Args(), " ")

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	key := c.eodhdApiFlag
	if key == "" {
		key = a.cfg.Provider.EODHDAPIKey
	}
	if key == "" {
		fmt.Fprintf(os.Stderr, "Error: EODHD API key is not set. Use -eodhd-api-key flag or EODHD_API_KEY environment variable\n")
		return subcommands.ExitFailure
	}

	client := eodhd.New(key, a.cfg.Provider.CacheDir, time.Duration(a.cfg.Provider.Timeout), a.log)
	results, err := client.Search(ctx, searchTerm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching securities: %v\n", err)
		return subcommands.ExitFailure
	}

	if len(results) == 0 {
		fmt.Fprintf(a.out, "No results found for '%s'.\n", searchTerm)
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(a.out, "Found %d results for '%s':\n\n", len(results), searchTerm)
	for _, item := range results {
		fmt.Fprintf(a.out, "➡️   Name       : %s (%s)\n", item.Name, item.Code)
		fmt.Fprintf(a.out, "    Type        : %s, Country: %s, Currency: %s\n", item.Type, item.Country, item.Currency)
		fmt.Fprintf(a.out, "    ISIN        : %s\n", item.ISIN)
		fmt.Fprintf(a.out, "    Prev. Close : %.2f\n", item.PreviousClose)
		if native := a.cfg.Currencies().Native(item.Ticker()); native != item.Currency {
			fmt.Fprintf(a.out, "    Warning     : valued in %s, but quoted in %s\n", native, item.Currency)
		}
		fmt.Fprintf(a.out, "    $ bcp add -t %s -q <quantity> -p <price>\n\n", item.Ticker())
	}
	return subcommands.ExitSuccess
}
