package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/bluechip"
	"github.com/etnz/bluechip/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// mutate loads the state, applies f and saves the result. Nothing is saved
// when f fails.
func mutate(a *app, f func(bluechip.State) (bluechip.State, error)) error {
	s, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("loading portfolio: %w", err)
	}
	s, err = f(s)
	if err != nil {
		return err
	}
	if err := a.store.Save(s); err != nil {
		return fmt.Errorf("saving portfolio: %w", err)
	}
	a.log.Debug().Int("positions", len(s.Positions)).Msg("portfolio saved")
	return nil
}

type addCmd struct {
	ticker   string
	quantity string
	price    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "adds a position to the portfolio" }
func (*addCmd) Usage() string {
	return `bcp add -t <ticker> -q <quantity> -p <purchase price>

  Appends a position. The purchase price is per share, in the currency of
  the ticker: euros for Paris listings (.PA), dollars otherwise.

  Buying the same ticker twice adds a second position: use 'bcp show
  -consolidate' to see them merged.

Usage Examples:
$ bcp add -t MSFT -q 8 -p 364.54
$ bcp add -t MC.PA -q 2 -p 700
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the security, like MSFT or MC.PA.")
	f.StringVar(&c.quantity, "q", "", "Number of shares.")
	f.StringVar(&c.price, "p", "", "Purchase price per share, in the ticker's currency.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: -t, -q and -p are required.")
		return subcommands.ExitUsageError
	}
	quantity, err := bluechip.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid purchase price %q: %v\n", c.price, err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	err = mutate(a, func(s bluechip.State) (bluechip.State, error) {
		return s.AddPosition(c.ticker, quantity, price)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding position: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.out, "Added %s %s at %s\n", quantity, bluechip.NormalizeTicker(c.ticker), price)
	return subcommands.ExitSuccess
}

type removeCmd struct {
	index int
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "removes a position from the portfolio" }
func (*removeCmd) Usage() string {
	return `bcp remove -i <index>

  Removes the position at index, as numbered by 'bcp list'. The positions
  after it are renumbered.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "i", -1, "Index of the position to remove, see 'bcp list'.")
}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	index := c.index
	if index < 0 && f.NArg() == 1 {
		i, err := strconv.Atoi(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid index %q\n", f.Arg(0))
			return subcommands.ExitUsageError
		}
		index = i
	}
	if index < 0 {
		fmt.Fprintln(os.Stderr, "Error: -i is required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	var removed bluechip.Position
	err = mutate(a, func(s bluechip.State) (bluechip.State, error) {
		if index < len(s.Positions) {
			removed = s.Positions[index]
		}
		return s.RemovePosition(index)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error removing position: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.out, "Removed %s %s\n", removed.Quantity, removed.Ticker)
	return subcommands.ExitSuccess
}

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "lists the stored positions with their index" }
func (*listCmd) Usage() string {
	return `bcp list

  Prints the positions as stored, without market data.
`
}

func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (*listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	a.printMarkdown(renderer.RenderPositions(s))
	return subcommands.ExitSuccess
}

// amountCmd sets the cash balance or the invested capital.
type amountCmd struct {
	name   string
	amount string
}

func (c *amountCmd) Name() string { return c.name }
func (c *amountCmd) Synopsis() string {
	if c.name == "cash" {
		return "sets the cash balance"
	}
	return "sets the total invested capital"
}
func (c *amountCmd) Usage() string {
	return fmt.Sprintf(`bcp %[1]s [-a <amount> | <amount>]

  %[2]s, in the domestic currency. Any value is accepted,
  negative included: use '-a -5' or '-- -5' for a negative amount.
  Without amount, prints the current value.
`, c.name, c.Synopsis())
}

func (c *amountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to set, negative included.")
}

func (c *amountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	arg := c.amount
	switch {
	case arg != "" && f.NArg() > 0, f.NArg() > 1:
		fmt.Fprintln(os.Stderr, "Error: a single amount is expected.")
		return subcommands.ExitUsageError
	case f.NArg() == 1:
		arg = f.Arg(0)
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	if arg == "" {
		s, err := a.store.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
			return subcommands.ExitFailure
		}
		value := s.Cash
		if c.name == "invested" {
			value = s.TotalInvested
		}
		fmt.Fprintln(a.out, bluechip.M(value, a.cfg.Currencies().Domestic))
		return subcommands.ExitSuccess
	}

	value, err := decimal.NewFromString(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q: %v\n", arg, err)
		return subcommands.ExitUsageError
	}
	err = mutate(a, func(s bluechip.State) (bluechip.State, error) {
		if c.name == "cash" {
			return s.SetCash(value), nil
		}
		return s.SetTotalInvested(value), nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting %s: %v\n", c.name, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.out, "%s set to %s\n", c.name, bluechip.M(value, a.cfg.Currencies().Domestic))
	return subcommands.ExitSuccess
}
