package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/bluechip/dashboard"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serves the portfolio dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `bcp serve [-addr <host:port>]

  Starts the web dashboard: the valuation page, forms to edit the positions,
  and a JSON API under /api. Stop it with Ctrl+C.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on. Overrides the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	addr := c.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	srv, err := dashboard.New(dashboard.Config{
		Store:      a.store,
		Gateway:    a.gateway,
		Currencies: a.cfg.Currencies(),
		FXPolicy:   policy,
		Log:        a.log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(a.out, "Dashboard available at http://%s\n", addr)
	if err := srv.Run(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error serving dashboard: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
