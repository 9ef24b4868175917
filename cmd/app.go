// Package cmd implements the CLI application to value a portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/bluechip"
	"github.com/etnz/bluechip/config"
	"github.com/etnz/bluechip/eodhd"
	"github.com/etnz/bluechip/lstc"
	"github.com/etnz/bluechip/quotecache"
	"github.com/etnz/bluechip/yahoo"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (default "+config.DefaultPath+" if it exists)")
var dataDir = flag.String("data-dir", "", "Folder of the portfolio files. Overrides the configuration.")
var plain = flag.Bool("plain", false, "Print raw markdown instead of styling it for the terminal")
var Verbose = flag.Bool("v", false, "Log debug messages")

// app is what a command needs to run.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   bluechip.Store
	gateway bluechip.QuoteGateway
	out     io.Writer
	plain   bool
}

// openApp builds the app from the global flags. Tests replace it.
var openApp = newApp

func newApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		cfg.Storage.Dir = *dataDir
	}

	level := cfg.LogLevel()
	if *Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	return &app{
		cfg:     cfg,
		log:     log,
		store:   bluechip.NewFileStore(cfg.Storage.Dir),
		gateway: newGateway(cfg, log),
		out:     os.Stdout,
		plain:   *plain,
	}, nil
}

// newGateway returns the configured provider behind a quote cache.
func newGateway(cfg *config.Config, log zerolog.Logger) *quotecache.Gateway {
	timeout := time.Duration(cfg.Provider.Timeout)

	var provider bluechip.QuoteGateway
	switch cfg.Provider.Name {
	case "eodhd":
		provider = eodhd.New(cfg.Provider.EODHDAPIKey, cfg.Provider.CacheDir, timeout, log)
	default:
		provider = yahoo.New(timeout, log)
	}
	if cfg.Provider.FXBackup {
		provider = lstc.New(timeout, log).Backup(provider)
	}
	return quotecache.New(provider, quotecache.TTL{
		Prices:    time.Duration(cfg.Cache.Prices),
		Dividends: time.Duration(cfg.Cache.Dividends),
		FX:        time.Duration(cfg.Cache.FX),
	}, log)
}

// view fetches the market data for s and evaluates it.
func (a *app) view(ctx context.Context, s bluechip.State) (*bluechip.View, error) {
	policy, err := a.cfg.FXPolicy()
	if err != nil {
		return nil, err
	}
	cm := a.cfg.Currencies()
	snap := bluechip.FetchSnapshot(ctx, a.gateway, cm, policy, s.Tickers(), a.log)
	return bluechip.NewView(cm, s, snap), nil
}

// printMarkdown prints md styled for the terminal, or raw in plain mode.
func (a *app) printMarkdown(md string) {
	if a.plain {
		fmt.Fprint(a.out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(140))
	if err != nil {
		fmt.Fprint(a.out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		a.log.Debug().Err(err).Msg("cannot style markdown")
		fmt.Fprint(a.out, md)
		return
	}
	fmt.Fprint(a.out, out)
}
