package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/bluechip"
	"github.com/etnz/bluechip/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct {
	model string
}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `bcp assist [-model <name>] [question...]

  Start an interactive session with the AI assistant. It can read the
  portfolio valued at market prices, and search the news.

  Requires GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment.
`
}

// SetFlags sets the flags for the command.
func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model to use. Overrides the configuration.")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	model := c.model
	if model == "" {
		model = a.cfg.Assist.Model
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	view := func(ctx context.Context) (*bluechip.View, error) {
		s, err := a.store.Load()
		if err != nil {
			return nil, err
		}
		return a.view(ctx, s)
	}
	assistant := agent.New(a.out, os.Stdin, model,
		agent.NewAnalyst(model, view, a.log),
		agent.NewTrader(model, a.log),
	)
	assistant.Print = func(w io.Writer, answer string) { a.printMarkdown(answer) }

	if err := assistant.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
