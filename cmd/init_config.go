package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/bluechip/config"
	"github.com/google/subcommands"
)

type initConfigCmd struct {
	output string
	force  bool
}

func (*initConfigCmd) Name() string     { return "init-config" }
func (*initConfigCmd) Synopsis() string { return "writes a configuration file with the default values" }
func (*initConfigCmd) Usage() string {
	return `bcp init-config [-o <file>] [-f]

  Writes the default configuration, to edit. An existing file is kept unless
  -f is given.
`
}

func (c *initConfigCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", config.DefaultPath, "File to write, - for the standard output.")
	f.BoolVar(&c.force, "f", false, "Overwrite an existing file.")
}

func (c *initConfigCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var b bytes.Buffer
	if err := config.NewDefaultConfig().Write(&b); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.output == "-" {
		os.Stdout.Write(b.Bytes())
		return subcommands.ExitSuccess
	}

	if _, err := os.Stat(c.output); !c.force && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: %s already exists, use -f to overwrite it\n", c.output)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.output, b.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Configuration written to %s\n", c.output)
	return subcommands.ExitSuccess
}
