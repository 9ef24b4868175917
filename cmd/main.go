package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&showCmd{}, "portfolio")
	c.Register(&listCmd{}, "portfolio")
	c.Register(&fxCmd{}, "portfolio")

	c.Register(&addCmd{}, "positions")
	c.Register(&removeCmd{}, "positions")
	c.Register(&amountCmd{name: "cash"}, "positions")
	c.Register(&amountCmd{name: "invested"}, "positions")

	c.Register(&searchCmd{}, "market")

	c.Register(&serveCmd{}, "apps")
	c.Register(&AssistCmd{}, "apps")

	c.Register(&initConfigCmd{}, "settings")
	c.Register(&topicCmd{}, "help")
}
