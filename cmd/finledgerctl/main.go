package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"finledger/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds the ledger subcommands grouped by concern.
func register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "ledger")
	c.Register(&resetCmd{}, "ledger")

	c.Register(&saveCmd{}, "records")
	c.Register(&deleteCmd{}, "records")

	c.Register(&importCmd{}, "files")
	c.Register(&exportCmd{}, "files")

	c.Register(&overviewCmd{}, "reports")
	c.Register(&goalsCmd{}, "goals")
	c.Register(&goalAddCmd{}, "goals")
}
