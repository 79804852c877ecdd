package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Run with `go run ./tools/archive-cli`

func main() {
	app := &cli.App{
		Name:     "Grug Archive Toolbox",
		HelpName: "archive",
		Usage:    "A set of utilities to inspect archive directories",
		Flags:    []cli.Flag{},
		Commands: []*cli.Command{
			&getInfoCommand,
			&verifyCommand,
			&pruneCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
