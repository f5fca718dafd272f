package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "scriptsvc",
		Version: Version,
		Usage:   "Host a script as an operating system service",
		Commands: []*cli.Command{
			runCmd,
			validateCmd,
			serviceCmd,
			versionCmd,
		},
	}
}
