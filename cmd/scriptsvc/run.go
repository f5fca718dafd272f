package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/scriptsvc/cmd/scriptsvc/host"
	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
	"github.com/atlanticdynamic/scriptsvc/internal/worker"
)

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "Run a script in the foreground until it finishes or is interrupted",
	ArgsUsage: "[script] [args...]",
	Flags: append(configFlags(),
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Do not print the result set",
		},
	),
	Action: runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err, int(controller.ExitCompileError))
	}

	sink, err := setupLogging(cfg)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to set up logging: %w", err), 1)
	}
	defer func() { _ = sink.Close() }()

	run, code, err := host.Foreground(ctx, cfg, sink)
	if err != nil {
		return cli.Exit(err, int(code))
	}

	if run != nil && run.Outcome != worker.OutcomeFailed && run.Results != nil && !cmd.Bool("quiet") {
		title := fmt.Sprintf("%s: %s", run.Script, run.Outcome)
		fmt.Fprintln(cmd.Root().Writer, run.Results.Tree(title))
	}

	if code != controller.ExitOK {
		msg := fmt.Sprintf("script exited with code %d", code)
		if run != nil && run.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, run.Err)
		}
		slog.Default().Error("Script did not complete", "exitCode", code)
		return cli.Exit(msg, int(code))
	}
	return nil
}
