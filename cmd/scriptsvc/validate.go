package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/scriptsvc/cmd/scriptsvc/host"
	"github.com/atlanticdynamic/scriptsvc/internal/config"
	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/worker"
)

var validateCmd = &cli.Command{
	Name:      "validate",
	Aliases:   []string{"lint"},
	Usage:     "Validate a configuration and compile its script without running it",
	ArgsUsage: "[script]",
	Flags: append(configFlags(),
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "Show detailed tree view of the validated configuration",
		},
		&cli.BoolFlag{
			Name:  "no-compile",
			Usage: "Only validate the configuration",
		},
	),
	Action: validateAction,
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !cmd.Bool("no-compile") {
		if err := compileCheck(ctx, cfg); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "Configuration for %s is valid\n", cfg.Name())
	if cmd.Bool("tree") {
		fmt.Fprintln(w, cfg)
		return nil
	}
	fmt.Fprintln(w, renderConfigSummary(cfg))
	return nil
}

// compileCheck loads the script on the configured engine and releases it without running.
func compileCheck(ctx context.Context, cfg *config.Service) error {
	eng, err := host.NewEngine(cfg, nil)
	if err != nil {
		return err
	}
	src, err := engine.SourceFromFile(cfg.ScriptPath())
	if err != nil {
		return err
	}
	h, err := worker.Load(ctx, eng, src)
	if err != nil {
		return err
	}
	return h.Cleanup()
}

func renderConfigSummary(cfg *config.Service) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	if cfg.Source() != "" {
		summary.WriteString(fmt.Sprintf("- Path: %s\n", cfg.Source()))
	}
	summary.WriteString(fmt.Sprintf("- Service: %s\n", cfg.Name()))
	summary.WriteString(fmt.Sprintf("- Script: %s (%s)\n", cfg.ScriptPath(), cfg.Engine()))
	summary.WriteString(fmt.Sprintf("- Args: %d\n", len(cfg.Args())))
	summary.WriteString(fmt.Sprintf("- Stop timeout: %s\n", cfg.StopTimeout()))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
