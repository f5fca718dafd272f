package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/scriptsvc/internal/config"
)

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to TOML configuration file",
			Sources: cli.EnvVars("SCRIPTSVC_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "script",
			Aliases: []string{"s"},
			Usage:   "Script to run, overrides script.path",
		},
		&cli.StringFlag{
			Name:    "engine",
			Aliases: []string{"e"},
			Usage:   "Script engine (starlark or risor), overrides script.engine",
		},
		&cli.StringSliceFlag{
			Name:    "arg",
			Aliases: []string{"a"},
			Usage:   "Argument passed to the script, may be repeated",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Service name, overrides service.name",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (trace, debug, info, warn, error)",
			Sources: cli.EnvVars("SCRIPTSVC_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json)",
			Sources: cli.EnvVars("SCRIPTSVC_LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:  "diagnostics-listen",
			Usage: "Address for the diagnostics HTTP listener, overrides diagnostics.listen",
		},
	}
}

// loadConfig builds the service configuration from the --config file, if any, with flag
// overrides applied. Without --config, the first positional argument is taken as the script
// path when --script is not set; the remaining positionals are script arguments.
func loadConfig(cmd *cli.Command) (*config.Service, error) {
	script := cmd.String("script")
	positional := cmd.Args().Slice()
	if script == "" && cmd.String("config") == "" && len(positional) > 0 {
		script, positional = positional[0], positional[1:]
	}
	args := append(cmd.StringSlice("arg"), positional...)

	overrides := []config.Override{
		config.WithScriptPath(script),
		config.WithEngine(cmd.String("engine")),
		config.WithArgs(args),
		config.WithServiceName(cmd.String("name")),
		config.WithLogLevel(cmd.String("log-level")),
		config.WithLogFormat(cmd.String("log-format")),
		config.WithDiagnosticsListen(cmd.String("diagnostics-listen")),
	}

	if path := cmd.String("config"); path != "" {
		cfg, err := config.NewConfig(path, overrides...)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.NewFromOverrides(wd, overrides...)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}
	return cfg, nil
}
