package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/scriptsvc/cmd/scriptsvc/host"
	"github.com/atlanticdynamic/scriptsvc/internal/config"
	"github.com/atlanticdynamic/scriptsvc/internal/service/winsvc"
)

var serviceCmd = &cli.Command{
	Name:  "service",
	Usage: "Manage the script as a Windows service",
	Commands: []*cli.Command{
		{
			Name:  "install",
			Usage: "Register the service with the service control manager",
			Flags: append(configFlags(),
				&cli.StringFlag{
					Name:  "start-type",
					Usage: "Start type (auto, manual, disabled)",
					Value: string(winsvc.StartAutomatic),
				},
			),
			Action: installAction,
		},
		{
			Name:  "remove",
			Usage: "Unregister the service",
			Flags: configFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				name, _, err := serviceTarget(cmd)
				if err != nil {
					return err
				}
				if err := winsvc.Remove(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.Root().Writer, "Service %s removed\n", name)
				return nil
			},
		},
		{
			Name:  "start",
			Usage: "Start the installed service",
			Flags: configFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				name, _, err := serviceTarget(cmd)
				if err != nil {
					return err
				}
				return winsvc.Start(name)
			},
		},
		{
			Name:  "stop",
			Usage: "Stop the running service and wait for it to reach Stopped",
			Flags: configFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				name, timeout, err := serviceTarget(cmd)
				if err != nil {
					return err
				}
				// the service's own watchdog fires at the stop timeout; allow a margin past it
				return winsvc.Stop(name, 2*timeout)
			},
		},
		{
			Name:  "dispatch",
			Usage: "Run under the service control manager (invoked by the SCM)",
			Flags: append(configFlags(),
				&cli.BoolFlag{
					Name:  "debug",
					Usage: "Run the service handler on the console",
				},
			),
			Action: dispatchAction,
		},
	},
}

func installAction(ctx context.Context, cmd *cli.Command) error {
	cfgPath := cmd.String("config")
	if cfgPath == "" {
		return fmt.Errorf("--config is required to install a service")
	}
	abs, err := filepath.Abs(cfgPath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	err = winsvc.Install(winsvc.InstallOptions{
		Name:        cfg.Name(),
		DisplayName: cfg.DisplayName(),
		Description: cfg.Description(),
		ExePath:     exe,
		Args:        []string{"service", "dispatch", "--config", abs},
		StartType:   winsvc.StartType(cmd.String("start-type")),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "Service %s installed\n", cfg.Name())
	return nil
}

func dispatchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sink, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = sink.Close() }()

	return host.Dispatch(ctx, cfg, sink, cmd.Bool("debug"))
}

// serviceTarget returns the service name and stop timeout. --name alone is enough; otherwise
// the configuration is loaded.
func serviceTarget(cmd *cli.Command) (string, time.Duration, error) {
	if name := cmd.String("name"); name != "" && cmd.String("config") == "" {
		return name, config.DefaultStopTimeout, nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", 0, err
	}
	return cfg.Name(), cfg.StopTimeout(), nil
}
