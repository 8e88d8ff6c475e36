package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// BuildDate can be set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const appName = "wanderflow"

func newCLI() *cli.App {
	return &cli.App{
		Name:        appName,
		Usage:       "bake and preview fly-through animations between trip locations",
		Version:     fmt.Sprintf("%s (%s)", Version, BuildDate),
		Description: "Precomputes camera, cursor and route frames between two checkpoints and plays them back over wall-clock time.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory holding wanderflow.cfg.json",
				Value:   ".",
				EnvVars: []string{"WANDERFLOW_CONFIG_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error (overrides the config file)",
				EnvVars: []string{"WANDERFLOW_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "log-file",
				Usage: "write logs to a session file in logsDir instead of stderr",
			},
		},
		Commands: []*cli.Command{
			locationsCommand(),
			bakeCommand(),
			previewCommand(),
		},
	}
}

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
