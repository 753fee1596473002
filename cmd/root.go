package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/elektronenhirn/oper/config"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "oper",
		Usage:   "git-repo history tool",
		Version: "0.3.0",
		Authors: []*cli.Author{
			{Name: "Florian Bramer", Email: "elektronenhirn@gmail.com"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Value:   10,
				Usage:   "include history of the last <n> days",
			},
			&cli.StringFlag{
				Name:    "author",
				Aliases: []string{"a"},
				Usage:   "only include commits where the author matches <pattern>",
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "only include commits where the message contains <pattern>",
			},
			&cli.BoolFlag{
				Name:  "first-parent",
				Usage: "follow only the first parent of merge commits",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "number of repositories scanned in parallel (0 = one per CPU)",
			},
			&cli.StringFlag{
				Name:    "cwd",
				Aliases: []string{"C"},
				Usage:   "change working directory (mostly useful for testing)",
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "write a report to <file> instead of opening the UI (.csv, .ods, .xlsx)",
			},
			&cli.StringSliceFlag{
				Name:    "glob",
				Aliases: []string{"g"},
				Usage:   "find repositories by glob pattern instead of a .repo workspace (can be specified multiple times)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file",
			},
		},
		Action: runAction,
	}
}

// loadConfig loads configuration from file or defaults. Without an explicit
// --config the user-level file is seeded on first run, so there is always
// something to edit.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		if p, err := config.EnsureDefault(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
