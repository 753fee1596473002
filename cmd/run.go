package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/elektronenhirn/oper/config"
	"github.com/elektronenhirn/oper/internal/git"
	"github.com/elektronenhirn/oper/internal/history"
	"github.com/elektronenhirn/oper/internal/manifest"
	"github.com/elektronenhirn/oper/internal/progress"
	"github.com/elektronenhirn/oper/internal/report"
	"github.com/elektronenhirn/oper/internal/tui"
)

// scanSettings are the effective scan parameters after merging config file
// defaults with command line flags.
type scanSettings struct {
	Days        int
	Author      string
	Message     string
	FirstParent bool
	Jobs        int
}

// mergeScanSettings lets explicitly set flags win over the config file.
func mergeScanSettings(c *cli.Context, cfg *config.Config) scanSettings {
	s := scanSettings{
		Days:        cfg.Scan.Days,
		FirstParent: cfg.Scan.FirstParent,
		Jobs:        cfg.Scan.Jobs,
		Author:      c.String("author"),
		Message:     c.String("message"),
	}
	if c.IsSet("days") {
		s.Days = c.Int("days")
	}
	if c.IsSet("first-parent") {
		s.FirstParent = c.Bool("first-parent")
	}
	if c.IsSet("jobs") {
		s.Jobs = c.Int("jobs")
	}
	return s
}

// RunContext holds the resolved state for one invocation.
// It encapsulates config loading, flag merging and repository discovery.
type RunContext struct {
	Config   *config.Config
	Settings scanSettings
	Repos    []*history.Repo
}

// NewRunContext creates a context from CLI flags.
func NewRunContext(c *cli.Context) (*RunContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	repos, err := findRepositories(c)
	if err != nil {
		return nil, err
	}
	return &RunContext{
		Config:   cfg,
		Settings: mergeScanSettings(c, cfg),
		Repos:    repos,
	}, nil
}

// ClassifierConfig maps the effective settings onto the commit filter.
func (rc *RunContext) ClassifierConfig() history.ClassifierConfig {
	return history.ClassifierConfig{
		MaxAgeDays: rc.Settings.Days,
		Author:     rc.Settings.Author,
		Message:    rc.Settings.Message,
	}
}

// ScanOptions maps the effective settings onto the scan.
func (rc *RunContext) ScanOptions() history.ScanOptions {
	strategy := git.AllParents
	if rc.Settings.FirstParent {
		strategy = git.FirstParent
	}
	return history.ScanOptions{Strategy: strategy, Jobs: rc.Settings.Jobs}
}

// findRepositories resolves the repositories to scan: glob patterns when
// given, the enclosing .repo workspace otherwise.
func findRepositories(c *cli.Context) ([]*history.Repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if patterns := c.StringSlice("glob"); len(patterns) > 0 {
		return manifest.Discover(cwd, patterns)
	}
	root, err := manifest.FindWorkspaceRoot(cwd)
	if err != nil {
		return nil, err
	}
	return manifest.Load(root)
}

// newSink picks the progress reporting style: live multi-bar rendering on a
// terminal, plain line output when stderr is redirected.
func newSink(slots int) progress.Sink {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return progress.NewMultiBar(os.Stderr, slots)
	}
	return progress.NewPlain(os.Stderr)
}

func runAction(c *cli.Context) error {
	if cwd := c.String("cwd"); cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return fmt.Errorf("failed to change working directory: %w", err)
		}
	}

	rc, err := NewRunContext(c)
	if err != nil {
		return err
	}

	slots, err := history.ResolveJobs(rc.Settings.Jobs)
	if err != nil {
		return err
	}

	sink := newSink(slots)
	snap, err := history.Scan(rc.Repos, rc.ClassifierConfig(), rc.ScanOptions(), sink)
	sink.Wait()
	if err != nil {
		return err
	}

	if path := c.String("report"); path != "" {
		return report.Generate(snap, path, os.Stdout)
	}
	return tui.Run(snap, rc.Config)
}
