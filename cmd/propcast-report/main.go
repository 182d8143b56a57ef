package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/internal/report"
	"github.com/okian/propcast/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout   = 30 * time.Second
	defaultRunBudget = 2 * time.Minute
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("propcast-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		dataDir = fs.String("data", "", "Data directory to run the pipeline over once")
		baseURL = fs.String("url", "", "Base URL of a running service")
		format  = fs.String("format", report.FormatText, "Output format: text or json")
		seed    = fs.Int64("seed", 0, "Slip seed; 0 keeps the configured or published seed")
		preset  = fs.String("preset", "", "Slip preset, e.g. two-mans")
		timeout = fs.Duration("timeout", defaultTimeout, "HTTP request timeout")
		help    = fs.Bool("help", false, "Show help")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		report.ShowHelp(stdout)
		return 0
	}

	// Logs go to stderr so stdout carries only the report.
	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return 1
	}

	cfg := report.Config{
		DataDir: *dataDir,
		BaseURL: *baseURL,
		Format:  *format,
		Preset:  *preset,
		Timeout: *timeout,
	}
	if *seed != 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "propcast-report:", err)
		report.ShowHelp(stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunBudget)
	defer cancel()

	rep, err := build(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "propcast-report:", err)
		return 1
	}
	if err := report.Render(stdout, rep, cfg.Format); err != nil {
		fmt.Fprintln(stderr, "propcast-report:", err)
		return 1
	}
	return 0
}

func build(ctx context.Context, cfg report.Config) (report.Report, error) {
	if cfg.DataDir != "" {
		appCfg, err := config.Load(ctx)
		if err != nil {
			return report.Report{}, err
		}
		_ = logger.SetLevelString(appCfg.LogLevel)
		return report.Local(ctx, cfg, appCfg)
	}
	return report.NewHTTPClient(cfg.BaseURL, cfg.Timeout).Fetch(ctx, cfg)
}
