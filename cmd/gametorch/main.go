// Package main provides the entry point for the gametorch CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maauso/gametorch/internal/bootstrap"
	"github.com/maauso/gametorch/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(os.Stdout).ExecuteContext(ctx)
}

// app carries state shared by every subcommand. Dependencies are built
// lazily so help output works without an API key.
type app struct {
	out    io.Writer
	local  bool
	cfg    *config.Config
	logger *slog.Logger
	deps   *bootstrap.Dependencies
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "gametorch",
		Short: "Command-line client for GameTorch animations",
		Long: `gametorch submits animation generation requests to GameTorch, polls
until rendering finishes and downloads the resulting ZIP archive.
Your API key is loaded from the GAMETORCH_API_KEY environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&a.local, "local", "l", false,
		"use local server (http://localhost:8000) instead of production")

	rootCmd.AddCommand(newAnimationsCmd(a))
	return rootCmd
}

// init loads configuration and builds dependencies.
func (a *app) init() error {
	if a.deps != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.local {
		cfg.Local = true
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Debug("starting gametorch",
		slog.String("config", cfg.String()),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.deps = deps
	return nil
}
