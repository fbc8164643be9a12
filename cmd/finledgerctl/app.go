package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"

	"finledger/internal/cli"
	"finledger/internal/config"
	"finledger/internal/log"
)

// openLedger loads the configuration and opens the configured backend. CLI
// diagnostics go to stderr so command output stays clean.
func openLedger(ctx context.Context) (*cli.Ledger, *config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	level := cfg.SlogLevel()
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logger := log.New(log.Config{Level: level, Component: log.ComponentCLI, Output: os.Stderr})
	log.SetDefault(logger)

	ledger, err := cli.OpenLedger(ctx, logger, cfg, true)
	if err != nil {
		return nil, nil, err
	}
	return ledger, cfg, nil
}

func closeLedger(l *cli.Ledger) {
	if err := l.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing ledger: %v\n", err)
	}
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// parseYearFlag turns the -year flag into a filter; empty or "all" means every year.
func parseYearFlag(v string) (*int, error) {
	if v == "" || v == "all" {
		return nil, nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 1 {
		return nil, fmt.Errorf("invalid year %q", v)
	}
	return &y, nil
}
