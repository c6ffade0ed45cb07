package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.uber.org/zap"
)

// newScrapeCmd creates the 'scrape' subcommand: a one-shot extraction that
// prints the assembled brand record as JSON.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <website-url>",
		Short: "Scrapes one storefront and prints the brand record",
		Args:  cobra.ExactArgs(1),
		RunE:  runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, _, err := buildScraper(ctx, cfg, logger)
	if err != nil {
		return err
	}

	record, err := pipeline.Scrape(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scrape %s: %w", args[0], err)
	}
	logger.Info("scrape complete",
		zap.Int("products", len(record.Products)),
		zap.Int("policies", len(record.Policies)),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
