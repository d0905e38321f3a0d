package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"lensdl/pkg/scraper"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <url>",
	Short: "Print the extracted messages as JSON lines without downloading",
	Long: `Print every message the extractor for <url> produces, one JSON object
per line, to standard output. Queued album URLs are printed, not followed.`,
	Example: `  lensdl dump https://lensdump.com/a/1IhJr | jq -r 'select(.type == "url") | .url'`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		s, err := scraper.New(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		_, err = s.Dump(ctx, args[0], cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
