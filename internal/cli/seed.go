package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/glossa/internal/seed"
	"github.com/okian/glossa/pkg/logger"
)

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a running server with synthetic annotation data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			url, _ := cmd.Flags().GetString("url")
			segments, _ := cmd.Flags().GetInt("segments")
			spans, _ := cmd.Flags().GetInt("spans")
			batches, _ := cmd.Flags().GetInt("batches")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			rngSeed, _ := cmd.Flags().GetInt64("seed")

			stats, err := seed.Run(cmd.Context(), seed.Config{
				BaseURL:  url,
				Segments: segments,
				Spans:    spans,
				Batches:  batches,
				Timeout:  timeout,
				Seed:     rngSeed,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"seeded: %d spans accepted, %d rejected, %d batches, %d annotations, archive %s (%s)\n",
				stats.SpansAccepted, stats.SpansRejected, stats.BatchesApplied,
				stats.Annotations, stats.ArchiveID, stats.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().String("url", "http://localhost:9090", "Base URL of the service")
	cmd.Flags().Int("segments", 12, "Number of document segments")
	cmd.Flags().Int("spans", 40, "Number of manual spans to submit")
	cmd.Flags().Int("batches", 5, "Number of machine-output batches")
	cmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().Int64("seed", 1, "PRNG seed for reproducible runs")
	return cmd
}
