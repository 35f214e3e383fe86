package main

import (
	"context"
	"os"

	"imagecompare/comparison"
	"imagecompare/signalhandler"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	compareFlags struct {
		profileFlags
		Dir        string
		Output     string
		Database   string
		NoProgress bool
	}
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score every datatype against the baseline and write the CSV report",
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := compareFlags.loadProfile()
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid profile")
		}
		if compareFlags.Output != "" {
			profile.Output = compareFlags.Output
		}
		if compareFlags.Database != "" {
			profile.Database = compareFlags.Database
		}

		ctx, stop := signalhandler.SetupHandler(context.Background())
		defer stop()

		log.Debug().Str("dir", compareFlags.Dir).Str("output", profile.Output).Msg("Starting comparison")
		stats, err := comparison.Run(ctx, comparison.Options{
			Profile:      profile,
			FolderPath:   compareFlags.Dir,
			ShowProgress: !compareFlags.NoProgress,
			DebugMode:    verbose,
			Stdout:       os.Stdout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Comparison failed")
		}
		log.Info().
			Int("rows", stats.RowsWritten).
			Int("skipped", stats.SkippedNoBase).
			Int("failed_cells", stats.CellsFailed).
			Str("output", profile.Output).
			Msg("Report written")
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareFlags.register(compareCmd)
	compareCmd.Flags().StringVarP(&compareFlags.Dir, "dir", "d", ".", "Folder containing the renderings")
	compareCmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "CSV report path (default from profile: comparison_results.csv)")
	compareCmd.Flags().StringVar(&compareFlags.Database, "db", "", "Also export the results to this SQLite database")
	compareCmd.Flags().BoolVar(&compareFlags.NoProgress, "no-progress", false, "Disable the progress bar")
}
