package main

import (
	"os"

	"imagecompare/config"
	"imagecompare/logging"
	"imagecompare/types"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Global flags
var (
	verbose     bool
	logPath     string
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:   "imagecompare",
	Short: "Compare fractal renderings across numeric datatypes",
	Long: `Scans a folder of fractal renderings named <family>_<parameters>_<datatype>.<ext>,
groups them by parameter key and scores every datatype against the baseline
rendering with a battery of image-similarity metrics.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logging.SetupLogger(logging.Options{Verbose: verbose, LogPath: logPath}); err != nil {
			log.Fatal().Err(err).Msg("Failed to set up logging")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseLogger()
	},
}

// Execute runs the root command and exits with status 1 on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logPath, "logfile", "", "Also write JSON log lines to this file")
	rootCmd.PersistentFlags().StringVarP(&profilePath, "profile", "p", "", "YAML profile with families, datatypes, baseline and metrics")
}

// profileFlags are the profile overrides shared by every command
type profileFlags struct {
	Baseline  string
	Datatypes []string
	Extension string
	Metrics   []string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Baseline, "baseline", "b", "", "Datatype used as ground truth (default from profile: double)")
	cmd.Flags().StringSliceVarP(&f.Datatypes, "datatypes", "t", nil, "Ordered datatype enumeration, comma separated")
	cmd.Flags().StringVarP(&f.Extension, "extension", "e", "", "Image file extension (default from profile: png)")
	cmd.Flags().StringSliceVarP(&f.Metrics, "metrics", "m", nil, "Metrics to compute, in column order")
}

// loadProfile reads --profile and applies the command line overrides
func (f *profileFlags) loadProfile() (*config.Profile, error) {
	profile, err := config.Load(profilePath)
	if err != nil {
		return nil, err
	}
	if len(f.Datatypes) > 0 {
		profile.Datatypes = make([]types.DatatypeTag, 0, len(f.Datatypes))
		for _, tag := range f.Datatypes {
			profile.Datatypes = append(profile.Datatypes, types.DatatypeTag(tag))
		}
	}
	if f.Baseline != "" {
		profile.Baseline = types.DatatypeTag(f.Baseline)
	}
	if f.Extension != "" {
		profile.Extension = f.Extension
	}
	if len(f.Metrics) > 0 {
		if err := profile.SelectMetrics(f.Metrics); err != nil {
			return nil, err
		}
	}
	return profile, profile.Validate()
}
