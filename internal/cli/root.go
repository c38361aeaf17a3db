package cli

import (
	"github.com/mgpai22/sutra/internal/config"
	"github.com/mgpai22/sutra/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sutra",
	Short: "Fuse per-modality video analysis artifacts into multimodal chunks",
	Long: `Sutra fuses independently produced video-analysis artifacts (speech
transcript segments, scene boundaries, keyframes, on-screen text detections,
and chapter metadata) into one chronologically consistent sequence of
multimodal chunks, then audits the fusion for coverage gaps and quality
defects.

It consumes the JSON artifacts written by the extraction stages and produces
chunk, timeline, and coverage records for downstream embedding, storage, and
reporting tools.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		String("config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory")
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
