package cli

import (
	"fmt"

	"github.com/mgpai22/sutra/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample config file",
	Long: `Write the annotated sample configuration to the given path
(default: sutra.toml). Refuses to overwrite an existing file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "sutra.toml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteSample(path); err != nil {
			return err
		}
		fmt.Printf("Sample config written: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rows := [][]string{
			{"chunking.min_chunk_duration_ms", fmt.Sprintf("%d", cfg.Chunking.MinChunkDurationMS)},
			{"chunking.max_chunk_duration_ms", fmt.Sprintf("%d", cfg.Chunking.MaxChunkDurationMS)},
			{"chunking.merge_short_scenes", fmt.Sprintf("%t", cfg.Chunking.MergeShortScenes)},
			{"chunking.split_long_scenes", fmt.Sprintf("%t", cfg.Chunking.SplitLongScenes)},
			{"chunking.ui_chrome_threshold", fmt.Sprintf("%g", cfg.Chunking.UIChromeThreshold)},
			{"chunking.text_overlap_threshold", fmt.Sprintf("%g", cfg.Chunking.TextOverlapThreshold)},
			{"alignment.concurrency", fmt.Sprintf("%d", cfg.Alignment.Concurrency)},
			{"validation.coverage_window_sec", fmt.Sprintf("%d", cfg.Validation.CoverageWindowSec)},
			{"validation.keyframe_gap_threshold_sec", fmt.Sprintf("%d", cfg.Validation.KeyframeGapThresholdSec)},
			{"validation.ocr_high_conf", fmt.Sprintf("%g", cfg.Validation.OCRHighConf)},
			{"validation.ocr_low_conf", fmt.Sprintf("%g", cfg.Validation.OCRLowConf)},
			{"validation.min_ocr_text_length", fmt.Sprintf("%d", cfg.Validation.MinOCRTextLength)},
		}
		fmt.Println(renderTable([]string{"Key", "Value"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
