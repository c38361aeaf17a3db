package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/export"
	"github.com/mgpai22/sutra/internal/timeline"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline [artifact_dir]",
	Short: "Build the merged event timeline for an artifact directory",
	Long: `Merge all per-modality timestamped records into one ordered event
sequence and write it as timeline.json. This is a diagnostic projection; it
does not create chunks.

Examples:
  sutra timeline ./artifacts/dQw4w9WgXcQ
  sutra timeline ./artifacts/dQw4w9WgXcQ -o ./output`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	artifactDir := args[0]

	if _, err := os.Stat(artifactDir); os.IsNotExist(err) {
		return fmt.Errorf("artifact directory not found: %s", artifactDir)
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = filepath.Join(artifactDir, "output")
	}

	loader := artifact.NewLoader(artifactDir, logger)
	data, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	events := timeline.Build(data)

	exporter, err := export.NewExporter(outputDir)
	if err != nil {
		return err
	}
	path, err := exporter.WriteTimeline(data.VideoID, data.DurationMS(), events)
	if err != nil {
		return err
	}

	fmt.Printf("Timeline written: %s\n", path)
	fmt.Printf("  Events: %d\n", len(events))

	return nil
}
