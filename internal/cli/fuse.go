package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/sutra/internal/pipeline"
	"github.com/spf13/cobra"
)

var fuseCmd = &cobra.Command{
	Use:   "fuse [artifact_dir]",
	Short: "Run the full fusion pipeline over an artifact directory",
	Long: `Run the complete fusion pipeline: load the extraction artifacts, build
the event timeline, create hierarchical chunks, clean OCR text, score
cross-modal alignment, enrich metadata, validate coverage, and export the
results.

The artifact directory must contain source/metadata.json, asr.json,
scenes.json, keyframes.json, and ocr.json.

Examples:
  sutra fuse ./artifacts/dQw4w9WgXcQ
  sutra fuse ./artifacts/dQw4w9WgXcQ -o ./output --force
  sutra fuse ./artifacts/dQw4w9WgXcQ --video lecture.mp4 --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runFuse,
}

func init() {
	rootCmd.AddCommand(fuseCmd)

	fuseCmd.Flags().
		String("video", "", "Media file for a duration cross-check (optional)")
	fuseCmd.Flags().
		Int("concurrency", 0, "Alignment worker count (0 uses the config value)")
	fuseCmd.Flags().
		Bool("force", false, "Overwrite existing outputs")
}

func runFuse(cmd *cobra.Command, args []string) error {
	artifactDir := args[0]

	if _, err := os.Stat(artifactDir); os.IsNotExist(err) {
		return fmt.Errorf("artifact directory not found: %s", artifactDir)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = filepath.Join(artifactDir, "output")
	}
	videoPath, _ := cmd.Flags().GetString("video")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	force, _ := cmd.Flags().GetBool("force")

	logger.Infow("Starting fusion pipeline",
		"artifacts", artifactDir,
		"output", outputDir,
	)

	p := pipeline.New(cfg, logger)
	result, err := p.Run(pipeline.Options{
		ArtifactDir: artifactDir,
		OutputDir:   outputDir,
		VideoPath:   videoPath,
		Force:       force,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputDir)
	fmt.Printf("Fusion complete: %s\n", absOutput)
	fmt.Printf("  Chunks:          %d\n", len(result.Chunks))
	fmt.Printf("  Timeline events: %d\n", len(result.Events))
	fmt.Printf("  Coverage:        %.1f%% (%s)\n",
		result.Report.OverallCoveragePct, result.Report.Verdict)

	return nil
}
