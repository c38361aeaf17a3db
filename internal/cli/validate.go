package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/sutra/internal/export"
	"github.com/mgpai22/sutra/internal/pipeline"
	"github.com/mgpai22/sutra/internal/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [artifact_dir]",
	Short: "Audit extraction coverage and quality for an artifact directory",
	Long: `Run fusion in memory and audit the result: windowed timeline coverage,
per-chapter coverage, keyframe and transcript gaps, quality flags, and
content density rankings. The report is written as coverage.json and a
summary is printed.

Examples:
  sutra validate ./artifacts/dQw4w9WgXcQ
  sutra validate ./artifacts/dQw4w9WgXcQ -o ./output -v`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	p := pipeline.New(cfg, logger)
	result, err := p.Fuse(pipeline.Options{ArtifactDir: artifactDir})
	if err != nil {
		return err
	}

	exporter, err := export.NewExporter(outputDir)
	if err != nil {
		return err
	}
	path, err := exporter.WriteReport(result.Report)
	if err != nil {
		return err
	}

	printReportSummary(result.Report)
	fmt.Printf("\nReport written: %s\n", path)

	return nil
}

func printReportSummary(report *validate.Report) {
	fmt.Printf("Validation of %s (%.0fs)\n\n", report.VideoID, report.VideoDurationSec)

	rows := [][]string{
		{"Coverage", fmt.Sprintf("%.1f%%", report.OverallCoveragePct)},
		{"Verdict", report.Verdict},
		{"Chunks", fmt.Sprintf("%d", report.NumTotalChunks)},
		{"Keyframes", fmt.Sprintf("%d", report.NumTotalKeyframes)},
		{"ASR segments", fmt.Sprintf("%d", report.NumTotalASRSegments)},
		{"OCR blocks", fmt.Sprintf("%d", report.NumTotalOCRBlocks)},
		{"Keyframe gaps", fmt.Sprintf("%d", len(report.KeyframeGaps))},
		{"ASR gaps", fmt.Sprintf("%d", len(report.ASRGaps))},
		{"Quality flags", fmt.Sprintf("%d", len(report.QualityFlags))},
	}
	fmt.Println(renderTable([]string{"Metric", "Value"}, rows))

	if len(report.RichestChunks) > 0 {
		fmt.Println("\nRichest chunks:")
		rows = rows[:0]
		for _, entry := range report.RichestChunks {
			rows = append(rows, []string{
				entry.ChunkID,
				fmt.Sprintf("%d", entry.TotalTextChars),
				fmt.Sprintf("%.1f", entry.Density),
			})
		}
		fmt.Println(renderTable([]string{"Chunk", "Chars", "Chars/s"}, rows))
	}
}
