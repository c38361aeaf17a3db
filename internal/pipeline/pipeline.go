package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/mgpai22/sutra/internal/align"
	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/config"
	"github.com/mgpai22/sutra/internal/enrich"
	"github.com/mgpai22/sutra/internal/export"
	"github.com/mgpai22/sutra/internal/logging"
	"github.com/mgpai22/sutra/internal/ocrclean"
	"github.com/mgpai22/sutra/internal/probe"
	"github.com/mgpai22/sutra/internal/timeline"
	"github.com/mgpai22/sutra/internal/validate"
)

// lockName is the per-output-directory run lock.
const lockName = ".sutra.lock"

// Options selects inputs and outputs for one run.
type Options struct {
	ArtifactDir string
	OutputDir   string
	VideoPath   string // optional media file for a duration cross-check
	Force       bool   // overwrite existing outputs
	Concurrency int    // overrides config alignment concurrency when > 0
}

// Result carries everything a run produced.
type Result struct {
	Data        *artifact.VideoData
	Events      []timeline.Event
	Chunks      []*chunk.Chunk
	Report      *validate.Report
	OutputFiles map[string]string
}

// Pipeline runs the fusion stages in their fixed order:
// load, timeline, chunk, clean, align, enrich, validate, export.
type Pipeline struct {
	cfg    *config.Config
	logger *logging.Logger
}

func New(cfg *config.Config, logger *logging.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// Fuse runs every in-memory stage and the validator, without touching the
// output directory.
func (p *Pipeline) Fuse(opts Options) (*Result, error) {
	start := time.Now()

	data, err := p.load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	stageStart := time.Now()
	events := timeline.Build(data)
	p.logger.Infow("Built timeline",
		"events", len(events),
		"elapsed", time.Since(stageStart).Round(time.Millisecond).String(),
	)

	stageStart = time.Now()
	chunker := chunk.NewChunker(p.cfg.Chunking, p.logger)
	chunks, err := chunker.Build(data)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	p.logger.Infow("Chunking complete",
		"chunks", len(chunks),
		"elapsed", time.Since(stageStart).Round(time.Millisecond).String(),
	)

	// the chrome set must be final before any chunk is cleaned
	stageStart = time.Now()
	chrome := ocrclean.BuildChromeSet(chunks, p.cfg.Chunking.UIChromeThreshold, p.logger)
	ocrclean.Clean(chunks, chrome, p.cfg.Chunking.TextOverlapThreshold, p.logger)
	p.logger.Infow("OCR cleanup complete",
		"chrome_tokens", len(chrome),
		"elapsed", time.Since(stageStart).Round(time.Millisecond).String(),
	)

	stageStart = time.Now()
	concurrency := p.cfg.Alignment.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}
	align.AlignAll(chunks, concurrency, p.logger)
	p.logger.Infow("Alignment complete",
		"elapsed", time.Since(stageStart).Round(time.Millisecond).String(),
	)

	stageStart = time.Now()
	enrich.Enrich(chunks, data.Metadata, p.logger)
	p.logger.Infow("Enrichment complete",
		"elapsed", time.Since(stageStart).Round(time.Millisecond).String(),
	)

	stageStart = time.Now()
	validator := validate.NewValidator(p.cfg.Validation, p.logger)
	report := validator.Validate(data, chunks)
	p.logger.Infow("Validation complete",
		"elapsed", time.Since(stageStart).Round(time.Millisecond).String(),
	)

	p.logger.Infow("Fusion complete",
		"video_id", data.VideoID,
		"chunks", len(chunks),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	return &Result{
		Data:   data,
		Events: events,
		Chunks: chunks,
		Report: report,
	}, nil
}

// Run is Fuse plus artifact export, guarded by an output-directory lock so
// two runs cannot interleave partial outputs.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("export: failed to create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(opts.OutputDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("export: failed to acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("export: another run is active in %s", opts.OutputDir)
	}
	defer lock.Unlock()

	chunksPath := filepath.Join(opts.OutputDir, "chunks.json")
	if _, err := os.Stat(chunksPath); err == nil && !opts.Force {
		return nil, fmt.Errorf("export: %s already exists, use --force to overwrite", chunksPath)
	}

	result, err := p.Fuse(opts)
	if err != nil {
		return nil, err
	}

	exporter, err := export.NewExporter(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	files := make(map[string]string)

	timelinePath, err := exporter.WriteTimeline(result.Data.VideoID, result.Data.DurationMS(), result.Events)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	files["timeline"] = timelinePath

	jsonPath, jsonlPath, err := exporter.WriteChunks(result.Chunks)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	files["chunks_json"] = jsonPath
	files["chunks_jsonl"] = jsonlPath

	reportPath, err := exporter.WriteReport(result.Report)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	files["coverage"] = reportPath

	result.OutputFiles = files

	p.logger.Infow("Export complete",
		"output_dir", opts.OutputDir,
		"files", len(files),
	)

	return result, nil
}

func (p *Pipeline) load(opts Options) (*artifact.VideoData, error) {
	loader := artifact.NewLoader(opts.ArtifactDir, p.logger)
	data, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if opts.VideoPath != "" {
		p.crossCheckDuration(data, opts.VideoPath)
	}

	return data, nil
}

// crossCheckDuration probes the actual media file and warns when the
// declared metadata duration disagrees by more than two seconds. Probe
// failures are logged and ignored; fusion does not depend on the media
// file being present.
func (p *Pipeline) crossCheckDuration(data *artifact.VideoData, videoPath string) {
	info, err := probe.GetInfo(videoPath)
	if err != nil {
		p.logger.Warnw("Media probe failed, skipping duration cross-check",
			"video", videoPath,
			"error", err,
		)
		return
	}

	declared := time.Duration(data.Metadata.DurationS * float64(time.Second))
	diff := (info.Duration - declared).Seconds()
	if math.Abs(diff) > 2 {
		p.logger.Warnw("Declared duration disagrees with media file",
			"declared", declared.String(),
			"probed", info.Duration.String(),
		)
		return
	}

	p.logger.Debugw("Duration cross-check passed",
		"declared", declared.String(),
		"probed", info.Duration.String(),
	)
}
