package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Chunking controls scene merging and OCR cleanup thresholds.
type Chunking struct {
	MinChunkDurationMS   int64   `toml:"min_chunk_duration_ms"`
	MaxChunkDurationMS   int64   `toml:"max_chunk_duration_ms"`
	MergeShortScenes     bool    `toml:"merge_short_scenes"`
	SplitLongScenes      bool    `toml:"split_long_scenes"`
	UIChromeThreshold    float64 `toml:"ui_chrome_threshold"`
	TextOverlapThreshold float64 `toml:"text_overlap_threshold"`
}

// Alignment controls cross-modal scoring.
type Alignment struct {
	Concurrency int `toml:"concurrency"`
}

// Validation controls coverage analysis thresholds.
type Validation struct {
	CoverageWindowSec       int     `toml:"coverage_window_sec"`
	KeyframeGapThresholdSec int     `toml:"keyframe_gap_threshold_sec"`
	OCRHighConf             float64 `toml:"ocr_high_conf"`
	OCRLowConf              float64 `toml:"ocr_low_conf"`
	MinOCRTextLength        int     `toml:"min_ocr_text_length"`
}

// Config is the full configuration surface.
type Config struct {
	Chunking   Chunking   `toml:"chunking"`
	Alignment  Alignment  `toml:"alignment"`
	Validation Validation `toml:"validation"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chunking: Chunking{
			MinChunkDurationMS:   5000,
			MaxChunkDurationMS:   60000,
			MergeShortScenes:     true,
			SplitLongScenes:      true,
			UIChromeThreshold:    0.8,
			TextOverlapThreshold: 0.9,
		},
		Alignment: Alignment{
			Concurrency: 3,
		},
		Validation: Validation{
			CoverageWindowSec:       5,
			KeyframeGapThresholdSec: 15,
			OCRHighConf:             0.8,
			OCRLowConf:              0.5,
			MinOCRTextLength:        10,
		},
	}
}

// Load reads a TOML config file, applying defaults for absent keys.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Chunking.MinChunkDurationMS <= 0 {
		return fmt.Errorf("chunking.min_chunk_duration_ms must be positive, got %d", c.Chunking.MinChunkDurationMS)
	}
	if c.Chunking.MaxChunkDurationMS < c.Chunking.MinChunkDurationMS {
		return fmt.Errorf("chunking.max_chunk_duration_ms (%d) must be at least min_chunk_duration_ms (%d)",
			c.Chunking.MaxChunkDurationMS, c.Chunking.MinChunkDurationMS)
	}
	if c.Chunking.UIChromeThreshold < 0 || c.Chunking.UIChromeThreshold > 1 {
		return fmt.Errorf("chunking.ui_chrome_threshold must be in [0,1], got %g", c.Chunking.UIChromeThreshold)
	}
	if c.Chunking.TextOverlapThreshold < 0 || c.Chunking.TextOverlapThreshold > 1 {
		return fmt.Errorf("chunking.text_overlap_threshold must be in [0,1], got %g", c.Chunking.TextOverlapThreshold)
	}
	if c.Alignment.Concurrency < 0 {
		return fmt.Errorf("alignment.concurrency must not be negative, got %d", c.Alignment.Concurrency)
	}
	if c.Validation.CoverageWindowSec <= 0 {
		return fmt.Errorf("validation.coverage_window_sec must be positive, got %d", c.Validation.CoverageWindowSec)
	}
	if c.Validation.KeyframeGapThresholdSec <= 0 {
		return fmt.Errorf("validation.keyframe_gap_threshold_sec must be positive, got %d", c.Validation.KeyframeGapThresholdSec)
	}
	if c.Validation.OCRLowConf < 0 || c.Validation.OCRLowConf > 1 {
		return fmt.Errorf("validation.ocr_low_conf must be in [0,1], got %g", c.Validation.OCRLowConf)
	}
	if c.Validation.OCRHighConf < c.Validation.OCRLowConf || c.Validation.OCRHighConf > 1 {
		return fmt.Errorf("validation.ocr_high_conf must be in [ocr_low_conf,1], got %g", c.Validation.OCRHighConf)
	}
	if c.Validation.MinOCRTextLength < 0 {
		return fmt.Errorf("validation.min_ocr_text_length must not be negative, got %d", c.Validation.MinOCRTextLength)
	}
	return nil
}

// SampleConfig returns the embedded sample file contents.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample config to path, refusing to overwrite.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(sampleConfig), 0644)
}
