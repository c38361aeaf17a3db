package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/timeline"
	"github.com/mgpai22/sutra/internal/validate"
)

// Exporter writes the fusion outputs consumed by the embedding, storage,
// and report collaborators.
type Exporter struct {
	dir string
}

func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

// WriteChunks writes chunks.json (indented, human-readable) and
// chunks.jsonl (one chunk per line). It returns the written paths.
func (e *Exporter) WriteChunks(chunks []*chunk.Chunk) (jsonPath, jsonlPath string, err error) {
	jsonPath = filepath.Join(e.dir, "chunks.json")
	if err = writeJSON(jsonPath, chunks); err != nil {
		return "", "", err
	}

	jsonlPath = filepath.Join(e.dir, "chunks.jsonl")
	if err = writeJSONL(jsonlPath, chunks); err != nil {
		return "", "", err
	}

	return jsonPath, jsonlPath, nil
}

// timelineDoc is the on-disk shape of the timeline artifact.
type timelineDoc struct {
	VideoID     string           `json:"video_id"`
	DurationMS  int64            `json:"duration_ms"`
	TotalEvents int              `json:"total_events"`
	Events      []timeline.Event `json:"events"`
}

// WriteTimeline writes timeline.json.
func (e *Exporter) WriteTimeline(videoID string, durationMS int64, events []timeline.Event) (string, error) {
	path := filepath.Join(e.dir, "timeline.json")
	doc := timelineDoc{
		VideoID:     videoID,
		DurationMS:  durationMS,
		TotalEvents: len(events),
		Events:      events,
	}
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReport writes coverage.json.
func (e *Exporter) WriteReport(report *validate.Report) (string, error) {
	path := filepath.Join(e.dir, "coverage.json")
	if err := writeJSON(path, report); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeJSONL(path string, chunks []*chunk.Chunk) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to encode chunk %s: %w", c.ChunkID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
