package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mgpai22/sutra/internal/logging"
)

// ErrMissingArtifact marks a required upstream file that is absent or
// unparseable. Callers treat it as fatal.
var ErrMissingArtifact = errors.New("missing artifact")

// ErrMalformedRecord marks record-level damage that cannot be skipped
// without violating a downstream invariant.
var ErrMalformedRecord = errors.New("malformed record")

// Loader reads the per-video artifact directory written by the extraction
// stages:
//
//	<dir>/source/metadata.json
//	<dir>/asr.json
//	<dir>/scenes.json
//	<dir>/keyframes.json
//	<dir>/ocr.json
type Loader struct {
	dir    string
	logger *logging.Logger
}

func NewLoader(dir string, logger *logging.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load reads and validates all artifacts for one video.
func (l *Loader) Load() (*VideoData, error) {
	meta, err := l.loadMetadata()
	if err != nil {
		return nil, err
	}

	segments, err := l.loadASR()
	if err != nil {
		return nil, err
	}

	scenes, err := l.loadScenes()
	if err != nil {
		return nil, err
	}

	keyframes, err := l.loadKeyframes()
	if err != nil {
		return nil, err
	}

	captures, err := l.loadOCR(keyframes)
	if err != nil {
		return nil, err
	}

	data := &VideoData{
		VideoID:     meta.ID,
		Metadata:    meta,
		ASRSegments: segments,
		Scenes:      scenes,
		Keyframes:   keyframes,
		OCRCaptures: captures,
	}

	l.logger.Infow("Loaded artifacts",
		"video_id", data.VideoID,
		"asr_segments", len(segments),
		"scenes", len(scenes),
		"keyframes", len(keyframes),
		"ocr_captures", len(captures),
	)

	return data, nil
}

func (l *Loader) readJSON(name string, v any) error {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrMissingArtifact, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingArtifact, path, err)
	}
	return nil
}

func (l *Loader) loadMetadata() (Metadata, error) {
	var meta Metadata
	if err := l.readJSON(filepath.Join("source", "metadata.json"), &meta); err != nil {
		return Metadata{}, err
	}
	if meta.ID == "" {
		return Metadata{}, fmt.Errorf("%w: metadata.json has no video id", ErrMalformedRecord)
	}
	if meta.DurationS <= 0 {
		return Metadata{}, fmt.Errorf("%w: metadata.json declares zero duration", ErrMalformedRecord)
	}
	return meta, nil
}

func (l *Loader) loadASR() ([]ASRSegment, error) {
	var doc struct {
		Segments []ASRSegment `json:"segments"`
	}
	if err := l.readJSON("asr.json", &doc); err != nil {
		return nil, err
	}

	segments := make([]ASRSegment, 0, len(doc.Segments))
	for i, seg := range doc.Segments {
		if seg.EndMS < seg.StartMS {
			l.logger.Warnw("Skipping ASR segment with inverted interval",
				"index", i, "start_ms", seg.StartMS, "end_ms", seg.EndMS)
			continue
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (l *Loader) loadScenes() ([]Scene, error) {
	var doc struct {
		Scenes []Scene `json:"scenes"`
	}
	if err := l.readJSON("scenes.json", &doc); err != nil {
		return nil, err
	}

	scenes := make([]Scene, 0, len(doc.Scenes))
	for i, sc := range doc.Scenes {
		if sc.EndMS <= sc.StartMS {
			// cannot skip: a dropped scene would leave a hole in the
			// chunk timeline
			return nil, fmt.Errorf("%w: scene %d at index %d has empty interval [%d,%d)",
				ErrMalformedRecord, sc.SceneID, i, sc.StartMS, sc.EndMS)
		}
		if sc.DurationMS == 0 {
			sc.DurationMS = sc.EndMS - sc.StartMS
		}
		scenes = append(scenes, sc)
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: scenes.json contains no scenes", ErrMalformedRecord)
	}
	return scenes, nil
}

func (l *Loader) loadKeyframes() ([]Keyframe, error) {
	var doc struct {
		Keyframes []Keyframe `json:"keyframes"`
	}
	if err := l.readJSON("keyframes.json", &doc); err != nil {
		return nil, err
	}

	keyframes := make([]Keyframe, 0, len(doc.Keyframes))
	for i, kf := range doc.Keyframes {
		if kf.Filename == "" {
			l.logger.Warnw("Skipping keyframe without file reference",
				"index", i, "frame_id", kf.FrameID)
			continue
		}
		keyframes = append(keyframes, kf)
	}
	return keyframes, nil
}

func (l *Loader) loadOCR(keyframes []Keyframe) ([]OCRCapture, error) {
	var doc struct {
		Results []OCRCapture `json:"results"`
	}
	if err := l.readJSON("ocr.json", &doc); err != nil {
		return nil, err
	}

	known := make(map[int]bool, len(keyframes))
	for _, kf := range keyframes {
		known[kf.FrameID] = true
	}

	captures := make([]OCRCapture, 0, len(doc.Results))
	for i, res := range doc.Results {
		if !known[res.FrameID] {
			l.logger.Warnw("Skipping OCR capture for unknown keyframe",
				"index", i, "frame_id", res.FrameID)
			continue
		}
		captures = append(captures, res)
	}
	return captures, nil
}
