package chunk

import "github.com/mgpai22/sutra/internal/artifact"

// Completeness flags which modalities contributed to a chunk.
type Completeness struct {
	HasSpeech  bool `json:"has_speech"`
	HasVisual  bool `json:"has_visual"`
	HasOCRText bool `json:"has_ocr_text"`
}

// Provenance is the static video-level snapshot attached to every chunk.
type Provenance struct {
	Title       string   `json:"title"`
	Channel     string   `json:"channel"`
	UploadDate  string   `json:"upload_date"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// Chunk is the unit of fused multimodal content: one contiguous time range
// inside one chapter, carrying every modality that overlaps it.
//
// A chunk is created once by the chunker and then accreted onto by the
// later stages, each owning a disjoint field set:
//
//	cleaner:  OCRText, RetainedFrameIDs
//	aligner:  AlignmentScore, MergedText
//	enricher: ASRConfidence, OCRConfidence, Completeness, Provenance
type Chunk struct {
	ChunkID      string `json:"chunk_id"`
	VideoID      string `json:"video_id"`
	TStartMS     int64  `json:"t_start_ms"`
	TEndMS       int64  `json:"t_end_ms"`
	ChapterIndex int    `json:"chapter_index"`
	ChapterTitle string `json:"chapter_title"`
	SceneID      int    `json:"scene_id"`
	SceneIDs     []int  `json:"scene_ids"`

	ASRText    string `json:"asr_text"`
	OCRText    string `json:"ocr_text"`
	MergedText string `json:"merged_text"`

	KeyframeIDs   []int    `json:"keyframe_ids"`
	KeyframePaths []string `json:"keyframe_paths"`
	HasKeyframe   bool     `json:"has_keyframe"`

	ASRConfidence  float64      `json:"asr_confidence"`
	OCRConfidence  float64      `json:"ocr_confidence"`
	AlignmentScore float64      `json:"alignment_score"`
	Completeness   Completeness `json:"completeness"`
	Provenance     Provenance   `json:"provenance"`

	// raw constituents, not exported downstream
	ASRSegments      []artifact.ASRSegment `json:"-"`
	Keyframes        []artifact.Keyframe   `json:"-"`
	OCRCaptures      []artifact.OCRCapture `json:"-"`
	RetainedFrameIDs []int                 `json:"-"`
}

// DurationMS is the chunk's time-range length.
func (c *Chunk) DurationMS() int64 {
	return c.TEndMS - c.TStartMS
}
