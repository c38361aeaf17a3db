package validate

// Verdict values consumed by the external report renderer.
const (
	VerdictPass    = "pass"
	VerdictPartial = "partial"
	VerdictFail    = "fail"
)

// CoverageWindow is one fixed-size time bucket of the coverage analysis.
type CoverageWindow struct {
	StartMS     int64 `json:"start_ms"`
	EndMS       int64 `json:"end_ms"`
	HasASR      bool  `json:"has_asr"`
	HasKeyframe bool  `json:"has_keyframe"`
	HasOCR      bool  `json:"has_ocr"`
}

// ChapterCoverage summarizes per-chapter extraction counts.
type ChapterCoverage struct {
	ChapterIndex   int     `json:"chapter_index"`
	Title          string  `json:"title"`
	DurationSec    float64 `json:"duration_sec"`
	NumScenes      int     `json:"num_scenes"`
	NumKeyframes   int     `json:"num_keyframes"`
	NumASRSegments int     `json:"num_asr_segments"`
	NumOCRBlocks   int     `json:"num_ocr_blocks"`
	CoveragePct    float64 `json:"coverage_pct"`
}

// Gap is a detected interval lacking coverage beyond a threshold.
type Gap struct {
	Kind        string  `json:"kind"`
	StartMS     int64   `json:"start_ms"`
	EndMS       int64   `json:"end_ms"`
	DurationSec float64 `json:"duration_sec"`
	Severity    string  `json:"severity"`
}

// QualityFlag is a non-fatal defect annotation on a keyframe or chunk.
type QualityFlag struct {
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// DensityEntry scores a chunk by its combined text length.
type DensityEntry struct {
	ChunkID        string  `json:"chunk_id"`
	TotalTextChars int     `json:"total_text_chars"`
	ASRChars       int     `json:"asr_chars"`
	OCRChars       int     `json:"ocr_chars"`
	DurationSec    float64 `json:"duration_sec"`
	Density        float64 `json:"density"`
}

// Report is the complete read-only validation output.
type Report struct {
	VideoID            string  `json:"video_id"`
	VideoDurationSec   float64 `json:"video_duration_sec"`
	OverallCoveragePct float64 `json:"overall_coverage_pct"`
	Verdict            string  `json:"verdict"`

	TimelineWindows []CoverageWindow  `json:"timeline_windows"`
	ChapterCoverage []ChapterCoverage `json:"chapter_coverage"`

	KeyframeGaps []Gap `json:"keyframe_gaps"`
	ASRGaps      []Gap `json:"asr_gaps"`

	QualityFlags []QualityFlag `json:"quality_flags"`

	RichestChunks  []DensityEntry `json:"richest_chunks"`
	ThinnestChunks []DensityEntry `json:"thinnest_chunks"`

	NumTotalKeyframes   int `json:"num_total_keyframes"`
	NumTotalASRSegments int `json:"num_total_asr_segments"`
	NumTotalOCRBlocks   int `json:"num_total_ocr_blocks"`
	NumTotalChunks      int `json:"num_total_chunks"`
}
