package artifact

// Entities produced by the upstream extraction stages. All timestamps are
// milliseconds since the start of the video unless the field name says
// otherwise.

// Chapter is a half-open [start, end) interval from the video metadata.
type Chapter struct {
	Title      string  `json:"title"`
	StartTimeS float64 `json:"start_time_s"`
	EndTimeS   float64 `json:"end_time_s"`
}

func (c Chapter) StartMS() int64 { return int64(c.StartTimeS * 1000) }
func (c Chapter) EndMS() int64   { return int64(c.EndTimeS * 1000) }

// Word is a single recognized word with its confidence score.
type Word struct {
	Word       string  `json:"word"`
	StartMS    int64   `json:"start_ms"`
	EndMS      int64   `json:"end_ms"`
	Confidence float64 `json:"confidence"`
}

// ASRSegment is one transcript segment with word-level timings.
type ASRSegment struct {
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
	Text    string `json:"text"`
	Words   []Word `json:"words"`
}

// Scene is a detected shot boundary. Scenes are ordered, non-overlapping
// and contiguous over [0, video_duration).
type Scene struct {
	SceneID    int   `json:"scene_id"`
	StartMS    int64 `json:"start_ms"`
	EndMS      int64 `json:"end_ms"`
	DurationMS int64 `json:"duration_ms"`
	StartFrame int   `json:"start_frame"`
	EndFrame   int   `json:"end_frame"`
}

// Keyframe is an extracted representative frame for a scene.
type Keyframe struct {
	FrameID     int     `json:"frame_id"`
	SceneID     int     `json:"scene_id"`
	TimestampMS int64   `json:"timestamp_ms"`
	Filename    string  `json:"filename"`
	BlurScore   float64 `json:"blur_score"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// OCRBlock is one detected text region. BBox is [x_min, y_min, x_max, y_max].
type OCRBlock struct {
	Text       string    `json:"text"`
	BBox       []float64 `json:"bbox"`
	Confidence float64   `json:"confidence"`
}

// OCRCapture is the full OCR output for one keyframe.
type OCRCapture struct {
	FrameID    int        `json:"frame_id"`
	SceneID    int        `json:"scene_id"`
	ImagePath  string     `json:"image_path"`
	TextBlocks []OCRBlock `json:"text_blocks"`
	FullText   string     `json:"full_text"`
}

// Metadata is the video-level record supplied by the acquisition stage.
type Metadata struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DurationS   float64   `json:"duration"`
	Channel     string    `json:"channel"`
	UploadDate  string    `json:"upload_date"`
	Tags        []string  `json:"tags"`
	Chapters    []Chapter `json:"chapters"`
}

// VideoData is the complete set of upstream artifacts for one video.
type VideoData struct {
	VideoID     string
	Metadata    Metadata
	ASRSegments []ASRSegment
	Scenes      []Scene
	Keyframes   []Keyframe
	OCRCaptures []OCRCapture
}

// DurationMS reports the video duration, preferring the declared metadata
// duration and falling back to the end of the last scene.
func (v *VideoData) DurationMS() int64 {
	if v.Metadata.DurationS > 0 {
		return int64(v.Metadata.DurationS * 1000)
	}
	if len(v.Scenes) > 0 {
		return v.Scenes[len(v.Scenes)-1].EndMS
	}
	return 0
}

// KeyframeByFrameID builds a frame-id lookup table.
func (v *VideoData) KeyframeByFrameID() map[int]Keyframe {
	m := make(map[int]Keyframe, len(v.Keyframes))
	for _, kf := range v.Keyframes {
		m[kf.FrameID] = kf
	}
	return m
}
