package timeline

import (
	"sort"

	"github.com/mgpai22/sutra/internal/artifact"
)

// Kind discriminates timeline event variants.
type Kind string

const (
	KindChapterStart Kind = "chapter_start"
	KindChapterEnd   Kind = "chapter_end"
	KindSceneStart   Kind = "scene_start"
	KindSceneEnd     Kind = "scene_end"
	KindASRSegment   Kind = "asr_segment"
	KindKeyframe     Kind = "keyframe"
	KindOCRCapture   Kind = "ocr_capture"
)

// ChapterPayload accompanies chapter start/end events.
type ChapterPayload struct {
	ChapterIndex int     `json:"chapter_index"`
	Title        string  `json:"title"`
	StartTimeS   float64 `json:"start_time_s"`
	EndTimeS     float64 `json:"end_time_s"`
}

// ScenePayload accompanies scene start/end events.
type ScenePayload struct {
	SceneID    int   `json:"scene_id"`
	StartMS    int64 `json:"start_ms"`
	EndMS      int64 `json:"end_ms"`
	DurationMS int64 `json:"duration_ms"`
}

// ASRPayload accompanies an asr_segment event, placed at the segment start.
type ASRPayload struct {
	SegmentIndex int    `json:"segment_index"`
	StartMS      int64  `json:"start_ms"`
	EndMS        int64  `json:"end_ms"`
	Text         string `json:"text"`
	WordCount    int    `json:"word_count"`
}

// KeyframePayload accompanies a keyframe event.
type KeyframePayload struct {
	FrameID   int     `json:"frame_id"`
	SceneID   int     `json:"scene_id"`
	Filename  string  `json:"filename"`
	BlurScore float64 `json:"blur_score"`
}

// OCRPayload accompanies an ocr_capture event, placed at the owning
// keyframe's timestamp.
type OCRPayload struct {
	FrameID     int    `json:"frame_id"`
	SceneID     int    `json:"scene_id"`
	ImagePath   string `json:"image_path"`
	TotalBlocks int    `json:"total_blocks"`
	FullText    string `json:"full_text"`
}

// Event is one entry on the unified temporal spine. Exactly one payload
// pointer is non-nil, matching Kind.
type Event struct {
	TimestampMS int64            `json:"timestamp_ms"`
	Kind        Kind             `json:"kind"`
	Chapter     *ChapterPayload  `json:"chapter,omitempty"`
	Scene       *ScenePayload    `json:"scene,omitempty"`
	ASR         *ASRPayload      `json:"asr,omitempty"`
	Keyframe    *KeyframePayload `json:"keyframe,omitempty"`
	OCR         *OCRPayload      `json:"ocr,omitempty"`
}

// Build projects all modalities onto one ordered event sequence. The sort
// is stable on timestamp only, so equal-timestamp events keep the emission
// order: chapters, scenes, ASR segments, keyframes, OCR captures.
func Build(data *artifact.VideoData) []Event {
	var events []Event

	for i, ch := range data.Metadata.Chapters {
		payload := &ChapterPayload{
			ChapterIndex: i,
			Title:        ch.Title,
			StartTimeS:   ch.StartTimeS,
			EndTimeS:     ch.EndTimeS,
		}
		events = append(events,
			Event{TimestampMS: ch.StartMS(), Kind: KindChapterStart, Chapter: payload},
			Event{TimestampMS: ch.EndMS(), Kind: KindChapterEnd, Chapter: payload},
		)
	}

	for _, sc := range data.Scenes {
		payload := &ScenePayload{
			SceneID:    sc.SceneID,
			StartMS:    sc.StartMS,
			EndMS:      sc.EndMS,
			DurationMS: sc.DurationMS,
		}
		events = append(events,
			Event{TimestampMS: sc.StartMS, Kind: KindSceneStart, Scene: payload},
			Event{TimestampMS: sc.EndMS, Kind: KindSceneEnd, Scene: payload},
		)
	}

	for i, seg := range data.ASRSegments {
		events = append(events, Event{
			TimestampMS: seg.StartMS,
			Kind:        KindASRSegment,
			ASR: &ASRPayload{
				SegmentIndex: i,
				StartMS:      seg.StartMS,
				EndMS:        seg.EndMS,
				Text:         seg.Text,
				WordCount:    len(seg.Words),
			},
		})
	}

	for _, kf := range data.Keyframes {
		events = append(events, Event{
			TimestampMS: kf.TimestampMS,
			Kind:        KindKeyframe,
			Keyframe: &KeyframePayload{
				FrameID:   kf.FrameID,
				SceneID:   kf.SceneID,
				Filename:  kf.Filename,
				BlurScore: kf.BlurScore,
			},
		})
	}

	frames := data.KeyframeByFrameID()
	for _, res := range data.OCRCaptures {
		kf, ok := frames[res.FrameID]
		if !ok {
			continue
		}
		events = append(events, Event{
			TimestampMS: kf.TimestampMS,
			Kind:        KindOCRCapture,
			OCR: &OCRPayload{
				FrameID:     res.FrameID,
				SceneID:     res.SceneID,
				ImagePath:   res.ImagePath,
				TotalBlocks: len(res.TextBlocks),
				FullText:    res.FullText,
			},
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TimestampMS < events[j].TimestampMS
	})

	return events
}
