package chunk

import (
	"reflect"
	"testing"

	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/config"
	"github.com/mgpai22/sutra/internal/logging"
)

func testChunkingConfig() config.Chunking {
	return config.Chunking{
		MinChunkDurationMS:   5000,
		MaxChunkDurationMS:   60000,
		MergeShortScenes:     true,
		SplitLongScenes:      true,
		UIChromeThreshold:    0.8,
		TextOverlapThreshold: 0.9,
	}
}

func scene(id int, startMS, endMS int64) artifact.Scene {
	return artifact.Scene{
		SceneID:    id,
		StartMS:    startMS,
		EndMS:      endMS,
		DurationMS: endMS - startMS,
	}
}

func TestBuildFailsWithoutScenes(t *testing.T) {
	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	data := &artifact.VideoData{VideoID: "vid"}

	if _, err := chunker.Build(data); err != ErrNoScenes {
		t.Fatalf("expected ErrNoScenes, got %v", err)
	}
}

func TestShortFirstSceneIsNeverMergedBackward(t *testing.T) {
	// scene 0 is below the minimum duration but has no predecessor
	data := &artifact.VideoData{
		VideoID: "vid",
		Scenes: []artifact.Scene{
			scene(0, 0, 4000),
			scene(1, 4000, 9000),
		},
	}

	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	chunks, err := chunker.Build(data)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].TStartMS != 0 || chunks[0].TEndMS != 4000 {
		t.Errorf("chunk 0: expected [0,4000), got [%d,%d)", chunks[0].TStartMS, chunks[0].TEndMS)
	}
	if chunks[1].TStartMS != 4000 || chunks[1].TEndMS != 9000 {
		t.Errorf("chunk 1: expected [4000,9000), got [%d,%d)", chunks[1].TStartMS, chunks[1].TEndMS)
	}
}

func TestShortMiddleSceneMergesIntoPrevious(t *testing.T) {
	data := &artifact.VideoData{
		VideoID: "vid",
		Scenes: []artifact.Scene{
			scene(0, 0, 6000),
			scene(1, 6000, 9000), // 3000ms, below minimum
			scene(2, 9000, 15000),
		},
	}

	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	chunks, err := chunker.Build(data)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if chunks[0].TStartMS != 0 || chunks[0].TEndMS != 9000 {
		t.Errorf("chunk 0: expected [0,9000), got [%d,%d)", chunks[0].TStartMS, chunks[0].TEndMS)
	}
	if !reflect.DeepEqual(chunks[0].SceneIDs, []int{0, 1}) {
		t.Errorf("chunk 0: expected scene ids [0 1], got %v", chunks[0].SceneIDs)
	}
	if !reflect.DeepEqual(chunks[1].SceneIDs, []int{2}) {
		t.Errorf("chunk 1: expected scene ids [2], got %v", chunks[1].SceneIDs)
	}
}

func TestMergeDisabledKeepsShortScenes(t *testing.T) {
	cfg := testChunkingConfig()
	cfg.MergeShortScenes = false

	data := &artifact.VideoData{
		VideoID: "vid",
		Scenes: []artifact.Scene{
			scene(0, 0, 6000),
			scene(1, 6000, 9000),
		},
	}

	chunker := NewChunker(cfg, logging.NewNopLogger())
	chunks, err := chunker.Build(data)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks with merging disabled, got %d", len(chunks))
	}
}

func TestLongSceneStaysOneChunk(t *testing.T) {
	data := &artifact.VideoData{
		VideoID: "vid",
		Scenes: []artifact.Scene{
			scene(0, 0, 90000), // above MaxChunkDurationMS
		},
	}

	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	chunks, err := chunker.Build(data)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].TEndMS != 90000 {
		t.Errorf("expected end 90000, got %d", chunks[0].TEndMS)
	}
}

func TestChunksPartitionTheSceneRange(t *testing.T) {
	data := &artifact.VideoData{
		VideoID: "vid",
		Scenes: []artifact.Scene{
			scene(0, 0, 7000),
			scene(1, 7000, 8000),
			scene(2, 8000, 20000),
			scene(3, 20000, 22000),
			scene(4, 22000, 30000),
		},
	}

	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	chunks, err := chunker.Build(data)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if chunks[0].TStartMS != 0 {
		t.Errorf("first chunk must start at 0, got %d", chunks[0].TStartMS)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].TStartMS != chunks[i-1].TEndMS {
			t.Errorf("gap or overlap between chunk %d and %d: %d != %d",
				i-1, i, chunks[i-1].TEndMS, chunks[i].TStartMS)
		}
	}
	last := chunks[len(chunks)-1]
	if last.TEndMS != 30000 {
		t.Errorf("last chunk must end at 30000, got %d", last.TEndMS)
	}
}

func TestChapterAssignment(t *testing.T) {
	data := &artifact.VideoData{
		VideoID: "vid",
		Metadata: artifact.Metadata{
			Chapters: []artifact.Chapter{
				{Title: "Intro", StartTimeS: 0, EndTimeS: 10},
				{Title: "Body", StartTimeS: 10, EndTimeS: 20},
			},
		},
		Scenes: []artifact.Scene{
			scene(0, 0, 9000),
			scene(1, 9000, 15000),
			scene(2, 15000, 25000), // starts inside "Body", runs past all chapters
		},
	}

	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	chunks, err := chunker.Build(data)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if chunks[0].ChapterTitle != "Intro" || chunks[0].ChapterIndex != 0 {
		t.Errorf("chunk 0: expected chapter Intro/0, got %s/%d",
			chunks[0].ChapterTitle, chunks[0].ChapterIndex)
	}
	if chunks[1].ChapterTitle != "Intro" {
		t.Errorf("chunk 1 starts at 9000ms, expected Intro, got %s", chunks[1].ChapterTitle)
	}
	if chunks[2].ChapterTitle != "Body" || chunks[2].ChapterIndex != 1 {
		t.Errorf("chunk 2: expected chapter Body/1, got %s/%d",
			chunks[2].ChapterTitle, chunks[2].ChapterIndex)
	}
}

func TestChapterFallbacks(t *testing.T) {
	// timestamp past the last chapter falls back to the last chapter
	chapters := []artifact.Chapter{
		{Title: "Only", StartTimeS: 0, EndTimeS: 5},
	}
	idx, title := findChapter(chapters, 30000)
	if idx != 0 || title != "Only" {
		t.Errorf("expected fallback to last chapter, got %d/%s", idx, title)
	}

	// no chapters yields the placeholder
	idx, title = findChapter(nil, 0)
	if idx != 0 || title != "Unknown" {
		t.Errorf("expected placeholder chapter, got %d/%s", idx, title)
	}
}

func TestChunkCollectsOverlappingModalities(t *testing.T) {
	data := &artifact.VideoData{
		VideoID: "vid",
		Scenes: []artifact.Scene{
			scene(0, 0, 10000),
			scene(1, 10000, 20000),
		},
		ASRSegments: []artifact.ASRSegment{
			{StartMS: 0, EndMS: 4000, Text: "hello"},
			{StartMS: 9500, EndMS: 11000, Text: "bridging"}, // overlaps both
			{StartMS: 15000, EndMS: 16000, Text: "later"},
		},
		Keyframes: []artifact.Keyframe{
			{FrameID: 1, SceneID: 0, TimestampMS: 5000, Filename: "f1.jpg"},
			{FrameID: 2, SceneID: 1, TimestampMS: 15000, Filename: "f2.jpg"},
		},
		OCRCaptures: []artifact.OCRCapture{
			{FrameID: 1, FullText: "slide one"},
			{FrameID: 2, FullText: "slide two"},
		},
	}

	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	chunks, err := chunker.Build(data)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if chunks[0].ASRText != "hello bridging" {
		t.Errorf("chunk 0: expected asr text 'hello bridging', got %q", chunks[0].ASRText)
	}
	if chunks[1].ASRText != "bridging later" {
		t.Errorf("chunk 1: expected asr text 'bridging later', got %q", chunks[1].ASRText)
	}
	if !reflect.DeepEqual(chunks[0].KeyframeIDs, []int{1}) {
		t.Errorf("chunk 0: expected keyframe ids [1], got %v", chunks[0].KeyframeIDs)
	}
	if !reflect.DeepEqual(chunks[0].KeyframePaths, []string{"f1.jpg"}) {
		t.Errorf("chunk 0: expected keyframe paths [f1.jpg], got %v", chunks[0].KeyframePaths)
	}
	if len(chunks[1].OCRCaptures) != 1 || chunks[1].OCRCaptures[0].FullText != "slide two" {
		t.Errorf("chunk 1: expected capture for frame 2, got %+v", chunks[1].OCRCaptures)
	}
	if !chunks[0].HasKeyframe {
		t.Error("chunk 0 should have a keyframe")
	}
}

func TestChunkIDIsDeterministic(t *testing.T) {
	data := &artifact.VideoData{
		VideoID: "abc123",
		Metadata: artifact.Metadata{
			Chapters: []artifact.Chapter{{Title: "Intro", StartTimeS: 0, EndTimeS: 60}},
		},
		Scenes: []artifact.Scene{scene(7, 0, 10000)},
	}

	chunker := NewChunker(testChunkingConfig(), logging.NewNopLogger())
	for i := 0; i < 3; i++ {
		chunks, err := chunker.Build(data)
		if err != nil {
			t.Fatalf("Build returned error: %v", err)
		}
		if chunks[0].ChunkID != "abc123_ch0_sc7" {
			t.Fatalf("run %d: expected chunk id abc123_ch0_sc7, got %s", i, chunks[0].ChunkID)
		}
	}
}
