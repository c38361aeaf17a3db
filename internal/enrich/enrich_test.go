package enrich

import (
	"math"
	"strings"
	"testing"

	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/logging"
)

func testMetadata() artifact.Metadata {
	return artifact.Metadata{
		ID:          "vid",
		Title:       "Intro to Signals",
		Channel:     "SignalLab",
		UploadDate:  "20260115",
		Tags:        []string{"dsp", "lecture"},
		Description: "A long walkthrough of sampling theory.",
	}
}

func TestASRConfidenceIsWordMean(t *testing.T) {
	c := &chunk.Chunk{
		ChunkID: "c0",
		ASRSegments: []artifact.ASRSegment{
			{Words: []artifact.Word{{Confidence: 0.8}, {Confidence: 0.6}}},
			{Words: []artifact.Word{{Confidence: 1.0}}},
		},
	}

	Enrich([]*chunk.Chunk{c}, testMetadata(), logging.NewNopLogger())

	if math.Abs(c.ASRConfidence-0.8) > 1e-9 {
		t.Errorf("expected asr confidence 0.8, got %g", c.ASRConfidence)
	}
}

func TestConfidencesDefaultToZero(t *testing.T) {
	c := &chunk.Chunk{ChunkID: "c0"}
	Enrich([]*chunk.Chunk{c}, testMetadata(), logging.NewNopLogger())

	if c.ASRConfidence != 0 || c.OCRConfidence != 0 {
		t.Errorf("expected zero confidences, got asr=%g ocr=%g", c.ASRConfidence, c.OCRConfidence)
	}
}

func TestOCRConfidenceUsesOnlyRetainedCaptures(t *testing.T) {
	c := &chunk.Chunk{
		ChunkID: "c0",
		OCRCaptures: []artifact.OCRCapture{
			{FrameID: 1, TextBlocks: []artifact.OCRBlock{{Confidence: 0.9}, {Confidence: 0.7}}},
			{FrameID: 2, TextBlocks: []artifact.OCRBlock{{Confidence: 0.1}}}, // deduplicated away
		},
		RetainedFrameIDs: []int{1},
	}

	Enrich([]*chunk.Chunk{c}, testMetadata(), logging.NewNopLogger())

	if math.Abs(c.OCRConfidence-0.8) > 1e-9 {
		t.Errorf("expected ocr confidence 0.8 over retained blocks, got %g", c.OCRConfidence)
	}
}

func TestCompletenessFlags(t *testing.T) {
	c := &chunk.Chunk{
		ChunkID:     "c0",
		ASRSegments: []artifact.ASRSegment{{Text: "hi"}},
		OCRText:     "slide",
	}
	Enrich([]*chunk.Chunk{c}, testMetadata(), logging.NewNopLogger())

	if !c.Completeness.HasSpeech {
		t.Error("expected has_speech")
	}
	if c.Completeness.HasVisual {
		t.Error("did not expect has_visual without keyframes")
	}
	if !c.Completeness.HasOCRText {
		t.Error("expected has_ocr_text")
	}
}

func TestProvenanceIsIdenticalAcrossChunks(t *testing.T) {
	chunks := []*chunk.Chunk{{ChunkID: "c0"}, {ChunkID: "c1"}, {ChunkID: "c2"}}
	Enrich(chunks, testMetadata(), logging.NewNopLogger())

	for _, c := range chunks[1:] {
		if c.Provenance.Title != chunks[0].Provenance.Title ||
			c.Provenance.Channel != chunks[0].Provenance.Channel ||
			c.Provenance.UploadDate != chunks[0].Provenance.UploadDate ||
			c.Provenance.Description != chunks[0].Provenance.Description {
			t.Errorf("provenance differs between chunks: %+v vs %+v",
				chunks[0].Provenance, c.Provenance)
		}
	}
	if chunks[0].Provenance.Title != "Intro to Signals" {
		t.Errorf("unexpected provenance title: %q", chunks[0].Provenance.Title)
	}
}

func TestDescriptionIsTruncated(t *testing.T) {
	meta := testMetadata()
	meta.Description = strings.Repeat("x", 1200)

	c := &chunk.Chunk{ChunkID: "c0"}
	Enrich([]*chunk.Chunk{c}, meta, logging.NewNopLogger())

	if len(c.Provenance.Description) != 500 {
		t.Errorf("expected description truncated to 500 chars, got %d", len(c.Provenance.Description))
	}
}
