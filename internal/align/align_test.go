package align

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/logging"
)

func TestBothModalitiesEmpty(t *testing.T) {
	c := &chunk.Chunk{ChunkID: "c0"}
	Align(c, logging.NewNopLogger())

	if c.AlignmentScore != 0 {
		t.Errorf("expected score 0, got %g", c.AlignmentScore)
	}
	if c.MergedText != "" {
		t.Errorf("expected empty merged text, got %q", c.MergedText)
	}
}

func TestOnScreenOnly(t *testing.T) {
	c := &chunk.Chunk{ChunkID: "c0", OCRText: "slide title"}
	Align(c, logging.NewNopLogger())

	if c.AlignmentScore != 0 {
		t.Errorf("expected score 0 with one modality, got %g", c.AlignmentScore)
	}
	if c.MergedText != "[ON SCREEN] slide title" {
		t.Errorf("unexpected merged text: %q", c.MergedText)
	}
}

func TestSpokenOnly(t *testing.T) {
	c := &chunk.Chunk{ChunkID: "c0", ASRText: "welcome back everyone"}
	Align(c, logging.NewNopLogger())

	if c.AlignmentScore != 0 {
		t.Errorf("expected score 0 with one modality, got %g", c.AlignmentScore)
	}
	if c.MergedText != "[SPOKEN] welcome back everyone" {
		t.Errorf("unexpected merged text: %q", c.MergedText)
	}
}

func TestIdenticalTextsScoreHigh(t *testing.T) {
	c := &chunk.Chunk{
		ChunkID: "c0",
		ASRText: "neural network training basics",
		OCRText: "neural network training basics",
	}
	Align(c, logging.NewNopLogger())

	if c.AlignmentScore < 0.99 || c.AlignmentScore > 1 {
		t.Errorf("identical texts should score ~1.0, got %g", c.AlignmentScore)
	}
	expected := "[SPOKEN] neural network training basics [ON SCREEN] neural network training basics"
	if c.MergedText != expected {
		t.Errorf("unexpected merged text: %q", c.MergedText)
	}
}

func TestDisjointTextsScoreZero(t *testing.T) {
	c := &chunk.Chunk{
		ChunkID: "c0",
		ASRText: "gradient descent optimizer",
		OCRText: "banana smoothie recipe",
	}
	Align(c, logging.NewNopLogger())

	if c.AlignmentScore != 0 {
		t.Errorf("disjoint vocabularies should score 0, got %g", c.AlignmentScore)
	}
}

func TestScoreStaysInUnitInterval(t *testing.T) {
	pairs := [][2]string{
		{"the model learns weights", "model weights shown here"},
		{"one two three four", "three four five six"},
		{"overlap overlap overlap", "overlap"},
		{"short", "short"},
	}
	for _, pair := range pairs {
		c := &chunk.Chunk{ChunkID: "c0", ASRText: pair[0], OCRText: pair[1]}
		Align(c, logging.NewNopLogger())
		if c.AlignmentScore < 0 || c.AlignmentScore > 1 {
			t.Errorf("score for %q vs %q out of range: %g", pair[0], pair[1], c.AlignmentScore)
		}
	}
}

func TestStopWordOnlyTextDegradesToZero(t *testing.T) {
	// both texts vanish after stop-word removal; the chunk degrades
	// instead of failing
	c := &chunk.Chunk{
		ChunkID: "c0",
		ASRText: "the and of",
		OCRText: "a an the",
	}
	Align(c, logging.NewNopLogger())

	if c.AlignmentScore != 0 {
		t.Errorf("expected degraded score 0, got %g", c.AlignmentScore)
	}
	if c.MergedText == "" {
		t.Error("merged text should still be built when both modalities are present")
	}
}

func TestAlignAllMatchesSequentialAlign(t *testing.T) {
	build := func() []*chunk.Chunk {
		chunks := make([]*chunk.Chunk, 0, 20)
		for i := 0; i < 20; i++ {
			chunks = append(chunks, &chunk.Chunk{
				ChunkID: fmt.Sprintf("c%d", i),
				ASRText: fmt.Sprintf("lecture segment %d covers gradients", i),
				OCRText: fmt.Sprintf("slide %d gradients and losses", i),
			})
		}
		return chunks
	}

	sequential := build()
	for _, c := range sequential {
		Align(c, logging.NewNopLogger())
	}

	parallel := build()
	AlignAll(parallel, 4, logging.NewNopLogger())

	for i := range sequential {
		if sequential[i].AlignmentScore != parallel[i].AlignmentScore {
			t.Errorf("chunk %d: parallel score %g differs from sequential %g",
				i, parallel[i].AlignmentScore, sequential[i].AlignmentScore)
		}
		if sequential[i].MergedText != parallel[i].MergedText {
			t.Errorf("chunk %d: merged text differs between parallel and sequential", i)
		}
	}
}

func TestCosineSimilarityIsBitStable(t *testing.T) {
	// a large shared vocabulary with varied frequencies; the accumulation
	// must not depend on map iteration order
	var a, b strings.Builder
	for i := 0; i < 400; i++ {
		for j := 0; j <= i%7; j++ {
			fmt.Fprintf(&a, "term%03d ", i)
		}
		if i%3 == 0 {
			fmt.Fprintf(&b, "term%03d term%03d ", i, (i*13)%400)
		}
	}

	first, err := cosineSimilarity(a.String(), b.String())
	if err != nil {
		t.Fatalf("cosineSimilarity returned error: %v", err)
	}
	if first <= 0 || first > 1 {
		t.Fatalf("fixture should produce a nonzero score, got %g", first)
	}

	want := math.Float64bits(first)
	for i := 0; i < 1000; i++ {
		score, err := cosineSimilarity(a.String(), b.String())
		if err != nil {
			t.Fatalf("run %d: cosineSimilarity returned error: %v", i, err)
		}
		if got := math.Float64bits(score); got != want {
			t.Fatalf("run %d: score bits %#x differ from first run %#x", i, got, want)
		}
	}
}

func TestCosineSimilarityRejectsEmptyDocuments(t *testing.T) {
	if _, err := cosineSimilarity("", "content"); err == nil {
		t.Error("expected error for empty document")
	}
	if _, err := cosineSimilarity("content", "the of and"); err == nil {
		t.Error("expected error for stop-word-only document")
	}
}

func TestTokenizeDropsNoiseTokens(t *testing.T) {
	tokens := tokenize("The QUICK-brown fox, 42 times; a I x")
	expected := map[string]bool{"quick": true, "brown": true, "fox": true, "42": true, "times": true}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %v", len(expected), tokens)
	}
	for _, tok := range tokens {
		if !expected[tok] {
			t.Errorf("unexpected token %q", tok)
		}
	}
}
