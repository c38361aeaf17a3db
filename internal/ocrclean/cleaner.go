package ocrclean

import (
	"sort"
	"strings"

	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/logging"
)

// captureSeparator joins the cleaned text of retained captures.
const captureSeparator = " | "

// ChromeSet is the finalized set of UI-chrome tokens. It is built once over
// all chunks and then treated as immutable; per-chunk cleaning only reads it.
type ChromeSet map[string]struct{}

func (s ChromeSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// BuildChromeSet runs the global frequency pass: every token is counted
// against the number of distinct keyframes whose OCR contains it, and any
// token present in at least threshold of all captured keyframes is chrome.
func BuildChromeSet(chunks []*chunk.Chunk, threshold float64, logger *logging.Logger) ChromeSet {
	framesByToken := make(map[string]map[int]struct{})
	totalFrames := make(map[int]struct{})

	for _, c := range chunks {
		for _, res := range c.OCRCaptures {
			totalFrames[res.FrameID] = struct{}{}
			for _, block := range res.TextBlocks {
				for _, token := range tokenize(block.Text) {
					frames, ok := framesByToken[token]
					if !ok {
						frames = make(map[int]struct{})
						framesByToken[token] = frames
					}
					frames[res.FrameID] = struct{}{}
				}
			}
		}
	}

	chrome := make(ChromeSet)
	if len(totalFrames) == 0 {
		return chrome
	}

	for token, frames := range framesByToken {
		ratio := float64(len(frames)) / float64(len(totalFrames))
		if ratio >= threshold {
			chrome[token] = struct{}{}
			logger.Debugw("Classified UI chrome token",
				"token", token,
				"frames", len(frames),
				"total_frames", len(totalFrames),
			)
		}
	}

	logger.Infow("Identified UI chrome tokens",
		"tokens", len(chrome),
		"total_frames", len(totalFrames),
	)

	return chrome
}

// Clean deduplicates each chunk's OCR captures and stores the cleaned
// on-screen text. Raw captures are never modified; only the chunk's derived
// fields are written.
func Clean(chunks []*chunk.Chunk, chrome ChromeSet, overlapThreshold float64, logger *logging.Logger) {
	for _, c := range chunks {
		cleanChunk(c, chrome, overlapThreshold)
	}
	logger.Infow("Cleaned OCR text", "chunks", len(chunks))
}

func cleanChunk(c *chunk.Chunk, chrome ChromeSet, overlapThreshold float64) {
	if len(c.OCRCaptures) == 0 {
		c.OCRText = ""
		c.RetainedFrameIDs = nil
		return
	}

	retained := deduplicate(c.OCRCaptures, overlapThreshold)

	frameIDs := make([]int, 0, len(retained))
	texts := make([]string, 0, len(retained))
	for _, res := range retained {
		frameIDs = append(frameIDs, res.FrameID)
		if text := cleanText(res.TextBlocks, chrome); text != "" {
			texts = append(texts, text)
		}
	}

	c.OCRText = strings.Join(texts, captureSeparator)
	c.RetainedFrameIDs = frameIDs
}

// deduplicate drops near-duplicate consecutive captures. Each capture is
// compared against the most recently kept one; a near-duplicate replaces it
// when its mean block confidence is higher.
func deduplicate(captures []artifact.OCRCapture, overlapThreshold float64) []artifact.OCRCapture {
	if len(captures) <= 1 {
		return captures
	}

	kept := []artifact.OCRCapture{captures[0]}

	for _, current := range captures[1:] {
		previous := kept[len(kept)-1]

		currentTokens := tokenSet(captureText(current))
		previousTokens := tokenSet(captureText(previous))

		if len(currentTokens) == 0 || len(previousTokens) == 0 {
			kept = append(kept, current)
			continue
		}

		if overlap(currentTokens, previousTokens) < overlapThreshold {
			kept = append(kept, current)
			continue
		}

		if meanConfidence(current) > meanConfidence(previous) {
			kept[len(kept)-1] = current
		}
	}

	return kept
}

// cleanText sorts blocks into reading order, drops blocks that are pure
// chrome, and joins what remains.
func cleanText(blocks []artifact.OCRBlock, chrome ChromeSet) string {
	sorted := make([]artifact.OCRBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, li := blockPosition(sorted[i])
		tj, lj := blockPosition(sorted[j])
		if ti != tj {
			return ti < tj
		}
		return li < lj
	})

	var texts []string
	for _, block := range sorted {
		if hasContent(block.Text, chrome) {
			texts = append(texts, block.Text)
		}
	}
	return strings.Join(texts, " ")
}

// blockPosition returns (top, left) from the block bbox.
func blockPosition(block artifact.OCRBlock) (float64, float64) {
	if len(block.BBox) < 2 {
		return 0, 0
	}
	return block.BBox[1], block.BBox[0]
}

// hasContent reports whether any token of the text is not chrome.
func hasContent(text string, chrome ChromeSet) bool {
	for _, token := range tokenize(text) {
		if !chrome.Contains(token) {
			return true
		}
	}
	return false
}

func captureText(res artifact.OCRCapture) string {
	if res.FullText != "" {
		return res.FullText
	}
	var texts []string
	for _, block := range res.TextBlocks {
		texts = append(texts, block.Text)
	}
	return strings.Join(texts, " ")
}

func meanConfidence(res artifact.OCRCapture) float64 {
	if len(res.TextBlocks) == 0 {
		return 0
	}
	var total float64
	for _, block := range res.TextBlocks {
		total += block.Confidence
	}
	return total / float64(len(res.TextBlocks))
}

// overlap is |intersection| / max(|a|, |b|).
func overlap(a, b map[string]struct{}) float64 {
	var shared int
	for token := range a {
		if _, ok := b[token]; ok {
			shared++
		}
	}
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(shared) / float64(larger)
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokenize(text) {
		set[token] = struct{}{}
	}
	return set
}
