package enrich

import (
	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/logging"
)

// maxDescriptionLen bounds the provenance description snapshot.
const maxDescriptionLen = 500

// Enrich aggregates confidence scores, completeness flags, and the static
// provenance snapshot onto each chunk.
func Enrich(chunks []*chunk.Chunk, meta artifact.Metadata, logger *logging.Logger) {
	provenance := chunk.Provenance{
		Title:       meta.Title,
		Channel:     meta.Channel,
		UploadDate:  meta.UploadDate,
		Tags:        meta.Tags,
		Description: truncate(meta.Description, maxDescriptionLen),
	}

	for _, c := range chunks {
		c.ASRConfidence = asrConfidence(c)
		c.OCRConfidence = ocrConfidence(c)
		c.Completeness = chunk.Completeness{
			HasSpeech:  len(c.ASRSegments) > 0,
			HasVisual:  len(c.Keyframes) > 0,
			HasOCRText: c.OCRText != "",
		}
		c.Provenance = provenance
	}

	logger.Infow("Enriched chunk metadata", "chunks", len(chunks))
}

// asrConfidence is the mean per-word confidence across the chunk's
// segments, 0.0 when there are no scored words.
func asrConfidence(c *chunk.Chunk) float64 {
	var total float64
	var words int
	for _, seg := range c.ASRSegments {
		for _, w := range seg.Words {
			total += w.Confidence
			words++
		}
	}
	if words == 0 {
		return 0
	}
	return total / float64(words)
}

// ocrConfidence is the mean block confidence over the captures the cleaner
// retained, 0.0 when nothing was retained.
func ocrConfidence(c *chunk.Chunk) float64 {
	retained := make(map[int]bool, len(c.RetainedFrameIDs))
	for _, id := range c.RetainedFrameIDs {
		retained[id] = true
	}

	var total float64
	var blocks int
	for _, res := range c.OCRCaptures {
		if !retained[res.FrameID] {
			continue
		}
		for _, block := range res.TextBlocks {
			total += block.Confidence
			blocks++
		}
	}
	if blocks == 0 {
		return 0
	}
	return total / float64(blocks)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
