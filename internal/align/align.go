package align

import (
	"sync"

	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/logging"
)

// modality tags prefixing merged display text
const (
	tagSpoken   = "[SPOKEN] "
	tagOnScreen = "[ON SCREEN] "
)

// Align scores the textual agreement between a chunk's speech and
// on-screen text and builds the merged display text. A chunk missing
// either modality scores 0.0; a vectorization failure also degrades to
// 0.0 rather than failing the batch.
func Align(c *chunk.Chunk, logger *logging.Logger) {
	switch {
	case c.ASRText == "" && c.OCRText == "":
		c.AlignmentScore = 0
		c.MergedText = ""
		return
	case c.ASRText == "":
		c.AlignmentScore = 0
		c.MergedText = tagOnScreen + c.OCRText
		return
	case c.OCRText == "":
		c.AlignmentScore = 0
		c.MergedText = tagSpoken + c.ASRText
		return
	}

	score, err := cosineSimilarity(c.ASRText, c.OCRText)
	if err != nil {
		logger.Warnw("Alignment scoring degraded to zero",
			"chunk_id", c.ChunkID,
			"error", err,
		)
		score = 0
	}

	c.AlignmentScore = score
	c.MergedText = tagSpoken + c.ASRText + " " + tagOnScreen + c.OCRText
}

// AlignAll aligns every chunk, fanning the work out over a fixed pool of
// workers. Chunks share no mutable state at this stage, so order of
// execution does not affect the result.
func AlignAll(chunks []*chunk.Chunk, concurrency int, logger *logging.Logger) {
	if len(chunks) == 0 {
		return
	}
	if concurrency <= 0 {
		concurrency = 3
	}
	if concurrency > len(chunks) {
		concurrency = len(chunks)
	}

	workChan := make(chan *chunk.Chunk, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range workChan {
				Align(c, logger)
			}
		}()
	}

	for _, c := range chunks {
		workChan <- c
	}
	close(workChan)
	wg.Wait()

	logger.Infow("Aligned chunks",
		"chunks", len(chunks),
		"concurrency", concurrency,
	)
}
