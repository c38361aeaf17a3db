package chunk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/config"
	"github.com/mgpai22/sutra/internal/logging"
)

// ErrNoScenes means the scene list is empty and no chunk boundaries can be
// established.
var ErrNoScenes = errors.New("no scenes to chunk")

// boundary is a finalized group of one or more scenes forming a chunk range.
type boundary struct {
	sceneID  int
	startMS  int64
	endMS    int64
	sceneIDs []int
}

// Chunker partitions the scene sequence into chapter-assigned chunks.
type Chunker struct {
	cfg    config.Chunking
	logger *logging.Logger
}

func NewChunker(cfg config.Chunking, logger *logging.Logger) *Chunker {
	return &Chunker{cfg: cfg, logger: logger}
}

// Build creates the ordered chunk list. The chunks are time-ordered,
// non-overlapping, and their union covers exactly what the scenes cover.
func (c *Chunker) Build(data *artifact.VideoData) ([]*Chunk, error) {
	if len(data.Scenes) == 0 {
		return nil, ErrNoScenes
	}

	groups := c.groupScenes(data.Scenes)

	chunks := make([]*Chunk, 0, len(groups))
	for _, g := range groups {
		chunks = append(chunks, c.buildChunk(data, g))
	}

	c.logger.Infow("Created chunks",
		"scenes", len(data.Scenes),
		"chunks", len(chunks),
	)

	return chunks, nil
}

// groupScenes applies the merge/split rules while walking scenes in order.
func (c *Chunker) groupScenes(scenes []artifact.Scene) []boundary {
	var groups []boundary

	for i, sc := range scenes {
		short := c.cfg.MergeShortScenes && sc.DurationMS < c.cfg.MinChunkDurationMS

		// the first scene has nothing to merge backward into
		if short && i > 0 {
			prev := &groups[len(groups)-1]
			prev.endMS = sc.EndMS
			prev.sceneIDs = append(prev.sceneIDs, sc.SceneID)
			c.logger.Debugw("Merged short scene into previous chunk",
				"scene_id", sc.SceneID,
				"duration_ms", sc.DurationMS,
			)
			continue
		}

		if c.cfg.SplitLongScenes && sc.DurationMS > c.cfg.MaxChunkDurationMS {
			// splitting is advisory-only: the scene stays one chunk
			c.logger.Infow("Scene exceeds max chunk duration, keeping as one chunk",
				"scene_id", sc.SceneID,
				"duration_ms", sc.DurationMS,
				"max_chunk_duration_ms", c.cfg.MaxChunkDurationMS,
			)
		}

		groups = append(groups, boundary{
			sceneID:  sc.SceneID,
			startMS:  sc.StartMS,
			endMS:    sc.EndMS,
			sceneIDs: []int{sc.SceneID},
		})
	}

	return groups
}

func (c *Chunker) buildChunk(data *artifact.VideoData, g boundary) *Chunk {
	chapterIndex, chapterTitle := findChapter(data.Metadata.Chapters, g.startMS)

	segments := overlappingSegments(data.ASRSegments, g.startMS, g.endMS)
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, seg.Text)
	}

	keyframes := keyframesForScenes(data.Keyframes, g.sceneIDs)
	keyframeIDs := make([]int, 0, len(keyframes))
	keyframePaths := make([]string, 0, len(keyframes))
	for _, kf := range keyframes {
		keyframeIDs = append(keyframeIDs, kf.FrameID)
		keyframePaths = append(keyframePaths, kf.Filename)
	}

	return &Chunk{
		ChunkID:       fmt.Sprintf("%s_ch%d_sc%d", data.VideoID, chapterIndex, g.sceneID),
		VideoID:       data.VideoID,
		TStartMS:      g.startMS,
		TEndMS:        g.endMS,
		ChapterIndex:  chapterIndex,
		ChapterTitle:  chapterTitle,
		SceneID:       g.sceneID,
		SceneIDs:      g.sceneIDs,
		ASRText:       strings.Join(texts, " "),
		KeyframeIDs:   keyframeIDs,
		KeyframePaths: keyframePaths,
		HasKeyframe:   len(keyframes) > 0,
		ASRSegments:   segments,
		Keyframes:     keyframes,
		OCRCaptures:   capturesForFrames(data.OCRCaptures, keyframeIDs),
	}
}

// findChapter locates the chapter whose [start, end) contains the
// timestamp, first match wins. If none matches, the last chapter is used;
// with no chapters at all, a placeholder is returned.
func findChapter(chapters []artifact.Chapter, timestampMS int64) (int, string) {
	for i, ch := range chapters {
		if ch.StartMS() <= timestampMS && timestampMS < ch.EndMS() {
			return i, ch.Title
		}
	}
	if len(chapters) > 0 {
		return len(chapters) - 1, chapters[len(chapters)-1].Title
	}
	return 0, "Unknown"
}

func overlappingSegments(segments []artifact.ASRSegment, startMS, endMS int64) []artifact.ASRSegment {
	var out []artifact.ASRSegment
	for _, seg := range segments {
		if seg.EndMS < startMS || seg.StartMS > endMS {
			continue
		}
		out = append(out, seg)
	}
	return out
}

func keyframesForScenes(keyframes []artifact.Keyframe, sceneIDs []int) []artifact.Keyframe {
	want := make(map[int]bool, len(sceneIDs))
	for _, id := range sceneIDs {
		want[id] = true
	}
	var out []artifact.Keyframe
	for _, kf := range keyframes {
		if want[kf.SceneID] {
			out = append(out, kf)
		}
	}
	return out
}

func capturesForFrames(captures []artifact.OCRCapture, frameIDs []int) []artifact.OCRCapture {
	want := make(map[int]bool, len(frameIDs))
	for _, id := range frameIDs {
		want[id] = true
	}
	var out []artifact.OCRCapture
	for _, res := range captures {
		if want[res.FrameID] {
			out = append(out, res)
		}
	}
	return out
}
