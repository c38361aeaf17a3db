package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mgpai22/sutra/internal/artifact"
	"github.com/mgpai22/sutra/internal/chunk"
	"github.com/mgpai22/sutra/internal/config"
	"github.com/mgpai22/sutra/internal/logging"
)

// asrGapThresholdMS is the fixed silence length treated as a transcript gap.
const asrGapThresholdMS = 5000

// highSeverityGapSec upgrades a keyframe gap from medium to high.
const highSeverityGapSec = 30.0

// Validator re-derives timeline coverage from the raw entities and audits
// the finalized chunks. It deliberately does not assume the chunker's
// invariants hold; it exists to catch their violations. It never mutates
// its inputs.
type Validator struct {
	cfg    config.Validation
	logger *logging.Logger
}

func NewValidator(cfg config.Validation, logger *logging.Logger) *Validator {
	return &Validator{cfg: cfg, logger: logger}
}

// Validate produces the full report for one video.
func (v *Validator) Validate(data *artifact.VideoData, chunks []*chunk.Chunk) *Report {
	windows := v.coverageWindows(data)
	overall := overallCoverage(windows)

	richest, thinnest := densityRanking(chunks)

	report := &Report{
		VideoID:             data.VideoID,
		VideoDurationSec:    float64(data.DurationMS()) / 1000,
		OverallCoveragePct:  overall,
		Verdict:             verdict(overall),
		TimelineWindows:     windows,
		ChapterCoverage:     v.chapterCoverage(data),
		KeyframeGaps:        v.keyframeGaps(data),
		ASRGaps:             v.asrGaps(data),
		QualityFlags:        v.qualityFlags(data, chunks),
		RichestChunks:       richest,
		ThinnestChunks:      thinnest,
		NumTotalKeyframes:   len(data.Keyframes),
		NumTotalASRSegments: len(data.ASRSegments),
		NumTotalOCRBlocks:   countBlocks(data.OCRCaptures),
		NumTotalChunks:      len(chunks),
	}

	v.logger.Infow("Validation complete",
		"video_id", data.VideoID,
		"coverage_pct", fmt.Sprintf("%.1f", overall),
		"verdict", report.Verdict,
		"keyframe_gaps", len(report.KeyframeGaps),
		"quality_flags", len(report.QualityFlags),
	)

	return report
}

// coverageWindows partitions [0, duration) into fixed windows and records
// which modalities reach each one.
func (v *Validator) coverageWindows(data *artifact.VideoData) []CoverageWindow {
	durationMS := data.DurationMS()
	windowMS := int64(v.cfg.CoverageWindowSec) * 1000

	frameTimestamps := make(map[int]int64, len(data.Keyframes))
	for _, kf := range data.Keyframes {
		frameTimestamps[kf.FrameID] = kf.TimestampMS
	}

	var windows []CoverageWindow
	for startMS := int64(0); startMS < durationMS; startMS += windowMS {
		endMS := startMS + windowMS
		if endMS > durationMS {
			endMS = durationMS
		}

		w := CoverageWindow{StartMS: startMS, EndMS: endMS}

		for _, seg := range data.ASRSegments {
			if seg.StartMS < endMS && seg.EndMS > startMS {
				w.HasASR = true
				break
			}
		}

		for _, kf := range data.Keyframes {
			if startMS <= kf.TimestampMS && kf.TimestampMS < endMS {
				w.HasKeyframe = true
				break
			}
		}

		for _, res := range data.OCRCaptures {
			ts, ok := frameTimestamps[res.FrameID]
			if ok && startMS <= ts && ts < endMS {
				w.HasOCR = true
				break
			}
		}

		windows = append(windows, w)
	}

	return windows
}

func overallCoverage(windows []CoverageWindow) float64 {
	if len(windows) == 0 {
		return 0
	}
	covered := 0
	for _, w := range windows {
		if w.HasASR || w.HasKeyframe {
			covered++
		}
	}
	return float64(covered) / float64(len(windows)) * 100
}

func verdict(coveragePct float64) string {
	switch {
	case coveragePct >= 90:
		return VerdictPass
	case coveragePct >= 70:
		return VerdictPartial
	default:
		return VerdictFail
	}
}

// chapterCoverage counts contained entities per chapter. Coverage is
// binary: a chapter with at least one keyframe and one ASR segment is
// fully covered, otherwise not at all.
func (v *Validator) chapterCoverage(data *artifact.VideoData) []ChapterCoverage {
	var coverage []ChapterCoverage

	for i, ch := range data.Metadata.Chapters {
		startMS, endMS := ch.StartMS(), ch.EndMS()

		numScenes := 0
		for _, sc := range data.Scenes {
			if sc.StartMS >= startMS && sc.EndMS <= endMS {
				numScenes++
			}
		}

		numKeyframes := 0
		framesInChapter := make(map[int]bool)
		for _, kf := range data.Keyframes {
			if startMS <= kf.TimestampMS && kf.TimestampMS < endMS {
				numKeyframes++
				framesInChapter[kf.FrameID] = true
			}
		}

		numASR := 0
		for _, seg := range data.ASRSegments {
			if seg.StartMS < endMS && seg.EndMS > startMS {
				numASR++
			}
		}

		numOCR := 0
		for _, res := range data.OCRCaptures {
			if framesInChapter[res.FrameID] {
				numOCR += len(res.TextBlocks)
			}
		}

		pct := 0.0
		if numKeyframes > 0 && numASR > 0 {
			pct = 100.0
		}

		coverage = append(coverage, ChapterCoverage{
			ChapterIndex:   i,
			Title:          ch.Title,
			DurationSec:    ch.EndTimeS - ch.StartTimeS,
			NumScenes:      numScenes,
			NumKeyframes:   numKeyframes,
			NumASRSegments: numASR,
			NumOCRBlocks:   numOCR,
			CoveragePct:    pct,
		})
	}

	return coverage
}

func (v *Validator) keyframeGaps(data *artifact.VideoData) []Gap {
	if len(data.Keyframes) == 0 {
		return nil
	}

	sorted := make([]artifact.Keyframe, len(data.Keyframes))
	copy(sorted, data.Keyframes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TimestampMS < sorted[j].TimestampMS
	})

	threshold := float64(v.cfg.KeyframeGapThresholdSec)

	var gaps []Gap
	for i := 0; i < len(sorted)-1; i++ {
		gapSec := float64(sorted[i+1].TimestampMS-sorted[i].TimestampMS) / 1000
		if gapSec <= threshold {
			continue
		}
		severity := "medium"
		if gapSec > highSeverityGapSec {
			severity = "high"
		}
		gaps = append(gaps, Gap{
			Kind:        "keyframe",
			StartMS:     sorted[i].TimestampMS,
			EndMS:       sorted[i+1].TimestampMS,
			DurationSec: gapSec,
			Severity:    severity,
		})
	}
	return gaps
}

func (v *Validator) asrGaps(data *artifact.VideoData) []Gap {
	if len(data.ASRSegments) == 0 {
		return nil
	}

	sorted := make([]artifact.ASRSegment, len(data.ASRSegments))
	copy(sorted, data.ASRSegments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartMS < sorted[j].StartMS
	})

	var gaps []Gap
	for i := 0; i < len(sorted)-1; i++ {
		gapMS := sorted[i+1].StartMS - sorted[i].EndMS
		if gapMS <= asrGapThresholdMS {
			continue
		}
		// transcript gaps are frequently just silence
		gaps = append(gaps, Gap{
			Kind:        "asr",
			StartMS:     sorted[i].EndMS,
			EndMS:       sorted[i+1].StartMS,
			DurationSec: float64(gapMS) / 1000,
			Severity:    "low",
		})
	}
	return gaps
}

func (v *Validator) qualityFlags(data *artifact.VideoData, chunks []*chunk.Chunk) []QualityFlag {
	var flags []QualityFlag

	capturesByFrame := make(map[int][]artifact.OCRCapture)
	for _, res := range data.OCRCaptures {
		capturesByFrame[res.FrameID] = append(capturesByFrame[res.FrameID], res)
	}

	for _, kf := range data.Keyframes {
		captures := capturesByFrame[kf.FrameID]

		if len(captures) == 0 {
			flags = append(flags, QualityFlag{
				Kind:        "no_ocr",
				Severity:    "medium",
				Description: "No OCR text extracted from keyframe",
				Location:    kf.Filename,
			})
			continue
		}

		var texts []string
		lowConf := 0
		for _, res := range captures {
			for _, block := range res.TextBlocks {
				texts = append(texts, block.Text)
				if block.Confidence < v.cfg.OCRLowConf {
					lowConf++
				}
			}
		}

		if total := len(strings.Join(texts, " ")); total < v.cfg.MinOCRTextLength {
			flags = append(flags, QualityFlag{
				Kind:        "low_ocr_text",
				Severity:    "low",
				Description: fmt.Sprintf("Very little OCR text (%d chars)", total),
				Location:    kf.Filename,
			})
		}

		if lowConf > 0 {
			flags = append(flags, QualityFlag{
				Kind:        "low_ocr_confidence",
				Severity:    "low",
				Description: fmt.Sprintf("%d OCR blocks with confidence < %g", lowConf, v.cfg.OCRLowConf),
				Location:    kf.Filename,
			})
		}
	}

	for _, c := range chunks {
		if !c.Completeness.HasVisual {
			flags = append(flags, QualityFlag{
				Kind:        "no_visual",
				Severity:    "high",
				Description: "Chunk has no visual content",
				Location:    c.ChunkID,
			})
		}
		if !c.Completeness.HasSpeech {
			flags = append(flags, QualityFlag{
				Kind:        "no_speech",
				Severity:    "medium",
				Description: "Chunk has no speech",
				Location:    c.ChunkID,
			})
		}
	}

	return flags
}

// densityRanking scores chunks by combined character length of speech and
// screen text and returns the three richest and three thinnest.
func densityRanking(chunks []*chunk.Chunk) (richest, thinnest []DensityEntry) {
	entries := make([]DensityEntry, 0, len(chunks))
	for _, c := range chunks {
		durationSec := float64(c.DurationMS()) / 1000
		total := len(c.ASRText) + len(c.OCRText)
		density := 0.0
		if durationSec > 0 {
			density = float64(total) / durationSec
		}
		entries = append(entries, DensityEntry{
			ChunkID:        c.ChunkID,
			TotalTextChars: total,
			ASRChars:       len(c.ASRText),
			OCRChars:       len(c.OCRText),
			DurationSec:    durationSec,
			Density:        density,
		})
	}

	byScoreDesc := make([]DensityEntry, len(entries))
	copy(byScoreDesc, entries)
	sort.SliceStable(byScoreDesc, func(i, j int) bool {
		return byScoreDesc[i].TotalTextChars > byScoreDesc[j].TotalTextChars
	})

	top := 3
	if top > len(byScoreDesc) {
		top = len(byScoreDesc)
	}
	richest = byScoreDesc[:top]

	thinnest = make([]DensityEntry, 0, top)
	for i := len(byScoreDesc) - 1; i >= len(byScoreDesc)-top; i-- {
		thinnest = append(thinnest, byScoreDesc[i])
	}
	return richest, thinnest
}

func countBlocks(captures []artifact.OCRCapture) int {
	total := 0
	for _, res := range captures {
		total += len(res.TextBlocks)
	}
	return total
}
