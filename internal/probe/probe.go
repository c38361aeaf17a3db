package probe

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info describes a local media file.
type Info struct {
	Path     string
	Duration time.Duration
	Width    int
	Height   int
	Codec    string
}

// ffprobe JSON output
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// GetInfo probes a media file with ffprobe. Used to cross-check the
// duration declared by the upstream metadata artifact; never required for
// fusion itself.
func GetInfo(path string) (*Info, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", path)
	}

	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", out.Format.Duration, err)
	}

	info := &Info{
		Path:     path,
		Duration: time.Duration(seconds * float64(time.Second)),
	}

	for _, stream := range out.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			info.Codec = stream.CodecName
			break
		}
	}

	return info, nil
}
