package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/centerstage/pkg/ports"
)

// Prober reads container metadata with ffprobe.
type Prober struct {
	tools Tools
}

// NewProber creates a Prober using the given binaries.
func NewProber(tools Tools) *Prober {
	return &Prober{tools: tools}
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

// Probe implements ports.MediaProber.
func (p *Prober) Probe(ctx context.Context, path string) (ports.MediaInfo, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=format_name,duration:stream=codec_type,codec_name,width,height,avg_frame_rate,r_frame_rate",
		"-of", "json",
		path,
	}
	out, err := run(ctx, p.tools.FFprobe, args)
	if err != nil {
		return ports.MediaInfo{}, err
	}
	return parseProbe(out)
}

func parseProbe(data []byte) (ports.MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.MediaInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := ports.MediaInfo{
		Container: strings.Split(out.Format.FormatName, ",")[0],
	}
	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.DurationSec = d
	}

	foundVideo := false
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if foundVideo {
				continue
			}
			foundVideo = true
			info.VideoCodec = s.CodecName
			info.Width = s.Width
			info.Height = s.Height
			info.FPS = parseRate(s.AvgFrameRate)
			if info.FPS <= 0 {
				info.FPS = parseRate(s.RFrameRate)
			}
		case "audio":
			if !info.HasAudio {
				info.HasAudio = true
				info.AudioCodec = s.CodecName
			}
		}
	}

	if !foundVideo {
		return info, ErrNoVideoStream
	}
	return info, nil
}

// parseRate parses ffprobe rationals such as "30000/1001". "0/0" yields 0.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

var _ ports.MediaProber = (*Prober)(nil)
