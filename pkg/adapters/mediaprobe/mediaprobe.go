// Package mediaprobe reads stream metadata from MP4 containers without
// spawning a process, and defers to another prober for everything else.
package mediaprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/centerstage/pkg/ports"
)

// ErrUnsupported is returned for files the MP4 reader cannot describe.
var ErrUnsupported = errors.New("mediaprobe: unsupported container")

// Prober implements ports.MediaProber.
type Prober struct {
	fallback ports.MediaProber
}

// New creates a Prober. fallback handles non-MP4 files and MP4 files the
// box reader cannot describe. It may be nil.
func New(fallback ports.MediaProber) *Prober {
	return &Prober{fallback: fallback}
}

// Probe implements ports.MediaProber.
func (p *Prober) Probe(ctx context.Context, path string) (ports.MediaInfo, error) {
	if isMP4Ext(path) {
		info, err := ProbeFile(path)
		if err == nil {
			return info, nil
		}
		if p.fallback == nil {
			return ports.MediaInfo{}, err
		}
	}
	if p.fallback == nil {
		return ports.MediaInfo{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	return p.fallback.Probe(ctx, path)
}

// ProbeFile reads the moov box of an MP4 file.
func ProbeFile(path string) (ports.MediaInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads the moov box from r.
func ProbeReader(r io.ReadSeeker) (ports.MediaInfo, error) {
	mp4File, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("decode mp4: %w", err)
	}
	return describe(mp4File)
}

func describe(f *mp4.File) (ports.MediaInfo, error) {
	if f.IsFragmented() || f.Moov == nil {
		return ports.MediaInfo{}, fmt.Errorf("%w: fragmented or missing moov", ErrUnsupported)
	}

	info := ports.MediaInfo{Container: "mp4"}
	if mvhd := f.Moov.Mvhd; mvhd != nil && mvhd.Timescale > 0 {
		info.DurationSec = float64(mvhd.Duration) / float64(mvhd.Timescale)
	}

	foundVideo := false
	for _, trak := range f.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		stbl := trak.Mdia.Minf.Stbl

		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			if foundVideo || stbl.Stsd == nil {
				continue
			}
			foundVideo = true
			for _, child := range stbl.Stsd.Children {
				if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
					info.VideoCodec = videoCodec(child.Type())
					info.Width = int(vse.Width)
					info.Height = int(vse.Height)
					break
				}
			}
			if trak.Mdia.Mdhd != nil {
				info.FPS = frameRate(stbl.Stts, trak.Mdia.Mdhd.Timescale)
			}
		case "soun":
			if info.HasAudio {
				continue
			}
			info.HasAudio = true
			if stbl.Stsd != nil && len(stbl.Stsd.Children) > 0 {
				info.AudioCodec = audioCodec(stbl.Stsd.Children[0].Type())
			}
		}
	}

	if !foundVideo {
		return info, fmt.Errorf("%w: no video track", ErrUnsupported)
	}
	if info.Width <= 0 || info.Height <= 0 || info.FPS <= 0 {
		return info, fmt.Errorf("%w: incomplete video track", ErrUnsupported)
	}
	return info, nil
}

// frameRate derives samples per second from the decoding time table.
func frameRate(stts *mp4.SttsBox, timescale uint32) float64 {
	if stts == nil || timescale == 0 {
		return 0
	}

	var samples, ticks uint64
	for i, count := range stts.SampleCount {
		samples += uint64(count)
		if i < len(stts.SampleTimeDelta) {
			ticks += uint64(count) * uint64(stts.SampleTimeDelta[i])
		}
	}
	if ticks == 0 {
		return 0
	}
	return float64(samples) * float64(timescale) / float64(ticks)
}

func videoCodec(boxType string) string {
	switch boxType {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "hevc"
	case "av01":
		return "av1"
	case "vp09":
		return "vp9"
	case "mp4v":
		return "mpeg4"
	default:
		return boxType
	}
}

func audioCodec(boxType string) string {
	switch boxType {
	case "mp4a":
		return "aac"
	case "ac-3":
		return "ac3"
	case "ec-3":
		return "eac3"
	case "Opus":
		return "opus"
	default:
		return boxType
	}
}

func isMP4Ext(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return true
	}
	return false
}

var _ ports.MediaProber = (*Prober)(nil)
