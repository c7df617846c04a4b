package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/centerstage/pkg/ports"
)

// Muxer joins the composed video stream with the extracted audio.
type Muxer struct {
	tools Tools
}

// NewMuxer creates a Muxer.
func NewMuxer(tools Tools) *Muxer {
	return &Muxer{tools: tools}
}

// Mux implements ports.Muxer. The video is re-encoded at req.FPS and the
// audio is cut to the video's duration.
func (m *Muxer) Mux(ctx context.Context, req ports.MuxRequest) error {
	_, err := run(ctx, m.tools.FFmpeg, muxArgs(req))
	return err
}

func muxArgs(req ports.MuxRequest) []string {
	args := []string{"-y", "-v", "error", "-nostdin", "-i", req.VideoPath}
	if req.AudioPath != "" {
		args = append(args, "-i", req.AudioPath)
	}

	args = append(args, "-map", "0:v:0")
	if req.AudioPath != "" {
		args = append(args, "-map", "1:a:0")
	}

	args = append(args,
		"-r", formatRate(req.FPS),
		"-c:v", "libx264",
		"-preset", preset(req.Options),
		"-crf", fmt.Sprintf("%d", crf(req.Options)),
		"-pix_fmt", "yuv420p",
	)
	if req.AudioPath != "" {
		args = append(args, "-c:a", "aac")
		if req.DurationSec > 0 {
			args = append(args, "-t", fmt.Sprintf("%.6f", req.DurationSec))
		}
	}

	if isMP4(req.OutputPath) {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, req.OutputPath)
}

func isMP4(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return true
	}
	return false
}

var _ ports.Muxer = (*Muxer)(nil)
