package ffmpeg

import (
	"context"

	"github.com/user/centerstage/pkg/ports"
)

// AudioExtractor re-encodes the first audio stream of a source to AAC.
type AudioExtractor struct {
	tools Tools
}

// NewAudioExtractor creates an AudioExtractor.
func NewAudioExtractor(tools Tools) *AudioExtractor {
	return &AudioExtractor{tools: tools}
}

// ExtractAudio implements ports.AudioExtractor.
func (a *AudioExtractor) ExtractAudio(ctx context.Context, sourcePath, outputPath string) error {
	args := []string{
		"-y",
		"-v", "error",
		"-nostdin",
		"-i", sourcePath,
		"-map", "0:a:0",
		"-vn",
		"-c:a", "aac",
		outputPath,
	}
	_, err := run(ctx, a.tools.FFmpeg, args)
	return err
}

var _ ports.AudioExtractor = (*AudioExtractor)(nil)
