// Package audio implements the audio track stage.
package audio

import (
	"context"
	"fmt"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// Stage extracts the source's audio track into the working area.
type Stage struct {
	extractor ports.AudioExtractor
	fs        ports.FileSystem
	logger    ports.Logger
}

// NewStage creates a new audio stage.
func NewStage(extractor ports.AudioExtractor, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		extractor: extractor,
		fs:        fs,
		logger:    logger.WithComponent("audio"),
	}
}

// Execute extracts the audio. A failed extraction is not an error: the
// result carries the warning and the run continues silent.
func (s *Stage) Execute(ctx context.Context, input pipeline.AudioInput) (pipeline.AudioResult, error) {
	if !input.HasAudio {
		s.logger.Debug("Source has no audio stream")
		return pipeline.AudioResult{}, nil
	}

	if err := s.extractor.ExtractAudio(ctx, input.SourcePath, input.OutputPath); err != nil {
		if ctx.Err() != nil {
			return pipeline.AudioResult{}, ctx.Err()
		}
		_ = s.fs.Remove(input.OutputPath)

		warning := fmt.Errorf("%w: %w", ports.ErrAudioExtraction, err)
		s.logger.Warn("Audio extraction failed, output will be silent: %v", err)
		return pipeline.AudioResult{Warning: warning}, nil
	}

	s.logger.Debug("Audio extracted to %s", input.OutputPath)
	return pipeline.AudioResult{Present: true, Path: input.OutputPath}, nil
}
