// Package mux implements the final muxing stage.
package mux

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// Stage joins the composed video with the audio track and promotes the
// result to its final location.
type Stage struct {
	muxer  ports.Muxer
	fs     ports.FileSystem
	logger ports.Logger
}

// NewStage creates a new mux stage.
func NewStage(muxer ports.Muxer, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		muxer:  muxer,
		fs:     fs,
		logger: logger.WithComponent("mux"),
	}
}

// Execute muxes into input.StagedPath, then moves the file to input.FinalPath.
// Nothing appears at FinalPath unless the whole stage succeeds.
func (s *Stage) Execute(ctx context.Context, input pipeline.MuxInput) (pipeline.MuxResult, error) {
	result := pipeline.MuxResult{HasAudio: input.AudioPath != ""}

	req := ports.MuxRequest{
		VideoPath:   input.VideoPath,
		AudioPath:   input.AudioPath,
		OutputPath:  input.StagedPath,
		FPS:         input.FPS,
		DurationSec: input.DurationSec,
		Options:     ports.EncoderOptions{Quality: input.Quality, Preset: input.Preset},
	}

	s.logger.Debug("Muxing %s (audio: %v)", input.VideoPath, result.HasAudio)
	if err := s.muxer.Mux(ctx, req); err != nil {
		_ = s.fs.Remove(input.StagedPath)
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, fmt.Errorf("%w: mux: %w", ports.ErrEncode, err)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := s.fs.MkdirAll(filepath.Dir(input.FinalPath)); err != nil {
		return result, fmt.Errorf("%w: create output directory: %w", ports.ErrEncode, err)
	}
	if err := s.fs.Move(input.StagedPath, input.FinalPath); err != nil {
		return result, fmt.Errorf("%w: promote output: %w", ports.ErrEncode, err)
	}

	result.OutputPath = input.FinalPath
	if size, err := s.fs.Size(input.FinalPath); err == nil {
		result.FileSize = size
	}

	s.logger.Debug("Output promoted to %s (%d bytes)", result.OutputPath, result.FileSize)
	return result, nil
}
