// Package extract implements the frame extraction stage.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// Stage decodes every frame of the source and stages it as an image file.
type Stage struct {
	source   ports.FrameSource
	renderer ports.Renderer
	fs       ports.FileSystem
	sink     ports.DebugSink
	logger   ports.Logger
}

// NewStage creates a new extract stage.
func NewStage(source ports.FrameSource, renderer ports.Renderer, fs ports.FileSystem, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		source:   source,
		renderer: renderer,
		fs:       fs,
		sink:     sink,
		logger:   logger.WithComponent("extract"),
	}
}

// Execute writes keyframe_{n} files into input.FramesDir, n gap-free from 0.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	stream, err := s.source.Open(ctx, input.SourcePath)
	if err != nil {
		if errors.Is(err, ports.ErrSourceUnavailable) {
			return pipeline.ExtractResult{}, err
		}
		return pipeline.ExtractResult{}, fmt.Errorf("%w: %w", ports.ErrSourceUnavailable, err)
	}
	defer stream.Close()

	fps := stream.FPS()
	if fps <= 0 {
		return pipeline.ExtractResult{}, fmt.Errorf("%w: invalid frame rate %v", ports.ErrSourceUnavailable, fps)
	}
	width, height := stream.Size()
	result := pipeline.ExtractResult{FPS: fps, Width: width, Height: height}

	if err := s.fs.MkdirAll(input.FramesDir); err != nil {
		return result, fmt.Errorf("%w: %w", ports.ErrWorkingArea, err)
	}

	quality := input.Quality
	if quality <= 0 {
		quality = pipeline.DefaultFrameQuality
	}
	ext := input.Format.Ext()

	s.logger.Debug("Decoding %s (%dx%d @ %.3f fps)", input.SourcePath, width, height, fps)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		frame, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if result.FrameCount == 0 {
				return result, fmt.Errorf("%w: %w", ports.ErrSourceUnavailable, err)
			}
			// Treat a broken tail like the end of the stream.
			s.logger.Warn("Decoding stopped after %d frames: %v", result.FrameCount, err)
			break
		}

		data, err := s.renderer.EncodeImage(frame.Image, input.Format, quality)
		if err != nil {
			return result, fmt.Errorf("%w: encode frame %d: %w", ports.ErrWorkingArea, frame.Ordinal, err)
		}

		path := filepath.Join(input.FramesDir, pipeline.FrameName(frame.Ordinal, ext))
		if err := s.fs.WriteFile(path, data); err != nil {
			return result, fmt.Errorf("%w: %w", ports.ErrWorkingArea, err)
		}

		if s.sink.Enabled() {
			if err := s.sink.SaveRawFrame(frame.Ordinal, data, input.Format); err != nil {
				s.logger.Debug("Debug sink failed for frame %d: %v", frame.Ordinal, err)
			}
		}

		result.FrameCount++
	}

	if result.FrameCount == 0 {
		return result, fmt.Errorf("%w: no frames decoded", ports.ErrSourceUnavailable)
	}

	s.logger.Debug("Extracted %d frames", result.FrameCount)
	return result, nil
}
