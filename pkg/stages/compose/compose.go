// Package compose implements the stage that encodes chips into a silent video.
package compose

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// Stage encodes the persisted chips, one video frame per chip.
type Stage struct {
	encoder  ports.VideoEncoder
	renderer ports.Renderer
	fs       ports.FileSystem
	logger   ports.Logger
}

// NewStage creates a new compose stage.
func NewStage(encoder ports.VideoEncoder, renderer ports.Renderer, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		encoder:  encoder,
		renderer: renderer,
		fs:       fs,
		logger:   logger.WithComponent("compose"),
	}
}

// Execute encodes chips in natural name order at input.FPS.
func (s *Stage) Execute(ctx context.Context, input pipeline.ComposeInput) (pipeline.ComposeResult, error) {
	result := pipeline.ComposeResult{}

	names, err := s.fs.ReadDir(input.ChipsDir)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ports.ErrWorkingArea, err)
	}
	chips := names[:0]
	for _, name := range names {
		if _, _, ok := pipeline.ParseChipName(name); ok {
			chips = append(chips, name)
		}
	}
	if len(chips) == 0 {
		return result, fmt.Errorf("%w: no face chips to compose", ports.ErrEncode)
	}
	pipeline.SortNatural(chips)

	size := input.ChipSize
	if size <= 0 {
		size = pipeline.DefaultChipSize
	}
	opts := ports.EncoderOptions{Quality: input.Quality, Preset: input.Preset}

	s.logger.Debug("Encoding %d chips at %.3f fps", len(chips), input.FPS)

	if err := s.encoder.Begin(input.OutputPath, size, size, input.FPS, opts); err != nil {
		return result, fmt.Errorf("%w: begin encoding: %w", ports.ErrEncode, err)
	}

	for _, name := range chips {
		if err := ctx.Err(); err != nil {
			s.encoder.Abort()
			return result, err
		}

		img, err := s.loadChip(filepath.Join(input.ChipsDir, name), size)
		if err != nil {
			s.encoder.Abort()
			return result, fmt.Errorf("%w: %s: %w", ports.ErrEncode, name, err)
		}
		if err := s.encoder.EncodeFrame(img); err != nil {
			s.encoder.Abort()
			return result, fmt.Errorf("%w: encode %s: %w", ports.ErrEncode, name, err)
		}
		result.FrameCount++
	}

	if err := s.encoder.End(); err != nil {
		return result, fmt.Errorf("%w: end encoding: %w", ports.ErrEncode, err)
	}

	if input.FPS > 0 {
		result.DurationSec = float64(result.FrameCount) / input.FPS
	}
	s.logger.Debug("Encoded %d frames (%.2fs)", result.FrameCount, result.DurationSec)
	return result, nil
}

func (s *Stage) loadChip(path string, size int) (image.Image, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := s.renderer.DecodeImage(data, ports.FormatPNG)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		img = s.renderer.ResizeImage(img, size, size)
	}
	return img, nil
}
