package ffmpeg

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

const (
	defaultCRF    = 23
	defaultPreset = "fast"
)

// Encoder implements ports.VideoEncoder by piping raw RGBA frames into libx264.
// An Encoder holds one stream at a time; concurrent runs need their own.
type Encoder struct {
	tools Tools

	mu         sync.Mutex
	width      int
	height     int
	path       string
	cmd        *exec.Cmd
	args       []string
	stdin      io.WriteCloser
	stderr     bytes.Buffer
	frameCount int
}

// NewEncoder creates a new ffmpeg-based H.264 encoder.
func NewEncoder(tools Tools) *Encoder {
	return &Encoder{tools: tools}
}

// Begin starts ffmpeg writing an MP4 to path.
func (e *Encoder) Begin(path string, width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin != nil {
		return fmt.Errorf("%w: %s", ErrEncoderBusy, e.path)
	}

	if width <= 0 || height <= 0 || fps <= 0 {
		return fmt.Errorf("invalid stream parameters %dx%d at %v fps", width, height, fps)
	}

	e.width = width
	e.height = height
	e.path = path
	e.frameCount = 0
	e.stderr.Reset()

	e.args = []string{
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", formatRate(fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", preset(opts),
		"-crf", fmt.Sprintf("%d", crf(opts)),
		// yuv420p requires even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		path,
	}

	// #nosec G204 - binary is resolved by Locate
	e.cmd = exec.Command(e.tools.FFmpeg, e.args...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		e.stdin = nil
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return nil
}

// EncodeFrame writes one frame. Images of a different size are drawn onto
// the stream canvas from their top-left corner.
func (e *Encoder) EncodeFrame(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds() != image.Rect(0, 0, e.width, e.height) || rgba.Stride != e.width*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, e.width, e.height))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	if _, err := e.stdin.Write(rgba.Pix); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", e.frameCount, err)
	}
	e.frameCount++
	return nil
}

// End closes the input and waits for ffmpeg to finish the file.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}

	_ = e.stdin.Close()
	e.stdin = nil

	if err := e.cmd.Wait(); err != nil {
		return &Error{Tool: "ffmpeg", Args: e.args, Stderr: e.stderr.String(), Err: err}
	}
	return nil
}

// Abort kills ffmpeg and removes the partial output. Safe to call at any time.
func (e *Encoder) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin != nil {
		_ = e.stdin.Close()
		e.stdin = nil
		if e.cmd != nil && e.cmd.Process != nil {
			_ = e.cmd.Process.Kill()
			_ = e.cmd.Wait()
		}
	}
	if e.path != "" {
		_ = os.Remove(e.path)
	}
}

// FrameCount returns the number of frames written since Begin.
func (e *Encoder) FrameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCount
}

func crf(opts ports.EncoderOptions) int {
	if opts.Quality < 0 || opts.Quality > 51 {
		return defaultCRF
	}
	return opts.Quality
}

func preset(opts ports.EncoderOptions) string {
	if opts.Preset == "" {
		return defaultPreset
	}
	return opts.Preset
}

var _ ports.VideoEncoder = (*Encoder)(nil)
