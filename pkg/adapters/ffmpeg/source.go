package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

// Source decodes a video into RGBA frames by piping ffmpeg rawvideo output.
type Source struct {
	tools  Tools
	prober ports.MediaProber
}

// NewSource creates a Source. The prober supplies frame size and rate.
func NewSource(tools Tools, prober ports.MediaProber) *Source {
	return &Source{tools: tools, prober: prober}
}

// Open implements ports.FrameSource.
func (s *Source) Open(ctx context.Context, path string) (ports.FrameStream, error) {
	info, err := s.prober.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrSourceUnavailable, err)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid frame size %dx%d", ports.ErrSourceUnavailable, info.Width, info.Height)
	}

	// Frames are emitted exactly as stored: no rotation, no rate conversion.
	args := []string{
		"-v", "error",
		"-nostdin",
		"-noautorotate",
		"-i", path,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-fps_mode", "passthrough",
		"pipe:1",
	}

	// #nosec G204 - binary is resolved by Locate
	cmd := exec.CommandContext(ctx, s.tools.FFmpeg, args...)
	st := &stream{
		cmd:    cmd,
		args:   args,
		fps:    info.FPS,
		width:  info.Width,
		height: info.Height,
	}
	cmd.Stderr = &st.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrSourceUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start ffmpeg: %w", ports.ErrSourceUnavailable, err)
	}
	st.reader = bufio.NewReaderSize(stdout, info.Width*info.Height*4)

	return st, nil
}

type stream struct {
	cmd    *exec.Cmd
	args   []string
	reader *bufio.Reader
	stderr bytes.Buffer

	fps           float64
	width, height int

	next     int
	finished bool
	waitErr  error
	once     sync.Once
}

func (s *stream) FPS() float64 { return s.fps }

func (s *stream) Size() (int, int) { return s.width, s.height }

func (s *stream) Next() (ports.Frame, error) {
	if s.finished {
		return ports.Frame{}, io.EOF
	}

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	_, err := io.ReadFull(s.reader, img.Pix)
	switch {
	case err == nil:
		f := ports.Frame{Ordinal: s.next, Image: img}
		s.next++
		return f, nil
	case errors.Is(err, io.EOF):
		s.finished = true
		if werr := s.wait(); werr != nil {
			return ports.Frame{}, werr
		}
		return ports.Frame{}, io.EOF
	default:
		// A short read means the decoder died mid-frame.
		s.finished = true
		if werr := s.wait(); werr != nil {
			return ports.Frame{}, werr
		}
		return ports.Frame{}, fmt.Errorf("read frame %d: %w", s.next, err)
	}
}

func (s *stream) Close() error {
	if s.finished || s.cmd.Process == nil {
		return nil
	}
	s.finished = true
	_ = s.cmd.Process.Kill()
	_ = s.wait()
	return nil
}

func (s *stream) wait() error {
	s.once.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			s.waitErr = &Error{Tool: "ffmpeg", Args: s.args, Stderr: s.stderr.String(), Err: err}
		}
	})
	return s.waitErr
}

var _ ports.FrameSource = (*Source)(nil)
