package mocks

import (
	"context"
	"io"

	"github.com/user/centerstage/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
type FrameSource struct {
	OpenFunc func(ctx context.Context, path string) (ports.FrameStream, error)

	// Stream is returned by Open when OpenFunc is nil.
	Stream *FrameStream

	OpenedPath string
}

func (m *FrameSource) Open(ctx context.Context, path string) (ports.FrameStream, error) {
	m.OpenedPath = path
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	return m.Stream, nil
}

var _ ports.FrameSource = (*FrameSource)(nil)

// FrameStream replays a fixed list of frames.
type FrameStream struct {
	Rate   float64
	Width  int
	Height int
	Frames []ports.Frame
	// Err is returned after the frames are exhausted instead of io.EOF.
	Err error

	pos    int
	Closed bool
}

func (m *FrameStream) FPS() float64 { return m.Rate }

func (m *FrameStream) Size() (int, int) { return m.Width, m.Height }

func (m *FrameStream) Next() (ports.Frame, error) {
	if m.pos >= len(m.Frames) {
		if m.Err != nil {
			return ports.Frame{}, m.Err
		}
		return ports.Frame{}, io.EOF
	}
	f := m.Frames[m.pos]
	m.pos++
	return f, nil
}

func (m *FrameStream) Close() error {
	m.Closed = true
	return nil
}

var _ ports.FrameStream = (*FrameStream)(nil)
