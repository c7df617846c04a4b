package mocks

import (
	"image"
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	mu sync.Mutex

	BeginFunc       func(path string, width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image) error
	EndFunc         func() error

	// Recorded calls for verification
	BeginCalled  bool
	BeginPath    string
	BeginWidth   int
	BeginHeight  int
	BeginFPS     float64
	BeginOptions ports.EncoderOptions
	Frames       []image.Image
	EndCalled    bool
	AbortCalled  bool
}

func (m *VideoEncoder) Begin(path string, width, height int, fps float64, opts ports.EncoderOptions) error {
	m.mu.Lock()
	m.BeginCalled = true
	m.BeginPath = path
	m.BeginWidth = width
	m.BeginHeight = height
	m.BeginFPS = fps
	m.BeginOptions = opts
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(path, width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image) error {
	m.mu.Lock()
	m.Frames = append(m.Frames, img)
	m.mu.Unlock()
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img)
	}
	return nil
}

func (m *VideoEncoder) End() error {
	m.mu.Lock()
	m.EndCalled = true
	m.mu.Unlock()
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return nil
}

func (m *VideoEncoder) Abort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AbortCalled = true
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
