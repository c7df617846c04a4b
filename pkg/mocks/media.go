package mocks

import (
	"context"
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

// MediaProber is a mock implementation of ports.MediaProber.
type MediaProber struct {
	ProbeFunc func(ctx context.Context, path string) (ports.MediaInfo, error)
	Info      ports.MediaInfo
}

func (m *MediaProber) Probe(ctx context.Context, path string) (ports.MediaInfo, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	return m.Info, nil
}

var _ ports.MediaProber = (*MediaProber)(nil)

// AudioExtractor is a mock implementation of ports.AudioExtractor.
type AudioExtractor struct {
	mu sync.Mutex

	ExtractAudioFunc func(ctx context.Context, sourcePath, outputPath string) error

	Calls int
}

func (m *AudioExtractor) ExtractAudio(ctx context.Context, sourcePath, outputPath string) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.ExtractAudioFunc != nil {
		return m.ExtractAudioFunc(ctx, sourcePath, outputPath)
	}
	return nil
}

var _ ports.AudioExtractor = (*AudioExtractor)(nil)

// Muxer is a mock implementation of ports.Muxer.
type Muxer struct {
	mu sync.Mutex

	MuxFunc  func(ctx context.Context, req ports.MuxRequest) error
	Requests []ports.MuxRequest
}

func (m *Muxer) Mux(ctx context.Context, req ports.MuxRequest) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.MuxFunc != nil {
		return m.MuxFunc(ctx, req)
	}
	return nil
}

var _ ports.Muxer = (*Muxer)(nil)
