package mocks

import (
	"context"
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

// FaceAligner is a mock implementation of ports.FaceAligner.
type FaceAligner struct {
	mu sync.Mutex

	ReadyFunc func() error
	AlignFunc func(ctx context.Context, frame ports.Frame) ([]ports.FaceChip, error)

	// Recorded calls for verification
	ReadyCalls int
	Aligned    []int // ordinals, in call order
}

func (m *FaceAligner) Ready() error {
	m.mu.Lock()
	m.ReadyCalls++
	m.mu.Unlock()
	if m.ReadyFunc != nil {
		return m.ReadyFunc()
	}
	return nil
}

func (m *FaceAligner) Align(ctx context.Context, frame ports.Frame) ([]ports.FaceChip, error) {
	m.mu.Lock()
	m.Aligned = append(m.Aligned, frame.Ordinal)
	m.mu.Unlock()
	if m.AlignFunc != nil {
		return m.AlignFunc(ctx, frame)
	}
	return nil, nil
}

// AlignedCount returns how many frames were passed to Align.
func (m *FaceAligner) AlignedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Aligned)
}

var _ ports.FaceAligner = (*FaceAligner)(nil)
