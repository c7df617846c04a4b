package mocks

import (
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	ProbeJSON []byte
	RawFrames map[int][]byte
	Chips     []ports.FaceChip
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:   enabled,
		RawFrames: make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveProbeJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProbeJSON = data
	return nil
}

func (m *DebugSink) SaveRawFrame(ordinal int, data []byte, format ports.ImageFormat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RawFrames[ordinal] = data
	return nil
}

func (m *DebugSink) SaveChip(chip ports.FaceChip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Chips = append(m.Chips, chip)
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool { return false }
func (m *NullSink) SaveProbeJSON(data []byte) error { return nil }
func (m *NullSink) SaveRawFrame(ordinal int, data []byte, f ports.ImageFormat) error { return nil }
func (m *NullSink) SaveChip(chip ports.FaceChip) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
