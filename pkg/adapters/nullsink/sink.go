// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"github.com/user/centerstage/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveProbeJSON does nothing.
func (s *Sink) SaveProbeJSON(data []byte) error {
	return nil
}

// SaveRawFrame does nothing.
func (s *Sink) SaveRawFrame(ordinal int, data []byte, format ports.ImageFormat) error {
	return nil
}

// SaveChip does nothing.
func (s *Sink) SaveChip(chip ports.FaceChip) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
