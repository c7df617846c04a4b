// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// Sink saves debug output to files under baseDir:
//
//	probe.json
//	frames/keyframe_{n}.{jpg|png}
//	chips/aligned_keyframe_{n}_{k}.png  (annotated)
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveProbeJSON saves the probed source metadata as JSON.
func (s *Sink) SaveProbeJSON(data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, "probe.json"), data)
}

// SaveRawFrame saves an encoded raw frame.
func (s *Sink) SaveRawFrame(ordinal int, data []byte, format ports.ImageFormat) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, pipeline.FrameName(ordinal, format.Ext())), data)
}

// SaveChip saves a chip labelled with its frame and detection index.
func (s *Sink) SaveChip(chip ports.FaceChip) error {
	dir := filepath.Join(s.baseDir, "chips")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}

	label := fmt.Sprintf("frame %d #%d", chip.Ordinal, chip.Detection)
	data, err := s.renderer.EncodeImage(s.renderer.Annotate(chip.Image, label), ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode chip: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(dir, pipeline.ChipName(chip.Ordinal, chip.Detection)), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
