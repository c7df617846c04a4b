package ports

// DebugSink abstracts debug output for intermediate results.
// It mirrors staged frames and chips somewhere a person can inspect them.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveProbeJSON saves the probed source metadata as JSON.
	SaveProbeJSON(data []byte) error

	// SaveRawFrame saves an encoded raw frame.
	SaveRawFrame(ordinal int, data []byte, format ImageFormat) error

	// SaveChip saves an aligned face chip.
	SaveChip(chip FaceChip) error
}
