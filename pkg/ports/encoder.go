package ports

import (
	"image"
)

// VideoEncoder abstracts writing a silent video stream to a file.
type VideoEncoder interface {
	// Begin opens the output file for frames of the given size and frame rate.
	Begin(path string, width, height int, fps float64, opts EncoderOptions) error

	// EncodeFrame appends one frame to the stream.
	EncodeFrame(img image.Image) error

	// End flushes and closes the stream.
	End() error

	// Abort stops encoding and discards the output.
	Abort()
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Quality int    // x264 CRF: 0-51 (lower is higher quality)
	Preset  string // x264 preset, e.g. "fast"
}
