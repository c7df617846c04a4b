package ports

import (
	"context"
	"image"
)

// Frame is a single decoded video frame.
type Frame struct {
	// Ordinal is the 0-based position of the frame in the source, gap-free.
	Ordinal int
	Image   image.Image
	// Path is where the frame is staged on disk, empty while it only lives in memory.
	Path string
}

// FrameSource opens a video for a single forward decoding pass.
type FrameSource interface {
	// Open starts decoding the video at path.
	// Fails with an error wrapping ErrSourceUnavailable when the container cannot be opened.
	Open(ctx context.Context, path string) (FrameStream, error)
}

// FrameStream is a lazy, forward-only sequence of frames. It cannot be restarted.
type FrameStream interface {
	// FPS returns the nominal frame rate of the video.
	FPS() float64

	// Size returns the frame dimensions.
	Size() (width, height int)

	// Next returns the next frame in source order, or io.EOF after the last one.
	Next() (Frame, error)

	// Close releases the decoder.
	Close() error
}
