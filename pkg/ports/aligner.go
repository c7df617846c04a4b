package ports

import (
	"context"
	"image"
)

// FaceChip is a fixed-size, aligned crop of one face found in a frame.
type FaceChip struct {
	// Ordinal is the source frame the chip was cut from.
	Ordinal int
	// Detection is the 0-based index of the face within its frame.
	Detection int
	Image     image.Image
}

// FaceAligner is the face detection and alignment capability.
// Any backend can sit behind it; the pipeline relies only on this contract.
type FaceAligner interface {
	// Ready reports whether the model resources are available.
	// Returns an error wrapping ErrAlignerUnavailable when they are not.
	Ready() error

	// Align returns one chip per face detected in the frame, possibly none.
	// Results are deterministic for a given frame and model configuration.
	Align(ctx context.Context, frame Frame) ([]FaceChip, error)
}
