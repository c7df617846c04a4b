package ports

import "errors"

// Error taxonomy shared by stages and adapters. Callers match with errors.Is.
var (
	// ErrInputValidation is returned for a bad input path or extension.
	// It never reaches the pipeline.
	ErrInputValidation = errors.New("invalid input")

	// ErrSourceUnavailable is returned when the source container cannot be opened.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrAlignerUnavailable is returned when the aligner's model resource is missing.
	ErrAlignerUnavailable = errors.New("aligner unavailable")

	// ErrAlignmentFailure marks a single frame the aligner could not process.
	// The frame is treated as having no faces.
	ErrAlignmentFailure = errors.New("alignment failed")

	// ErrAudioExtraction marks a failed audio extraction. The run continues silent.
	ErrAudioExtraction = errors.New("audio extraction failed")

	// ErrEncode is returned when the visual stream or the final container cannot be written.
	ErrEncode = errors.New("encode failed")

	// ErrWorkingArea is returned when the working area cannot be allocated or written.
	ErrWorkingArea = errors.New("working area unavailable")
)
