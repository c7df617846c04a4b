package pipeline

import (
	"github.com/user/centerstage/pkg/ports"
)

const (
	// DefaultChipSize is the edge length of every face chip, in pixels.
	DefaultChipSize = 512

	// DefaultPadding is the margin added around a detected face, as a fraction
	// of the face size on each side.
	DefaultPadding = 0.75

	// DefaultFrameQuality is the JPEG quality used for staged raw frames.
	DefaultFrameQuality = 95
)

// =============================================================================
// Extract Stage Types
// =============================================================================

// ExtractInput contains parameters for decoding the source into raw frames.
type ExtractInput struct {
	SourcePath string
	FramesDir  string
	Format     ports.ImageFormat
	Quality    int // JPEG quality, ignored for PNG
}

// ExtractResult describes the decoded source.
type ExtractResult struct {
	FPS        float64
	Width      int
	Height     int
	FrameCount int
}

// =============================================================================
// Align Stage Types
// =============================================================================

// AlignInput contains parameters for face alignment.
type AlignInput struct {
	FramesDir string
	ChipsDir  string
	ChipSize  int
}

// AlignResult summarizes alignment over all frames.
type AlignResult struct {
	Frames int // frames visited
	Chips  int // chips persisted

	// Dropped lists ordinals of frames with no detected face.
	Dropped []int
	// Failed lists ordinals of frames the aligner could not process.
	// They are also dropped.
	Failed []int
	// MultiFace lists ordinals of frames that produced more than one chip.
	MultiFace []int
}

// =============================================================================
// Audio Stage Types
// =============================================================================

// AudioInput contains parameters for audio extraction.
type AudioInput struct {
	SourcePath string
	OutputPath string
	HasAudio   bool
}

// AudioResult reports the extracted audio track, if any.
type AudioResult struct {
	Present bool
	Path    string
	// Warning holds the extraction error when the source had audio but it
	// could not be extracted.
	Warning error
}

// =============================================================================
// Compose Stage Types
// =============================================================================

// ComposeInput contains parameters for encoding chips into the silent video.
type ComposeInput struct {
	ChipsDir   string
	OutputPath string
	FPS        float64
	ChipSize   int
	Quality    int
	Preset     string
}

// ComposeResult describes the intermediate video.
type ComposeResult struct {
	FrameCount  int
	DurationSec float64
}

// =============================================================================
// Mux Stage Types
// =============================================================================

// MuxInput contains parameters for producing the final container.
type MuxInput struct {
	VideoPath   string
	AudioPath   string // empty for a silent output
	FPS         float64
	DurationSec float64
	StagedPath  string // inside the working area
	FinalPath   string
	Quality     int
	Preset      string
}

// MuxResult describes the promoted output.
type MuxResult struct {
	OutputPath string
	HasAudio   bool
	FileSize   int64
}
