package ports

import "context"

// MediaInfo describes the streams of a media container.
type MediaInfo struct {
	Container   string
	VideoCodec  string
	Width       int
	Height      int
	FPS         float64
	HasAudio    bool
	AudioCodec  string
	DurationSec float64
}

// MediaProber reads container metadata without decoding frames.
type MediaProber interface {
	Probe(ctx context.Context, path string) (MediaInfo, error)
}

// AudioExtractor copies the audio stream of a source into its own file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, sourcePath, outputPath string) error
}

// MuxRequest describes one mux operation.
type MuxRequest struct {
	VideoPath string
	// AudioPath is empty when the output should be silent.
	AudioPath  string
	OutputPath string
	// FPS is the rate the video stream is re-stamped to.
	FPS float64
	// DurationSec bounds the output to the length of the video stream.
	DurationSec float64
	Options     EncoderOptions
}

// Muxer joins a video stream and an optional audio stream into a final container.
type Muxer interface {
	Mux(ctx context.Context, req MuxRequest) error
}
