package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when ffmpeg or ffprobe cannot be located.
	ErrNotFound = errors.New("ffmpeg: executable not found")

	// ErrNotInitialized is returned when encoder methods are called before Begin.
	ErrNotInitialized = errors.New("ffmpeg: encoder not initialized")

	// ErrEncoderBusy is returned when Begin is called while a stream is still open.
	ErrEncoderBusy = errors.New("ffmpeg: encoder already has an open stream")

	// ErrNoVideoStream is returned when a container carries no video stream.
	ErrNoVideoStream = errors.New("ffmpeg: no video stream")
)

// Error is a failed ffmpeg or ffprobe invocation with its stderr output.
type Error struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, stderr)
}

func (e *Error) Unwrap() error {
	return e.Err
}
