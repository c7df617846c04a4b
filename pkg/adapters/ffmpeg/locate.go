// Package ffmpeg drives the ffmpeg and ffprobe executables for decoding,
// encoding, audio extraction and muxing.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Tools holds resolved paths to the ffmpeg and ffprobe binaries.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// Locate resolves both binaries. Empty arguments fall back to discovery.
func Locate(ffmpegPath, ffprobePath string) (Tools, error) {
	ffmpeg, err := Find("ffmpeg", ffmpegPath)
	if err != nil {
		return Tools{}, err
	}
	ffprobe, err := Find("ffprobe", ffprobePath)
	if err != nil {
		return Tools{}, err
	}
	return Tools{FFmpeg: ffmpeg, FFprobe: ffprobe}, nil
}

// IsAvailable reports whether both binaries can be found.
func IsAvailable() bool {
	_, err := Locate("", "")
	return err == nil
}

// Find searches for an executable named name ("ffmpeg" or "ffprobe").
// Priority: 1) custom, 2) FFMPEG_PATH / FFPROBE_PATH env, 3) PATH, 4) common locations
func Find(name, custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrNotFound, custom)
	}

	envName := strings.ToUpper(name) + "_PATH"
	if envPath := os.Getenv(envName); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: %s %s not found", ErrNotFound, envName, envPath)
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName = name + ".exe"
	}

	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, dir := range commonDirs() {
		p := dir + string(os.PathSeparator) + execName
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func commonDirs() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin`,
			`C:\Program Files\ffmpeg\bin`,
			`C:\Program Files (x86)\ffmpeg\bin`,
		}
	case "darwin":
		return []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin"}
	default:
		return []string{"/usr/bin", "/usr/local/bin", "/opt/homebrew/bin", "/snap/bin"}
	}
}
