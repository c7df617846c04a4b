// Package summarizer provides summary generation for pipeline runs.
package summarizer

import (
	"path/filepath"
	"time"

	"github.com/user/centerstage/pkg/orchestrator"
)

// Summary contains all data collected during one invocation.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Settings shared by every run
	Settings Settings

	// One entry per input file, in input order
	Runs []RunInfo
}

// Settings contains the run configuration.
type Settings struct {
	Aligner     string
	Model       string
	ChipSize    int
	FrameFormat string
	Workers     int
	Jobs        int
	CRF         int
	Preset      string
}

// RunInfo contains the outcome of one input file.
type RunInfo struct {
	Source string
	Output string
	State  string

	// Source and alignment counts
	FPS             float64
	FramesExtracted int
	Chips           int
	Dropped         int
	Failed          int
	MultiFace       int

	// Audio
	AudioPresent bool
	AudioWarning string

	// Output
	VideoDurationSec float64
	FileSize         int64
	Elapsed          time.Duration
	PublishedURL     string

	// Error is empty for successful runs.
	Error string
}

// OK reports whether the run produced an output.
func (r RunInfo) OK() bool { return r.Error == "" }

// FromRunResult converts an orchestrator result and its error.
func FromRunResult(result orchestrator.RunResult, err error) RunInfo {
	info := RunInfo{
		Source:           result.SourcePath,
		Output:           result.OutputPath,
		State:            result.State.String(),
		FPS:              result.FPS,
		FramesExtracted:  result.FramesExtracted,
		Chips:            result.Chips,
		Dropped:          len(result.Dropped),
		Failed:           len(result.Failed),
		MultiFace:        len(result.MultiFace),
		AudioPresent:     result.AudioPresent,
		AudioWarning:     result.AudioWarning,
		VideoDurationSec: result.VideoDuration,
		FileSize:         result.FileSize,
		Elapsed:          result.Duration,
	}
	if err != nil {
		info.Error = err.Error()
		// validation errors never enter the orchestrator
		info.State = orchestrator.StateFailed.String()
	}
	return info
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSettings sets run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// AddRun appends a run.
func (b *Builder) AddRun(run RunInfo) *Builder {
	b.summary.Runs = append(b.summary.Runs, run)
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// Succeeded counts runs that produced an output.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Runs {
		if r.OK() {
			n++
		}
	}
	return n
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
