// Package orchestrator coordinates all pipeline stages for one input video.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
	"github.com/user/centerstage/pkg/workarea"
)

// Config contains the per-run configuration.
type Config struct {
	// Input / output
	SourcePath string
	OutputDir  string
	TempDir    string // empty means the system temp directory

	// Staging
	ChipSize     int
	FrameFormat  ports.ImageFormat
	FrameQuality int

	// Encoding
	Quality int // x264 CRF
	Preset  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OutputDir:    ".",
		ChipSize:     pipeline.DefaultChipSize,
		FrameFormat:  ports.FormatJPEG,
		FrameQuality: pipeline.DefaultFrameQuality,
		Quality:      23,
		Preset:       "fast",
	}
}

// Stages holds the stage implementations the orchestrator drives.
type Stages struct {
	Extract pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult]
	Align   pipeline.Stage[pipeline.AlignInput, pipeline.AlignResult]
	Audio   pipeline.Stage[pipeline.AudioInput, pipeline.AudioResult]
	Compose pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult]
	Mux     pipeline.Stage[pipeline.MuxInput, pipeline.MuxResult]

	// Sink receives the run's debug output. Nil means the orchestrator's sink.
	Sink ports.DebugSink
}

// StageFactory builds the stages for one run. Stages that hold per-stream
// state, such as the compose encoder, must come out fresh on every call.
type StageFactory func(config Config) Stages

// Observer is notified of every state transition.
type Observer func(runID string, state State)

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	stages  StageFactory
	prober  ports.MediaProber
	aligner ports.FaceAligner
	fs      ports.FileSystem
	sink    ports.DebugSink
	logger  ports.Logger

	mu       sync.Mutex
	newRunID func() string
	observer Observer
}

// New creates an Orchestrator that drives the same stages on every run.
// Use NewWithFactory when runs may overlap.
func New(
	stages Stages,
	prober ports.MediaProber,
	aligner ports.FaceAligner,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return NewWithFactory(func(Config) Stages { return stages }, prober, aligner, fs, sink, logger)
}

// NewWithFactory creates an Orchestrator that builds its stages per run.
func NewWithFactory(
	factory StageFactory,
	prober ports.MediaProber,
	aligner ports.FaceAligner,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		stages:   factory,
		prober:   prober,
		aligner:  aligner,
		fs:       fs,
		sink:     sink,
		logger:   logger,
		newRunID: uuid.NewString,
	}
}

// SetRunIDFunc replaces the run ID generator.
func (o *Orchestrator) SetRunIDFunc(f func() string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.newRunID = f
}

// SetObserver registers a callback for state transitions.
func (o *Orchestrator) SetObserver(f Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observer = f
}

// Run executes the complete pipeline for config.SourcePath. The working area
// is always released; the output only appears when the run reaches Done.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()

	o.mu.Lock()
	runID := o.newRunID()
	o.mu.Unlock()

	result := RunResult{
		RunID:      runID,
		SourcePath: config.SourcePath,
		Target:     filepath.Join(config.OutputDir, filepath.Base(config.SourcePath)),
	}
	o.transition(&result, StateInit)

	fail := func(err error) (RunResult, error) {
		o.transition(&result, StateFailed)
		result.Duration = time.Since(start)
		o.logger.Error("Failed to process %s: %s", config.SourcePath, err)
		return result, err
	}

	o.logger.Info("Processing %s", config.SourcePath)

	stages := o.stages(config)
	sink := stages.Sink
	if sink == nil {
		sink = o.sink
	}

	// Probe and aligner readiness are checked before anything touches disk.
	info, err := o.prober.Probe(ctx, config.SourcePath)
	if err != nil {
		if ctx.Err() != nil {
			return fail(ctx.Err())
		}
		if !errors.Is(err, ports.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ports.ErrSourceUnavailable, err)
		}
		return fail(fmt.Errorf("probe: %w", err))
	}
	result.FPS = info.FPS
	if sink.Enabled() {
		if data, err := json.MarshalIndent(info, "", "  "); err == nil {
			sink.SaveProbeJSON(data)
		}
	}

	if err := o.aligner.Ready(); err != nil {
		if !errors.Is(err, ports.ErrAlignerUnavailable) {
			err = fmt.Errorf("%w: %w", ports.ErrAlignerUnavailable, err)
		}
		return fail(fmt.Errorf("aligner: %w", err))
	}

	area, err := workarea.New(o.fs, config.TempDir, runID)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err := area.Release(); err != nil {
			o.logger.Warn("Failed to remove working area: %s", err)
		}
	}()
	o.logger.Debug("Working area: %s", area.Root())

	// Visual branch and audio branch run concurrently.
	var (
		extracted pipeline.ExtractResult
		aligned   pipeline.AlignResult
		audio     pipeline.AudioResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		extracted, err = stages.Extract.Execute(gctx, pipeline.ExtractInput{
			SourcePath: config.SourcePath,
			FramesDir:  area.FramesDir(),
			Format:     config.FrameFormat,
			Quality:    config.FrameQuality,
		})
		if err != nil {
			return fmt.Errorf("extract stage: %w", err)
		}
		o.transition(&result, StateFramesExtracted)
		o.logger.Info("Extracted %d frames at %.2f fps", extracted.FrameCount, extracted.FPS)

		aligned, err = stages.Align.Execute(gctx, pipeline.AlignInput{
			FramesDir: area.FramesDir(),
			ChipsDir:  area.ChipsDir(),
			ChipSize:  config.ChipSize,
		})
		if err != nil {
			return fmt.Errorf("align stage: %w", err)
		}
		o.transition(&result, StateFacesAligned)
		o.logger.Info("Aligned %d face chips (%d frames without a face, %d failed)", aligned.Chips, len(aligned.Dropped), len(aligned.Failed))
		return nil
	})
	g.Go(func() error {
		var err error
		audio, err = stages.Audio.Execute(gctx, pipeline.AudioInput{
			SourcePath: config.SourcePath,
			OutputPath: area.AudioPath(),
			HasAudio:   info.HasAudio,
		})
		if err != nil {
			return fmt.Errorf("audio stage: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fail(err)
	}

	result.FPS = extracted.FPS
	result.FramesExtracted = extracted.FrameCount
	result.Chips = aligned.Chips
	result.Dropped = aligned.Dropped
	result.Failed = aligned.Failed
	result.MultiFace = aligned.MultiFace
	result.AudioPresent = audio.Present
	if audio.Warning != nil {
		result.AudioWarning = audio.Warning.Error()
	}
	o.transition(&result, StateAudioExtracted)

	composed, err := stages.Compose.Execute(ctx, pipeline.ComposeInput{
		ChipsDir:   area.ChipsDir(),
		OutputPath: area.VideoPath(),
		FPS:        extracted.FPS,
		ChipSize:   config.ChipSize,
		Quality:    config.Quality,
		Preset:     config.Preset,
	})
	if err != nil {
		return fail(fmt.Errorf("compose stage: %w", err))
	}
	result.OutputFrames = composed.FrameCount
	result.VideoDuration = composed.DurationSec
	o.transition(&result, StateVisualComposed)

	audioPath := ""
	if audio.Present {
		audioPath = audio.Path
	}
	muxed, err := stages.Mux.Execute(ctx, pipeline.MuxInput{
		VideoPath:   area.VideoPath(),
		AudioPath:   audioPath,
		FPS:         extracted.FPS,
		DurationSec: composed.DurationSec,
		StagedPath:  area.StagedOutputPath(filepath.Ext(config.SourcePath)),
		FinalPath:   result.Target,
		Quality:     config.Quality,
		Preset:      config.Preset,
	})
	if err != nil {
		return fail(fmt.Errorf("mux stage: %w", err))
	}
	o.transition(&result, StateMuxed)

	result.OutputPath = muxed.OutputPath
	result.FileSize = muxed.FileSize
	result.Duration = time.Since(start)
	o.transition(&result, StateDone)
	o.logger.Info("Output saved to %s", result.OutputPath)

	return result, nil
}

// transition records and announces a state change.
func (o *Orchestrator) transition(result *RunResult, state State) {
	o.mu.Lock()
	prev := result.State
	result.State = state
	observer := o.observer
	o.mu.Unlock()

	if state != StateInit {
		o.logger.Debug("Run %s: %s -> %s", result.RunID, prev, state)
	}
	if observer != nil {
		observer(result.RunID, state)
	}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	RunID      string
	SourcePath string
	// Target is where the output goes; OutputPath is set once it exists.
	Target     string
	OutputPath string

	// Source information
	FPS             float64
	FramesExtracted int

	// Alignment information
	Chips     int
	Dropped   []int
	Failed    []int
	MultiFace []int

	// Audio information
	AudioPresent bool
	AudioWarning string

	// Video information
	OutputFrames  int
	VideoDuration float64 // seconds
	FileSize      int64

	State    State
	Duration time.Duration
}
