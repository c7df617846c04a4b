package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/user/centerstage/pkg/adapters/logger"
	"github.com/user/centerstage/pkg/mocks"
	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// mockStage is a generic stage that records its inputs.
type mockStage[In, Out any] struct {
	mu     sync.Mutex
	result Out
	err    error
	run    func(ctx context.Context, input In) (Out, error)
	inputs []In
}

func (m *mockStage[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	if m.run != nil {
		return m.run(ctx, input)
	}
	if m.err != nil {
		var zero Out
		return zero, m.err
	}
	return m.result, nil
}

func (m *mockStage[In, Out]) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

type fixture struct {
	extract *mockStage[pipeline.ExtractInput, pipeline.ExtractResult]
	align   *mockStage[pipeline.AlignInput, pipeline.AlignResult]
	audio   *mockStage[pipeline.AudioInput, pipeline.AudioResult]
	compose *mockStage[pipeline.ComposeInput, pipeline.ComposeResult]
	mux     *mockStage[pipeline.MuxInput, pipeline.MuxResult]

	prober  *mocks.MediaProber
	aligner *mocks.FaceAligner
	fs      *mocks.FileSystem
	sink    *mocks.DebugSink

	mu     sync.Mutex
	states []State
}

func newFixture() *fixture {
	return &fixture{
		extract: &mockStage[pipeline.ExtractInput, pipeline.ExtractResult]{
			result: pipeline.ExtractResult{FPS: 25, Width: 640, Height: 480, FrameCount: 10},
		},
		align: &mockStage[pipeline.AlignInput, pipeline.AlignResult]{
			result: pipeline.AlignResult{Frames: 10, Chips: 10},
		},
		audio: &mockStage[pipeline.AudioInput, pipeline.AudioResult]{
			result: pipeline.AudioResult{Present: true, Path: "/tmp/audio.aac"},
		},
		compose: &mockStage[pipeline.ComposeInput, pipeline.ComposeResult]{
			result: pipeline.ComposeResult{FrameCount: 10, DurationSec: 0.4},
		},
		mux: &mockStage[pipeline.MuxInput, pipeline.MuxResult]{
			result: pipeline.MuxResult{OutputPath: "/out/clip.mp4", HasAudio: true, FileSize: 1234},
		},
		prober: &mocks.MediaProber{Info: ports.MediaInfo{
			Container: "mov", VideoCodec: "h264", Width: 640, Height: 480, FPS: 25, HasAudio: true,
		}},
		aligner: &mocks.FaceAligner{},
		fs:      mocks.NewFileSystem(),
		sink:    mocks.NewDebugSink(true),
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	o := New(
		Stages{Extract: f.extract, Align: f.align, Audio: f.audio, Compose: f.compose, Mux: f.mux},
		f.prober, f.aligner, f.fs, f.sink, logger.NewNoop(),
	)
	o.SetRunIDFunc(func() string { return "run1" })
	o.SetObserver(func(runID string, s State) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.states = append(f.states, s)
	})
	return o
}

func (f *fixture) observed() []State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]State(nil), f.states...)
}

func testConfig() Config {
	config := DefaultConfig()
	config.SourcePath = "/videos/clip.mp4"
	config.OutputDir = "/out"
	config.TempDir = "/tmp"
	return config
}

func TestOrchestrator_Run(t *testing.T) {
	f := newFixture()

	result, err := f.orchestrator().Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []State{
		StateInit, StateFramesExtracted, StateFacesAligned, StateAudioExtracted,
		StateVisualComposed, StateMuxed, StateDone,
	}
	if got := f.observed(); !reflect.DeepEqual(got, want) {
		t.Errorf("states = %v, want %v", got, want)
	}
	if result.State != StateDone {
		t.Errorf("State = %v, want done", result.State)
	}
	if result.RunID != "run1" {
		t.Errorf("RunID = %q, want run1", result.RunID)
	}
	if result.OutputPath != "/out/clip.mp4" {
		t.Errorf("OutputPath = %q", result.OutputPath)
	}
	if result.FramesExtracted != 10 || result.Chips != 10 || result.OutputFrames != 10 {
		t.Errorf("counts = %d/%d/%d, want 10/10/10", result.FramesExtracted, result.Chips, result.OutputFrames)
	}
	if !result.AudioPresent {
		t.Error("expected audio to be present")
	}
	if f.aligner.ReadyCalls != 1 {
		t.Errorf("Ready called %d times, want 1", f.aligner.ReadyCalls)
	}
	if len(f.sink.ProbeJSON) == 0 {
		t.Error("expected probe JSON in debug sink")
	}

	root := filepath.Join("/tmp", "centerstage-run1")
	extractIn := f.extract.inputs[0]
	if extractIn.FramesDir != filepath.Join(root, "keyframes") {
		t.Errorf("FramesDir = %q", extractIn.FramesDir)
	}
	if f.align.inputs[0].ChipsDir != filepath.Join(root, "aligned_keyframes") {
		t.Errorf("ChipsDir = %q", f.align.inputs[0].ChipsDir)
	}
	if f.align.inputs[0].ChipSize != pipeline.DefaultChipSize {
		t.Errorf("ChipSize = %d", f.align.inputs[0].ChipSize)
	}
	if !f.audio.inputs[0].HasAudio {
		t.Error("audio stage should be told the source has audio")
	}

	composeIn := f.compose.inputs[0]
	if composeIn.FPS != 25 {
		t.Errorf("compose FPS = %v, want 25", composeIn.FPS)
	}
	if composeIn.OutputPath != filepath.Join(root, "video.mp4") {
		t.Errorf("compose OutputPath = %q", composeIn.OutputPath)
	}

	muxIn := f.mux.inputs[0]
	if muxIn.AudioPath != "/tmp/audio.aac" {
		t.Errorf("mux AudioPath = %q", muxIn.AudioPath)
	}
	if muxIn.FinalPath != filepath.Join("/out", "clip.mp4") {
		t.Errorf("mux FinalPath = %q", muxIn.FinalPath)
	}
	if muxIn.StagedPath != filepath.Join(root, "output.mp4") {
		t.Errorf("mux StagedPath = %q", muxIn.StagedPath)
	}
	if muxIn.DurationSec != 0.4 || muxIn.FPS != 25 {
		t.Errorf("mux timing = %v s at %v fps", muxIn.DurationSec, muxIn.FPS)
	}

	if ok, _ := f.fs.Exists(extractIn.FramesDir); ok {
		t.Error("working area should be released after the run")
	}
}

func TestOrchestrator_AlignerUnavailable(t *testing.T) {
	f := newFixture()
	f.aligner.ReadyFunc = func() error {
		return fmt.Errorf("%w: model missing", ports.ErrAlignerUnavailable)
	}

	result, err := f.orchestrator().Run(context.Background(), testConfig())
	if !errors.Is(err, ports.ErrAlignerUnavailable) {
		t.Fatalf("expected ErrAlignerUnavailable, got %v", err)
	}
	if result.State != StateFailed {
		t.Errorf("State = %v, want failed", result.State)
	}
	if f.extract.calls() != 0 || f.audio.calls() != 0 {
		t.Error("no stage should run when the aligner is unavailable")
	}
	if ok, _ := f.fs.Exists(filepath.Join("/tmp", "centerstage-run1", "keyframes")); ok {
		t.Error("working area should not be created")
	}
}

func TestOrchestrator_ProbeFailure(t *testing.T) {
	f := newFixture()
	f.prober.ProbeFunc = func(ctx context.Context, path string) (ports.MediaInfo, error) {
		return ports.MediaInfo{}, errors.New("moov atom not found")
	}

	_, err := f.orchestrator().Run(context.Background(), testConfig())
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if f.aligner.ReadyCalls != 0 {
		t.Error("aligner should not be checked for an unreadable source")
	}
}

func TestOrchestrator_DroppedFrames(t *testing.T) {
	f := newFixture()
	f.align.result = pipeline.AlignResult{Frames: 10, Chips: 7, Dropped: []int{2, 5, 9}}
	f.compose.result = pipeline.ComposeResult{FrameCount: 7, DurationSec: 0.28}

	result, err := f.orchestrator().Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Chips != 7 || result.OutputFrames != 7 {
		t.Errorf("chips/output = %d/%d, want 7/7", result.Chips, result.OutputFrames)
	}
	if !reflect.DeepEqual(result.Dropped, []int{2, 5, 9}) {
		t.Errorf("Dropped = %v", result.Dropped)
	}
	if f.mux.inputs[0].DurationSec != 0.28 {
		t.Errorf("mux duration = %v, want 0.28", f.mux.inputs[0].DurationSec)
	}
}

func TestOrchestrator_SilentSource(t *testing.T) {
	f := newFixture()
	f.prober.Info.HasAudio = false
	f.audio.result = pipeline.AudioResult{}

	result, err := f.orchestrator().Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if f.audio.inputs[0].HasAudio {
		t.Error("audio stage should be told the source is silent")
	}
	if result.AudioPresent {
		t.Error("AudioPresent should be false")
	}
	if f.mux.inputs[0].AudioPath != "" {
		t.Errorf("mux AudioPath = %q, want empty", f.mux.inputs[0].AudioPath)
	}
}

func TestOrchestrator_AudioWarning(t *testing.T) {
	f := newFixture()
	f.audio.result = pipeline.AudioResult{
		Warning: fmt.Errorf("%w: unsupported codec", ports.ErrAudioExtraction),
	}

	result, err := f.orchestrator().Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("audio warning should not fail the run: %v", err)
	}
	if result.AudioWarning == "" {
		t.Error("expected AudioWarning to be recorded")
	}
	if f.mux.inputs[0].AudioPath != "" {
		t.Error("mux should produce a silent output")
	}
}

func TestOrchestrator_StageFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		wantErr error
		wantMux bool
	}{
		{
			name: "extract",
			setup: func(f *fixture) {
				f.extract.err = fmt.Errorf("%w: no frames", ports.ErrSourceUnavailable)
			},
			wantErr: ports.ErrSourceUnavailable,
		},
		{
			name: "align",
			setup: func(f *fixture) {
				f.align.err = fmt.Errorf("%w: disk full", ports.ErrWorkingArea)
			},
			wantErr: ports.ErrWorkingArea,
		},
		{
			name: "compose",
			setup: func(f *fixture) {
				f.compose.err = fmt.Errorf("%w: no chips", ports.ErrEncode)
			},
			wantErr: ports.ErrEncode,
		},
		{
			name: "mux",
			setup: func(f *fixture) {
				f.mux.err = fmt.Errorf("%w: muxer exited", ports.ErrEncode)
			},
			wantErr: ports.ErrEncode,
			wantMux: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			result, err := f.orchestrator().Run(context.Background(), testConfig())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if result.State != StateFailed {
				t.Errorf("State = %v, want failed", result.State)
			}
			if result.OutputPath != "" {
				t.Errorf("OutputPath = %q, want empty", result.OutputPath)
			}
			if got := f.mux.calls() > 0; got != tt.wantMux {
				t.Errorf("mux called = %v, want %v", got, tt.wantMux)
			}
			states := f.observed()
			if states[len(states)-1] != StateFailed {
				t.Errorf("last state = %v, want failed", states[len(states)-1])
			}
			if ok, _ := f.fs.Exists(filepath.Join("/tmp", "centerstage-run1", "keyframes")); ok {
				t.Error("working area should be released after a failure")
			}
		})
	}
}

func TestOrchestrator_Cancelled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.extract.run = func(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
		cancel()
		<-ctx.Done()
		return pipeline.ExtractResult{}, ctx.Err()
	}

	result, err := f.orchestrator().Run(ctx, testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.State != StateFailed {
		t.Errorf("State = %v, want failed", result.State)
	}
	if f.compose.calls() != 0 {
		t.Error("compose should not run after cancellation")
	}
}

func TestOrchestrator_WorkingAreaCollision(t *testing.T) {
	f := newFixture()
	f.fs.MkdirAll(filepath.Join("/tmp", "centerstage-run1"))

	_, err := f.orchestrator().Run(context.Background(), testConfig())
	if !errors.Is(err, ports.ErrWorkingArea) {
		t.Fatalf("expected ErrWorkingArea, got %v", err)
	}
	if f.extract.calls() != 0 {
		t.Error("extract should not run without a working area")
	}
}

func TestState_String(t *testing.T) {
	if StateFacesAligned.String() != "faces-aligned" {
		t.Errorf("String() = %q", StateFacesAligned.String())
	}
	if !StateDone.Terminal() || !StateFailed.Terminal() || StateMuxed.Terminal() {
		t.Error("only done and failed are terminal")
	}
}

func TestNewWithFactory_BuildsStagesPerRun(t *testing.T) {
	f := newFixture()
	built := 0
	o := NewWithFactory(func(Config) Stages {
		built++
		return Stages{Extract: f.extract, Align: f.align, Audio: f.audio, Compose: f.compose, Mux: f.mux}
	}, f.prober, f.aligner, f.fs, f.sink, logger.NewNoop())
	o.SetRunIDFunc(func() string { return fmt.Sprintf("run%d", built) })

	for i := 0; i < 2; i++ {
		if _, err := o.Run(context.Background(), testConfig()); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}
	if built != 2 {
		t.Errorf("stages built %d times, want 2", built)
	}
}

func TestNewWithFactory_RunSink(t *testing.T) {
	f := newFixture()
	runSink := mocks.NewDebugSink(true)
	var sources []string
	o := NewWithFactory(func(config Config) Stages {
		sources = append(sources, config.SourcePath)
		return Stages{Extract: f.extract, Align: f.align, Audio: f.audio, Compose: f.compose, Mux: f.mux, Sink: runSink}
	}, f.prober, f.aligner, f.fs, f.sink, logger.NewNoop())

	if _, err := o.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(sources, []string{"/videos/clip.mp4"}) {
		t.Errorf("factory saw sources %v", sources)
	}
	if len(runSink.ProbeJSON) == 0 {
		t.Error("expected probe JSON in the run's sink")
	}
	if len(f.sink.ProbeJSON) != 0 {
		t.Error("orchestrator sink should not be used when the run has its own")
	}
}
