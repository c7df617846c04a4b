package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/centerstage/pkg/adapters/logger"
	"github.com/user/centerstage/pkg/mocks"
	"github.com/user/centerstage/pkg/orchestrator"
	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
	"github.com/user/centerstage/pkg/stages/compose"
)

// streamLedger records what every encoder stream wrote and holds each Begin
// until the expected number of streams are open at once.
type streamLedger struct {
	mu      sync.Mutex
	frames  map[string]int
	begins  int
	overlap int
	open    chan struct{}
}

func newStreamLedger(overlap int) *streamLedger {
	return &streamLedger{frames: map[string]int{}, overlap: overlap, open: make(chan struct{})}
}

func (l *streamLedger) began() {
	l.mu.Lock()
	l.begins++
	if l.begins == l.overlap {
		close(l.open)
	}
	l.mu.Unlock()

	select {
	case <-l.open:
	case <-time.After(2 * time.Second):
	}
}

func (l *streamLedger) record(path string, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames[path] += n
}

func (l *streamLedger) count(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames[path]
}

// streamEncoder keeps one open stream per instance, the way the ffmpeg
// encoder does.
type streamEncoder struct {
	ledger *streamLedger

	mu    sync.Mutex
	path  string
	open  bool
	count int
}

func (e *streamEncoder) Begin(path string, width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	if e.open {
		e.mu.Unlock()
		return fmt.Errorf("stream for %s is still open", e.path)
	}
	e.path, e.open, e.count = path, true, 0
	e.mu.Unlock()

	e.ledger.began()
	return nil
}

func (e *streamEncoder) EncodeFrame(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return errors.New("no open stream")
	}
	e.count++
	return nil
}

func (e *streamEncoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return errors.New("no open stream")
	}
	e.ledger.record(e.path, e.count)
	e.open = false
	return nil
}

func (e *streamEncoder) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
}

func TestRunDir_ConcurrentRunsKeepTheirOwnStreams(t *testing.T) {
	fs := newFS("/in/a.mp4", "/in/b.mp4")
	framesPerSource := map[string]int{"a.mp4": 2, "b.mp4": 3}
	ledger := newStreamLedger(2)
	renderer := &mocks.Renderer{}

	newStages := func(orchestrator.Config) orchestrator.Stages {
		return orchestrator.Stages{
			Extract: pipeline.StageFunc[pipeline.ExtractInput, pipeline.ExtractResult](
				func(ctx context.Context, in pipeline.ExtractInput) (pipeline.ExtractResult, error) {
					n := framesPerSource[filepath.Base(in.SourcePath)]
					for i := 0; i < n; i++ {
						if err := fs.WriteFile(filepath.Join(in.FramesDir, pipeline.FrameName(i, ".jpg")), []byte("jpeg")); err != nil {
							return pipeline.ExtractResult{}, err
						}
					}
					return pipeline.ExtractResult{FPS: 10, Width: 100, Height: 100, FrameCount: n}, nil
				}),
			Align: pipeline.StageFunc[pipeline.AlignInput, pipeline.AlignResult](
				func(ctx context.Context, in pipeline.AlignInput) (pipeline.AlignResult, error) {
					names, err := fs.ReadDir(in.FramesDir)
					if err != nil {
						return pipeline.AlignResult{}, err
					}
					for _, name := range names {
						ordinal, _ := pipeline.ParseFrameName(name)
						if err := fs.WriteFile(filepath.Join(in.ChipsDir, pipeline.ChipName(ordinal, 0)), []byte("png")); err != nil {
							return pipeline.AlignResult{}, err
						}
					}
					return pipeline.AlignResult{Frames: len(names), Chips: len(names)}, nil
				}),
			Audio: pipeline.StageFunc[pipeline.AudioInput, pipeline.AudioResult](
				func(ctx context.Context, in pipeline.AudioInput) (pipeline.AudioResult, error) {
					return pipeline.AudioResult{}, nil
				}),
			Compose: compose.NewStage(&streamEncoder{ledger: ledger}, renderer, fs, logger.NewNoop()),
			Mux: pipeline.StageFunc[pipeline.MuxInput, pipeline.MuxResult](
				func(ctx context.Context, in pipeline.MuxInput) (pipeline.MuxResult, error) {
					return pipeline.MuxResult{OutputPath: in.FinalPath, FileSize: int64(ledger.count(in.VideoPath))}, nil
				}),
		}
	}

	orch := orchestrator.NewWithFactory(
		newStages,
		&mocks.MediaProber{Info: ports.MediaInfo{Width: 100, Height: 100, FPS: 10}},
		&mocks.FaceAligner{},
		fs,
		&mocks.NullSink{},
		logger.NewNoop(),
	)
	b := New(orch, fs, logger.NewNoop(), WithJobs(2))

	cfg := baseConfig()
	cfg.TempDir = "/tmp"
	cfg.ChipSize = 100
	report, err := b.RunDir(context.Background(), cfg, "/in")
	require.NoError(t, err)
	require.Len(t, report.Items, 2)

	for _, item := range report.Items {
		require.NoError(t, item.Err, item.SourcePath)
		want := framesPerSource[filepath.Base(item.SourcePath)]
		assert.Equal(t, int64(want), item.Result.FileSize, "frames encoded for %s", item.SourcePath)
		assert.Equal(t, want, item.Result.OutputFrames, item.SourcePath)
	}
	assert.Len(t, ledger.frames, 2)
}
