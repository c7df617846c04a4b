package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/user/centerstage/pkg/adapters/ffmpeg"
	"github.com/user/centerstage/pkg/adapters/ggrenderer"
	"github.com/user/centerstage/pkg/adapters/logger"
	"github.com/user/centerstage/pkg/adapters/mediaprobe"
	"github.com/user/centerstage/pkg/adapters/nullsink"
	"github.com/user/centerstage/pkg/adapters/osfilesystem"
	"github.com/user/centerstage/pkg/adapters/progressbar"
	"github.com/user/centerstage/pkg/mocks"
	"github.com/user/centerstage/pkg/orchestrator"
	"github.com/user/centerstage/pkg/ports"
	"github.com/user/centerstage/pkg/stages/align"
	"github.com/user/centerstage/pkg/stages/audio"
	"github.com/user/centerstage/pkg/stages/compose"
	"github.com/user/centerstage/pkg/stages/extract"
	"github.com/user/centerstage/pkg/stages/mux"
)

func locateFFmpeg(t *testing.T) ffmpeg.Tools {
	t.Helper()
	tools, err := ffmpeg.Locate("", "")
	if err != nil {
		t.Skip("ffmpeg not found, skipping test")
	}
	return tools
}

func renderClip(t *testing.T, tools ffmpeg.Tools, path string, frames, fps int, withAudio bool) {
	t.Helper()
	duration := float64(frames) / float64(fps)
	args := []string{"-y", "-f", "lavfi", "-i", fmt.Sprintf("testsrc=size=96x64:rate=%d:duration=%.3f", fps, duration)}
	if withAudio {
		args = append(args, "-f", "lavfi", "-i", fmt.Sprintf("sine=frequency=440:duration=%.3f", duration))
	}
	args = append(args, "-c:v", "libx264", "-preset", "ultrafast", "-pix_fmt", "yuv420p", "-frames:v", fmt.Sprint(frames))
	if withAudio {
		args = append(args, "-c:a", "aac")
	}
	args = append(args, path)
	if out, err := exec.Command(tools.FFmpeg, args...).CombinedOutput(); err != nil {
		t.Fatalf("failed to create test video: %v\n%s", err, out)
	}
}

// faceless returns an aligner that crops the frame center and reports no
// face for the given ordinals.
func faceless(ordinals ...int) *mocks.FaceAligner {
	skip := make(map[int]bool)
	for _, o := range ordinals {
		skip[o] = true
	}
	return &mocks.FaceAligner{
		AlignFunc: func(ctx context.Context, frame ports.Frame) ([]ports.FaceChip, error) {
			if skip[frame.Ordinal] {
				return nil, nil
			}
			chip := image.NewRGBA(image.Rect(0, 0, 32, 32))
			draw.Draw(chip, chip.Bounds(), &image.Uniform{C: color.RGBA{R: 200, A: 255}}, image.Point{}, draw.Src)
			return []ports.FaceChip{{Ordinal: frame.Ordinal, Image: chip}}, nil
		},
	}
}

func newPipeline(tools ffmpeg.Tools, aligner ports.FaceAligner) (*orchestrator.Orchestrator, ports.MediaProber) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	sink := nullsink.New()
	log := logger.NewNoop()
	prober := mediaprobe.New(ffmpeg.NewProber(tools))

	stages := orchestrator.Stages{
		Extract: extract.NewStage(ffmpeg.NewSource(tools, prober), renderer, fs, sink, log),
		Align:   align.NewStage(aligner, renderer, fs, sink, progressbar.Noop{}, log, 2),
		Audio:   audio.NewStage(ffmpeg.NewAudioExtractor(tools), fs, log),
		Compose: compose.NewStage(ffmpeg.NewEncoder(tools), renderer, fs, log),
		Mux:     mux.NewStage(ffmpeg.NewMuxer(tools), fs, log),
	}
	return orchestrator.New(stages, prober, aligner, fs, sink, log), prober
}

func pipelineConfig(t *testing.T, source string) orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	cfg.SourcePath = source
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.TempDir = t.TempDir()
	cfg.ChipSize = 64
	cfg.Preset = "ultrafast"
	return cfg
}

func TestPipeline_OneFacePerFrame(t *testing.T) {
	tools := locateFFmpeg(t)
	source := filepath.Join(t.TempDir(), "talk.mp4")
	renderClip(t, tools, source, 10, 30, true)

	orch, prober := newPipeline(tools, faceless())
	cfg := pipelineConfig(t, source)

	result, err := orch.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.OutputPath != filepath.Join(cfg.OutputDir, "talk.mp4") {
		t.Errorf("OutputPath = %q", result.OutputPath)
	}

	info, err := prober.Probe(context.Background(), result.OutputPath)
	if err != nil {
		t.Fatalf("probe output: %v", err)
	}
	if info.Width != 64 || info.Height != 64 {
		t.Errorf("output size = %dx%d, want 64x64", info.Width, info.Height)
	}
	if info.FPS < 29.9 || info.FPS > 30.1 {
		t.Errorf("output fps = %v, want 30", info.FPS)
	}
	if !info.HasAudio {
		t.Error("output should carry audio")
	}
	if result.OutputFrames != 10 {
		t.Errorf("OutputFrames = %d, want 10", result.OutputFrames)
	}
}

func TestPipeline_FramesWithoutFaces(t *testing.T) {
	tools := locateFFmpeg(t)
	source := filepath.Join(t.TempDir(), "gaps.mp4")
	renderClip(t, tools, source, 10, 30, false)

	orch, prober := newPipeline(tools, faceless(2, 5, 9))
	result, err := orch.Run(context.Background(), pipelineConfig(t, source))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Chips != 7 || result.OutputFrames != 7 {
		t.Errorf("chips/frames = %d/%d, want 7/7", result.Chips, result.OutputFrames)
	}
	if len(result.Dropped) != 3 {
		t.Errorf("Dropped = %v, want 3 ordinals", result.Dropped)
	}

	info, err := prober.Probe(context.Background(), result.OutputPath)
	if err != nil {
		t.Fatalf("probe output: %v", err)
	}
	if info.FPS < 29.9 || info.FPS > 30.1 {
		t.Errorf("output fps = %v, want 30", info.FPS)
	}
	if info.HasAudio {
		t.Error("silent source should give silent output")
	}
}

func TestPipeline_NoFacesAnywhere(t *testing.T) {
	tools := locateFFmpeg(t)
	source := filepath.Join(t.TempDir(), "empty.mp4")
	renderClip(t, tools, source, 4, 25, false)

	orch, _ := newPipeline(tools, faceless(0, 1, 2, 3))
	cfg := pipelineConfig(t, source)
	_, err := orch.Run(context.Background(), cfg)
	if !errors.Is(err, ports.ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}

	fs := osfilesystem.New()
	if ok, _ := fs.Exists(filepath.Join(cfg.OutputDir, "empty.mp4")); ok {
		t.Error("no output may appear on failure")
	}
}
