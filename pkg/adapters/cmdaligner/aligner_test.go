package cmdaligner

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/user/centerstage/pkg/adapters/ggrenderer"
	"github.com/user/centerstage/pkg/ports"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script aligner not supported on windows")
	}
}

// writeScript creates an executable aligner stand-in that runs body after
// parsing --output into $out and --input into $in.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-aligner.sh")
	script := `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift ;;
    --input) in="$2"; shift ;;
  esac
  shift
done
` + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeSolid(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.dat")
	if err := os.WriteFile(path, []byte("model"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReady(t *testing.T) {
	skipOnWindows(t)
	script := writeScript(t, "exit 0")
	model := writeModel(t)

	t.Run("ok", func(t *testing.T) {
		a := New(Options{Command: script, ModelPath: model}, ggrenderer.New())
		if err := a.Ready(); err != nil {
			t.Errorf("Ready() = %v", err)
		}
	})

	t.Run("missing model", func(t *testing.T) {
		a := New(Options{Command: script, ModelPath: filepath.Join(t.TempDir(), "none.dat")}, ggrenderer.New())
		if err := a.Ready(); !errors.Is(err, ports.ErrAlignerUnavailable) {
			t.Errorf("expected ErrAlignerUnavailable, got %v", err)
		}
	})

	t.Run("empty model", func(t *testing.T) {
		a := New(Options{Command: script}, ggrenderer.New())
		if err := a.Ready(); !errors.Is(err, ports.ErrAlignerUnavailable) {
			t.Errorf("expected ErrAlignerUnavailable, got %v", err)
		}
	})

	t.Run("missing command", func(t *testing.T) {
		a := New(Options{Command: "centerstage-no-such-aligner", ModelPath: model}, ggrenderer.New())
		if err := a.Ready(); !errors.Is(err, ports.ErrAlignerUnavailable) {
			t.Errorf("expected ErrAlignerUnavailable, got %v", err)
		}
	})
}

func TestAlign_ChipsInNaturalOrder(t *testing.T) {
	skipOnWindows(t)

	fixtures := t.TempDir()
	writeSolid(t, filepath.Join(fixtures, "face_2.png"), color.RGBA{R: 255, A: 255})
	writeSolid(t, filepath.Join(fixtures, "face_10.png"), color.RGBA{B: 255, A: 255})
	script := writeScript(t, `cp "`+fixtures+`"/*.png "$out"/`)

	a := New(Options{Command: script, ModelPath: writeModel(t), ScratchDir: t.TempDir()}, ggrenderer.New())
	frame := ports.Frame{Ordinal: 7, Image: image.NewRGBA(image.Rect(0, 0, 16, 16))}

	chips, err := a.Align(context.Background(), frame)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if len(chips) != 2 {
		t.Fatalf("got %d chips, want 2", len(chips))
	}

	for k, chip := range chips {
		if chip.Ordinal != 7 || chip.Detection != k {
			t.Errorf("chip %d = (%d, %d)", k, chip.Ordinal, chip.Detection)
		}
	}
	r, _, b, _ := chips[0].Image.At(0, 0).RGBA()
	if r == 0 || b != 0 {
		t.Errorf("first chip should be face_2 (red), got r=%d b=%d", r, b)
	}
}

func TestAlign_UsesFramePath(t *testing.T) {
	skipOnWindows(t)

	framePath := filepath.Join(t.TempDir(), "keyframe_0.png")
	writeSolid(t, framePath, color.RGBA{G: 255, A: 255})
	script := writeScript(t, `[ "$in" = "`+framePath+`" ] || exit 9
cp "$in" "$out/face.png"`)

	a := New(Options{Command: script, ModelPath: writeModel(t)}, ggrenderer.New())
	chips, err := a.Align(context.Background(), ports.Frame{Ordinal: 0, Path: framePath})
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if len(chips) != 1 {
		t.Errorf("got %d chips, want 1", len(chips))
	}
}

func TestAlign_NoFaces(t *testing.T) {
	skipOnWindows(t)
	script := writeScript(t, "exit 0")

	a := New(Options{Command: script, ModelPath: writeModel(t)}, ggrenderer.New())
	chips, err := a.Align(context.Background(), ports.Frame{Image: image.NewRGBA(image.Rect(0, 0, 4, 4))})
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if len(chips) != 0 {
		t.Errorf("got %d chips, want 0", len(chips))
	}
}

func TestAlign_ProgramFailure(t *testing.T) {
	skipOnWindows(t)
	script := writeScript(t, "echo 'cannot read image' >&2\nexit 3")

	a := New(Options{Command: script, ModelPath: writeModel(t)}, ggrenderer.New())
	_, err := a.Align(context.Background(), ports.Frame{Ordinal: 4, Image: image.NewRGBA(image.Rect(0, 0, 4, 4))})
	if !errors.Is(err, ports.ErrAlignmentFailure) {
		t.Errorf("expected ErrAlignmentFailure, got %v", err)
	}
}

func TestAlign_UndecodableChip(t *testing.T) {
	skipOnWindows(t)
	script := writeScript(t, `echo garbage > "$out/face.png"`)

	a := New(Options{Command: script, ModelPath: writeModel(t)}, ggrenderer.New())
	_, err := a.Align(context.Background(), ports.Frame{Image: image.NewRGBA(image.Rect(0, 0, 4, 4))})
	if !errors.Is(err, ports.ErrAlignmentFailure) {
		t.Errorf("expected ErrAlignmentFailure, got %v", err)
	}
}
