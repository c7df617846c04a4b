// Package cmdaligner runs an external face alignment program once per frame
// and reads back the chips it writes.
package cmdaligner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// Options configures the external program.
type Options struct {
	// Command is the executable name or path.
	Command string
	// Args are inserted before the generated flags.
	Args []string
	// ModelPath is the landmark model the program loads.
	ModelPath string
	ChipSize  int
	Padding   float64
	// ScratchDir holds per-call input and output directories. Defaults to os.TempDir().
	ScratchDir string
}

// Aligner implements ports.FaceAligner on top of an external program.
// The program is invoked as:
//
//	{command} {args...} --model M --size S --padding P --input IMAGE --output DIR
//
// and must write one image per detected face into DIR.
type Aligner struct {
	opts     Options
	renderer ports.Renderer
}

// New creates an Aligner. The renderer decodes chips and encodes in-memory frames.
func New(opts Options, renderer ports.Renderer) *Aligner {
	if opts.ChipSize <= 0 {
		opts.ChipSize = pipeline.DefaultChipSize
	}
	if opts.Padding <= 0 {
		opts.Padding = pipeline.DefaultPadding
	}
	return &Aligner{opts: opts, renderer: renderer}
}

// Ready checks that the model file exists and the command resolves.
func (a *Aligner) Ready() error {
	if a.opts.ModelPath == "" {
		return fmt.Errorf("%w: no model configured", ports.ErrAlignerUnavailable)
	}
	if st, err := os.Stat(a.opts.ModelPath); err != nil || st.IsDir() {
		return fmt.Errorf("%w: model %s not found", ports.ErrAlignerUnavailable, a.opts.ModelPath)
	}
	if _, err := exec.LookPath(a.opts.Command); err != nil {
		return fmt.Errorf("%w: command %q: %w", ports.ErrAlignerUnavailable, a.opts.Command, err)
	}
	return nil
}

// Align implements ports.FaceAligner.
func (a *Aligner) Align(ctx context.Context, frame ports.Frame) ([]ports.FaceChip, error) {
	scratch, err := os.MkdirTemp(a.opts.ScratchDir, "align-*")
	if err != nil {
		return nil, fmt.Errorf("%w: scratch dir: %w", ports.ErrAlignmentFailure, err)
	}
	defer os.RemoveAll(scratch)

	input := frame.Path
	if input == "" {
		input = filepath.Join(scratch, "in.png")
		if err := writePNG(input, frame.Image); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %w", ports.ErrAlignmentFailure, frame.Ordinal, err)
		}
	}

	outDir := filepath.Join(scratch, "out")
	if err := os.Mkdir(outDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrAlignmentFailure, err)
	}

	args := append([]string{}, a.opts.Args...)
	args = append(args,
		"--model", a.opts.ModelPath,
		"--size", strconv.Itoa(a.opts.ChipSize),
		"--padding", strconv.FormatFloat(a.opts.Padding, 'f', -1, 64),
		"--input", input,
		"--output", outDir,
	)

	// #nosec G204 - command comes from configuration
	cmd := exec.CommandContext(ctx, a.opts.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: frame %d: %v: %s", ports.ErrAlignmentFailure, frame.Ordinal, err, bytes.TrimSpace(stderr.Bytes()))
	}

	return a.readChips(outDir, frame.Ordinal)
}

// readChips loads the images the program wrote, in natural order.
func (a *Aligner) readChips(dir string, ordinal int) ([]ports.FaceChip, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrAlignmentFailure, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && ports.IsImageFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	pipeline.SortNatural(names)

	chips := make([]ports.FaceChip, 0, len(names))
	for k, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ports.ErrAlignmentFailure, err)
		}
		img, err := a.renderer.DecodeImage(data, ports.FormatFromPath(name))
		if err != nil {
			return nil, fmt.Errorf("%w: chip %s: %w", ports.ErrAlignmentFailure, name, err)
		}
		chips = append(chips, ports.FaceChip{Ordinal: ordinal, Detection: k, Image: img})
	}
	return chips, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var _ ports.FaceAligner = (*Aligner)(nil)
