//go:build gocv

package gocvaligner

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// Aligner implements ports.FaceAligner with a Haar cascade.
type Aligner struct {
	modelPath string
	chipSize  int
	padding   float64

	once    sync.Once
	loaded  bool
	loadErr error

	// CascadeClassifier is not safe for concurrent use.
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
}

// New creates an Aligner for the cascade XML at modelPath.
func New(modelPath string, chipSize int, padding float64) *Aligner {
	if chipSize <= 0 {
		chipSize = pipeline.DefaultChipSize
	}
	if padding <= 0 {
		padding = pipeline.DefaultPadding
	}
	return &Aligner{modelPath: modelPath, chipSize: chipSize, padding: padding}
}

// Ready loads the cascade on first use.
func (a *Aligner) Ready() error {
	a.once.Do(func() {
		if _, err := os.Stat(a.modelPath); err != nil {
			a.loadErr = fmt.Errorf("%w: model %s not found", ports.ErrAlignerUnavailable, a.modelPath)
			return
		}
		a.classifier = gocv.NewCascadeClassifier()
		if !a.classifier.Load(a.modelPath) {
			a.classifier.Close()
			a.loadErr = fmt.Errorf("%w: cannot load cascade %s", ports.ErrAlignerUnavailable, a.modelPath)
			return
		}
		a.loaded = true
	})
	return a.loadErr
}

// Align implements ports.FaceAligner.
func (a *Aligner) Align(ctx context.Context, frame ports.Frame) ([]ports.FaceChip, error) {
	if err := a.Ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if frame.Image == nil {
		return nil, fmt.Errorf("%w: frame %d has no image", ports.ErrAlignmentFailure, frame.Ordinal)
	}

	mat, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %w", ports.ErrAlignmentFailure, frame.Ordinal, err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	a.mu.Lock()
	boxes := a.classifier.DetectMultiScale(gray)
	a.mu.Unlock()

	SortBoxes(boxes)

	chips := make([]ports.FaceChip, 0, len(boxes))
	for k, box := range boxes {
		chips = append(chips, ports.FaceChip{
			Ordinal:   frame.Ordinal,
			Detection: k,
			Image:     ChipFromBox(frame.Image, box, a.chipSize, a.padding),
		})
	}
	return chips, nil
}

// Close releases the cascade.
func (a *Aligner) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		return nil
	}
	a.loaded = false
	return a.classifier.Close()
}

var _ ports.FaceAligner = (*Aligner)(nil)
