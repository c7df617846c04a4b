// Package align implements the face alignment stage.
package align

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// lookahead is how many frames per worker may be dispatched past the oldest
// frame not yet persisted.
const lookahead = 2

// Stage runs the face aligner over every staged frame and persists the chips.
type Stage struct {
	aligner    ports.FaceAligner
	renderer   ports.Renderer
	fs         ports.FileSystem
	sink       ports.DebugSink
	progress   ports.Progress
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new align stage.
func NewStage(
	aligner ports.FaceAligner,
	renderer ports.Renderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	progress ports.Progress,
	logger ports.Logger,
	numWorkers int,
) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		aligner:    aligner,
		renderer:   renderer,
		fs:         fs,
		sink:       sink,
		progress:   progress,
		logger:     logger.WithComponent("align"),
		numWorkers: numWorkers,
	}
}

// frameRef is a staged frame waiting for alignment.
type frameRef struct {
	seq     int
	ordinal int
	path    string
}

// aligned is the outcome of aligning one frame.
type aligned struct {
	seq     int
	ordinal int
	chips   []ports.FaceChip
	err     error
}

// Execute aligns all frames in input.FramesDir. Chips are written to
// input.ChipsDir strictly in ordinal order whatever order the workers finish in.
func (s *Stage) Execute(ctx context.Context, input pipeline.AlignInput) (pipeline.AlignResult, error) {
	result := pipeline.AlignResult{
		Dropped:   []int{},
		Failed:    []int{},
		MultiFace: []int{},
	}

	if err := s.aligner.Ready(); err != nil {
		return result, err
	}

	frames, err := s.listFrames(input.FramesDir)
	if err != nil {
		return result, err
	}
	if err := s.fs.MkdirAll(input.ChipsDir); err != nil {
		return result, fmt.Errorf("%w: %w", ports.ErrWorkingArea, err)
	}
	if len(frames) == 0 {
		return result, nil
	}

	chipSize := input.ChipSize
	if chipSize <= 0 {
		chipSize = pipeline.DefaultChipSize
	}

	workers := s.numWorkers
	if workers > len(frames) {
		workers = len(frames)
	}
	s.logger.Debug("Aligning %d frames with %d workers", len(frames), workers)

	s.progress.Start(len(frames), "Aligning faces")
	defer s.progress.Finish()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan frameRef)
	results := make(chan aligned, workers)
	// A slot is taken per dispatched frame and returned once it leaves the
	// reorder buffer, so a stalled frame bounds the chips held in memory.
	window := make(chan struct{}, workers*lookahead)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go s.worker(runCtx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, f := range frames {
			select {
			case window <- struct{}{}:
			case <-runCtx.Done():
				return
			}
			select {
			case jobs <- f:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Reorder buffer: hold results until every earlier frame has been persisted.
	pending := make(map[int]aligned)
	next := 0
	var persistErr error
	for res := range results {
		pending[res.seq] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			<-window

			if persistErr != nil || runCtx.Err() != nil {
				continue
			}
			if err := s.persist(r, input.ChipsDir, chipSize, &result); err != nil {
				persistErr = err
				cancel()
				continue
			}
			s.progress.Increment()
		}
	}

	if persistErr != nil {
		return result, persistErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Debug("Alignment completed: %d chips, %d dropped, %d failed", result.Chips, len(result.Dropped), len(result.Failed))
	return result, nil
}

// listFrames returns the staged frames in natural order.
func (s *Stage) listFrames(dir string) ([]frameRef, error) {
	names, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrWorkingArea, err)
	}

	var frames []frameRef
	for _, name := range names {
		ordinal, ok := pipeline.ParseFrameName(name)
		if !ok {
			continue
		}
		frames = append(frames, frameRef{ordinal: ordinal, path: filepath.Join(dir, name)})
	}
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].ordinal < frames[j].ordinal
	})
	for i := range frames {
		frames[i].seq = i
	}
	return frames, nil
}

// worker aligns frames from the jobs channel.
func (s *Stage) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan frameRef, results chan<- aligned) {
	defer wg.Done()

	for f := range jobs {
		if ctx.Err() != nil {
			return
		}
		res := s.alignFrame(ctx, f)
		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Stage) alignFrame(ctx context.Context, f frameRef) aligned {
	res := aligned{seq: f.seq, ordinal: f.ordinal}

	data, err := s.fs.ReadFile(f.path)
	if err != nil {
		res.err = fmt.Errorf("read frame: %w", err)
		return res
	}
	img, err := s.renderer.DecodeImage(data, ports.FormatFromPath(f.path))
	if err != nil {
		res.err = fmt.Errorf("decode frame: %w", err)
		return res
	}

	res.chips, res.err = s.aligner.Align(ctx, ports.Frame{Ordinal: f.ordinal, Image: img, Path: f.path})
	return res
}

// persist writes the chips of one frame and records its outcome.
func (s *Stage) persist(r aligned, chipsDir string, chipSize int, result *pipeline.AlignResult) error {
	result.Frames++

	if r.err != nil {
		s.logger.Warn("Frame %d skipped: %v", r.ordinal, r.err)
		result.Failed = append(result.Failed, r.ordinal)
		return nil
	}

	switch {
	case len(r.chips) == 0:
		s.logger.Debug("No face in frame %d", r.ordinal)
		result.Dropped = append(result.Dropped, r.ordinal)
		return nil
	case len(r.chips) > 1:
		s.logger.Debug("%d faces in frame %d", len(r.chips), r.ordinal)
		result.MultiFace = append(result.MultiFace, r.ordinal)
	}

	for k, chip := range r.chips {
		chip.Ordinal = r.ordinal
		chip.Detection = k
		chip.Image = s.normalize(chip.Image, chipSize)

		data, err := s.renderer.EncodeImage(chip.Image, ports.FormatPNG, 0)
		if err != nil {
			return fmt.Errorf("%w: encode chip %d/%d: %w", ports.ErrWorkingArea, r.ordinal, k, err)
		}
		path := filepath.Join(chipsDir, pipeline.ChipName(r.ordinal, k))
		if err := s.fs.WriteFile(path, data); err != nil {
			return fmt.Errorf("%w: %w", ports.ErrWorkingArea, err)
		}
		result.Chips++

		if s.sink.Enabled() {
			if err := s.sink.SaveChip(chip); err != nil {
				s.logger.Debug("Debug sink failed for chip %d/%d: %v", r.ordinal, k, err)
			}
		}
	}
	return nil
}

// normalize rescales chips that do not have the canonical size.
func (s *Stage) normalize(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	s.logger.Debug("Rescaling %dx%d chip to %d", b.Dx(), b.Dy(), size)
	return s.renderer.ResizeImage(img, size, size)
}
