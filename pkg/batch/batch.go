// Package batch runs the pipeline over one file or every video in a directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/user/centerstage/pkg/orchestrator"
	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// AllowedExtensions lists the accepted input containers (lower case).
var AllowedExtensions = []string{".mp4", ".avi"}

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, config orchestrator.Config) (orchestrator.RunResult, error)
}

// Item is the outcome for one input file.
type Item struct {
	SourcePath string
	Result     orchestrator.RunResult
	Err        error

	// Set when a publisher is configured and the run succeeded.
	PublishedURL string
	PublishErr   error
}

// OK reports whether the file produced an output.
func (i Item) OK() bool { return i.Err == nil }

// Report collects the items of a batch in input order.
type Report struct {
	Items []Item
}

// Succeeded returns the items that produced an output.
func (r Report) Succeeded() []Item {
	var out []Item
	for _, item := range r.Items {
		if item.OK() {
			out = append(out, item)
		}
	}
	return out
}

// Failed returns the items that did not produce an output.
func (r Report) Failed() []Item {
	var out []Item
	for _, item := range r.Items {
		if !item.OK() {
			out = append(out, item)
		}
	}
	return out
}

// Err returns a combined error when at least one item failed.
func (r Report) Err() error {
	var errs []error
	for _, item := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(item.SourcePath), item.Err))
	}
	return errors.Join(errs...)
}

// Batch runs files through a Runner.
type Batch struct {
	runner    Runner
	fs        ports.FileSystem
	publisher ports.Publisher
	logger    ports.Logger
	jobs      int
}

// Option configures a Batch.
type Option func(*Batch)

// WithJobs sets how many files are processed concurrently.
func WithJobs(n int) Option {
	return func(b *Batch) {
		if n > 0 {
			b.jobs = n
		}
	}
}

// WithPublisher uploads every successful output.
func WithPublisher(p ports.Publisher) Option {
	return func(b *Batch) { b.publisher = p }
}

// New creates a Batch.
func New(runner Runner, fs ports.FileSystem, logger ports.Logger, opts ...Option) *Batch {
	b := &Batch{
		runner: runner,
		fs:     fs,
		logger: logger,
		jobs:   1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ValidateInput checks that path names an existing regular file with an
// allowed extension.
func ValidateInput(fs ports.FileSystem, path string) error {
	if path == "" {
		return fmt.Errorf("%w: no input file given", ports.ErrInputValidation)
	}
	exists, err := fs.Exists(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ports.ErrInputValidation, path, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s does not exist", ports.ErrInputValidation, path)
	}
	isDir, err := fs.IsDir(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ports.ErrInputValidation, path, err)
	}
	if isDir {
		return fmt.Errorf("%w: %s is a directory", ports.ErrInputValidation, path)
	}
	if !allowed(path) {
		return fmt.Errorf("%w: %s: extension must be one of %s",
			ports.ErrInputValidation, path, strings.Join(AllowedExtensions, ", "))
	}
	return nil
}

func allowed(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// RunFile validates and processes a single file. base supplies every setting
// except SourcePath.
func (b *Batch) RunFile(ctx context.Context, base orchestrator.Config, path string) Item {
	item := Item{SourcePath: path}
	if err := ValidateInput(b.fs, path); err != nil {
		item.Err = err
		return item
	}
	if err := b.ensureOutputDir(base.OutputDir); err != nil {
		item.Err = err
		return item
	}

	cfg := base
	cfg.SourcePath = path
	item.Result, item.Err = b.runner.Run(ctx, cfg)
	if item.Err == nil {
		b.publish(ctx, &item)
	}
	return item
}

// RunDir processes every allowed file directly inside dir, in natural name
// order. A failing file never stops the others.
func (b *Batch) RunDir(ctx context.Context, base orchestrator.Config, dir string) (Report, error) {
	isDir, err := b.fs.IsDir(dir)
	if err != nil || !isDir {
		return Report{}, fmt.Errorf("%w: %s is not a directory", ports.ErrInputValidation, dir)
	}
	names, err := b.fs.ReadDir(dir)
	if err != nil {
		return Report{}, fmt.Errorf("%w: read %s: %v", ports.ErrInputValidation, dir, err)
	}

	var inputs []string
	for _, name := range names {
		if allowed(name) {
			inputs = append(inputs, name)
		}
	}
	pipeline.SortNatural(inputs)
	if len(inputs) == 0 {
		b.logger.Warn("No input videos found in %s", dir)
		return Report{}, nil
	}
	if err := b.ensureOutputDir(base.OutputDir); err != nil {
		return Report{}, err
	}

	b.logger.Info("Processing %d videos from %s", len(inputs), dir)

	items := make([]Item, len(inputs))
	var mu sync.Mutex
	done := 0

	g := new(errgroup.Group)
	g.SetLimit(b.jobs)
	for i, name := range inputs {
		i, name := i, name
		path := filepath.Join(dir, name)
		g.Go(func() error {
			var item Item
			if err := ctx.Err(); err != nil {
				item = Item{SourcePath: path, Err: err}
			} else {
				item = b.RunFile(ctx, base, path)
			}
			items[i] = item

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			if item.Err != nil {
				b.logger.Warn("[%d/%d] %s failed: %s", n, len(inputs), name, item.Err)
			} else {
				b.logger.Info("[%d/%d] %s done", n, len(inputs), name)
			}
			return nil
		})
	}
	g.Wait()

	report := Report{Items: items}
	b.logger.Info("Batch finished: %d succeeded, %d failed", len(report.Succeeded()), len(report.Failed()))
	return report, nil
}

func (b *Batch) ensureOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := b.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("%w: create output directory %s: %v", ports.ErrInputValidation, dir, err)
	}
	return nil
}

func (b *Batch) publish(ctx context.Context, item *Item) {
	if b.publisher == nil || item.Result.OutputPath == "" {
		return
	}
	key := filepath.Base(item.Result.OutputPath)
	url, err := b.publisher.Publish(ctx, item.Result.OutputPath, key)
	if err != nil {
		item.PublishErr = err
		b.logger.Warn("Failed to upload %s: %s", key, err)
		return
	}
	item.PublishedURL = url
	b.logger.Info("Uploaded to %s", url)
}
