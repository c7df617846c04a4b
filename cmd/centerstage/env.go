package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/centerstage/pkg/adapters/ffmpeg"
	"github.com/user/centerstage/pkg/adapters/filesink"
	"github.com/user/centerstage/pkg/adapters/ggrenderer"
	"github.com/user/centerstage/pkg/adapters/logger"
	"github.com/user/centerstage/pkg/adapters/mediaprobe"
	"github.com/user/centerstage/pkg/adapters/nullsink"
	"github.com/user/centerstage/pkg/adapters/osfilesystem"
	"github.com/user/centerstage/pkg/adapters/progressbar"
	"github.com/user/centerstage/pkg/adapters/s3publisher"
	"github.com/user/centerstage/pkg/batch"
	"github.com/user/centerstage/pkg/config"
	"github.com/user/centerstage/pkg/orchestrator"
	"github.com/user/centerstage/pkg/ports"
	"github.com/user/centerstage/pkg/stages/align"
	"github.com/user/centerstage/pkg/stages/audio"
	"github.com/user/centerstage/pkg/stages/compose"
	"github.com/user/centerstage/pkg/stages/extract"
	"github.com/user/centerstage/pkg/stages/mux"
	"github.com/user/centerstage/pkg/summarizer"
)

// env holds the wired components for one invocation.
type env struct {
	cfg     config.Config
	log     ports.Logger
	fs      ports.FileSystem
	batch   *batch.Batch
	summary string
	closers []func() error
}

// setup loads configuration and wires every adapter and stage.
func setup(ctx context.Context, c *cli.Context) (*env, error) {
	cfg, err := config.Load(ctx, c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := newLogger(cfg)
	e := &env{cfg: cfg, log: log, summary: c.String("summary")}

	fs := osfilesystem.New()
	e.fs = fs
	renderer := ggrenderer.New()

	tools, err := ffmpeg.Locate(cfg.FFmpeg.Path, cfg.FFmpeg.ProbePath)
	if err != nil {
		return nil, err
	}
	log.Debug("ffmpeg: %s, ffprobe: %s", tools.FFmpeg, tools.FFprobe)
	prober := mediaprobe.New(ffmpeg.NewProber(tools))

	aligner, closeAligner, err := newAligner(cfg, renderer)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, closeAligner)

	// Debug output goes to one subdirectory per source under DebugDir.
	var sink ports.DebugSink = nullsink.New()
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			e.close()
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
	}

	// The progress bar is shown only when files run one at a time.
	showProgress := cfg.Progress && cfg.Log.Level != "quiet" && cfg.Jobs <= 1

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	source := ffmpeg.NewSource(tools, prober)
	audioExtractor := ffmpeg.NewAudioExtractor(tools)
	muxer := ffmpeg.NewMuxer(tools)

	// Each run gets its own encoder, progress bar and debug sink.
	newStages := func(run orchestrator.Config) orchestrator.Stages {
		var progress ports.Progress = progressbar.Noop{}
		if showProgress {
			progress = progressbar.ForStderr()
		}
		runSink := sink
		if cfg.Debug {
			runSink = filesink.New(filepath.Join(cfg.DebugDir, debugName(run.SourcePath)), fs, renderer)
		}
		return orchestrator.Stages{
			Extract: extract.NewStage(source, renderer, fs, runSink, log),
			Align:   align.NewStage(aligner, renderer, fs, runSink, progress, log, workers),
			Audio:   audio.NewStage(audioExtractor, fs, log),
			Compose: compose.NewStage(ffmpeg.NewEncoder(tools), renderer, fs, log),
			Mux:     mux.NewStage(muxer, fs, log),
			Sink:    runSink,
		}
	}
	orch := orchestrator.NewWithFactory(newStages, prober, aligner, fs, sink, log)

	opts := []batch.Option{batch.WithJobs(cfg.Jobs)}
	if cfg.S3.Enabled() {
		pub, err := s3publisher.New(ctx, s3publisher.Config{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			e.close()
			return nil, err
		}
		opts = append(opts, batch.WithPublisher(pub))
	}
	e.batch = batch.New(orch, fs, log, opts...)

	return e, nil
}

// debugName is the debug subdirectory for a source: its file name without
// the extension.
func debugName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newLogger(cfg config.Config) ports.Logger {
	level := ports.ParseLogLevel(cfg.Log.Level)
	if level == ports.LevelQuiet {
		return logger.NewNoop()
	}
	if cfg.Log.Format == "json" {
		return logger.NewStructured(level, os.Stderr)
	}
	return logger.NewConsole(level)
}

func (e *env) close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			e.log.Warn("Cleanup failed: %s", err)
		}
	}
	e.closers = nil
}

// writeSummary writes the Markdown summary when --summary was given.
func (e *env) writeSummary(items []batch.Item) {
	if e.summary == "" {
		return
	}
	b := summarizer.NewBuilder().WithSettings(summarizer.Settings{
		Aligner:     e.cfg.Aligner.Backend,
		Model:       e.cfg.ModelPath(),
		ChipSize:    e.cfg.ChipSize,
		FrameFormat: e.cfg.FrameFormat,
		Workers:     e.cfg.Workers,
		Jobs:        e.cfg.Jobs,
		CRF:         e.cfg.Quality,
		Preset:      e.cfg.Preset,
	})
	for _, item := range items {
		run := summarizer.FromRunResult(item.Result, item.Err)
		if run.Source == "" {
			run.Source = item.SourcePath
		}
		run.PublishedURL = item.PublishedURL
		b.AddRun(run)
	}

	w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(summarizer.WithTranslator(func(s string) string { return l10n.T(s) })), e.fs)
	if err := w.Write(e.summary, b.Build()); err != nil {
		e.log.Warn("Failed to write summary: %s", err)
		return
	}
	e.log.Info("Summary saved to %s", e.summary)
}
