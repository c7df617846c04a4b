package main

import (
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/centerstage/pkg/config"
)

// globalFlags are accepted before any subcommand.
func globalFlags() []cli.Flag {
	// Flag categories
	var (
		catConfig  = l10n.T("Configuration")
		catAligner = l10n.T("Face Alignment")
		catVideo   = l10n.T("Video and Quality")
		catTools   = l10n.T("Tools")
		catPublish = l10n.T("Publishing")
		catDebug   = l10n.T("Debug")
		catLogging = l10n.T("Logging")
	)

	return []cli.Flag{
		// Configuration
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), EnvVars: []string{config.EnvPrefix + "CONFIG"}, Category: catConfig},
		&cli.StringFlag{Name: "temp-dir", Usage: l10n.T("Directory for working areas (default: system temp)"), Category: catConfig},

		// Face alignment
		&cli.StringFlag{Name: "aligner", Usage: l10n.T("Aligner backend (command, gocv)"), Category: catAligner},
		&cli.StringFlag{Name: "aligner-command", Usage: l10n.T("Face alignment program for the command backend"), Category: catAligner},
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: l10n.T("Face model file"), Category: catAligner},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: l10n.T("Parallel alignment workers (0 = number of CPUs)"), Category: catAligner},
		&cli.IntFlag{Name: "chip-size", Usage: l10n.T("Side length of face chips in pixels (default: 512)"), Category: catAligner},
		&cli.Float64Flag{Name: "padding", Usage: l10n.T("Context around the face as a fraction of its size (default: 0.75)"), Category: catAligner},

		// Video and quality
		&cli.StringFlag{Name: "quality", Usage: l10n.T("Quality preset (low, medium, high)"), Category: catVideo},
		&cli.IntFlag{Name: "crf", Usage: l10n.T("Video CRF value (0-51, lower is better, overrides quality preset)"), Category: catVideo},
		&cli.StringFlag{Name: "preset", Usage: l10n.T("x264 encoder preset (default: fast)"), Category: catVideo},
		&cli.StringFlag{Name: "frame-format", Usage: l10n.T("Format of staged frames (jpeg, png)"), Category: catVideo},

		// Tools
		&cli.StringFlag{Name: "ffmpeg", Usage: l10n.T("Path to ffmpeg (falls back to FFMPEG_PATH, then PATH)"), Category: catTools},
		&cli.StringFlag{Name: "ffprobe", Usage: l10n.T("Path to ffprobe (falls back to FFPROBE_PATH, then PATH)"), Category: catTools},

		// Publishing
		&cli.StringFlag{Name: "s3-bucket", Usage: l10n.T("Upload outputs to this S3 bucket"), Category: catPublish},
		&cli.StringFlag{Name: "s3-prefix", Usage: l10n.T("Key prefix for uploaded outputs"), Category: catPublish},
		&cli.StringFlag{Name: "s3-region", Usage: l10n.T("S3 region"), Category: catPublish},
		&cli.StringFlag{Name: "s3-endpoint", Usage: l10n.T("Custom S3-compatible endpoint"), Category: catPublish},

		// Debug
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: catDebug},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: catDebug},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Output execution summary to file (Markdown format)"), Category: catDebug},

		// Logging
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: catLogging},
		&cli.StringFlag{Name: "log-format", Usage: l10n.T("Log format (console, json)"), Category: catLogging},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: l10n.T("Suppress all log output"), Category: catLogging},
		&cli.BoolFlag{Name: "no-progress", Usage: l10n.T("Disable the progress bar"), Category: catLogging},
	}
}

// fileFlags select a single input.
func fileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: l10n.T("Input video (.mp4 or .avi)")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output directory (default: current directory)")},
	}
}

// dirFlags select a directory of inputs.
func dirFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dir", Aliases: []string{"D"}, Usage: l10n.T("Directory of input videos"), Required: true},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output directory (default: current directory)")},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: l10n.T("Files processed concurrently (default: 1)")},
	}
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	setString("temp-dir", &cfg.TempDir)
	setString("output", &cfg.OutputDir)

	setString("aligner", &cfg.Aligner.Backend)
	setString("aligner-command", &cfg.Aligner.Command)
	setString("model", &cfg.Aligner.Model)
	setInt("workers", &cfg.Workers)
	setInt("chip-size", &cfg.ChipSize)
	if c.IsSet("padding") {
		cfg.Aligner.Padding = c.Float64("padding")
	}
	if c.IsSet("aligner") && !c.IsSet("model") && c.String("aligner") == "gocv" && cfg.Aligner.Model == config.DefaultCommandModel {
		cfg.Aligner.Model = config.DefaultCascadeModel
	}

	// Preset first so an explicit --crf wins.
	setString("quality", &cfg.QualityPreset)
	cfg.ApplyQualityPreset()
	setInt("crf", &cfg.Quality)
	setString("preset", &cfg.Preset)
	setString("frame-format", &cfg.FrameFormat)

	setString("ffmpeg", &cfg.FFmpeg.Path)
	setString("ffprobe", &cfg.FFmpeg.ProbePath)

	setString("s3-bucket", &cfg.S3.Bucket)
	setString("s3-prefix", &cfg.S3.Prefix)
	setString("s3-region", &cfg.S3.Region)
	setString("s3-endpoint", &cfg.S3.Endpoint)

	if c.Bool("debug") {
		cfg.Debug = true
	}
	setString("debug-dir", &cfg.DebugDir)

	setString("log-level", &cfg.Log.Level)
	setString("log-format", &cfg.Log.Format)
	if c.Bool("quiet") {
		cfg.Log.Level = "quiet"
	}
	if c.Bool("no-progress") {
		cfg.Progress = false
	}

	setInt("jobs", &cfg.Jobs)
}
