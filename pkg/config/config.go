// Package config provides configuration loading and management.
//
// Values are layered: Defaults, then the YAML file, then CENTERSTAGE_*
// environment variables. Command-line flags are applied by the caller, which
// then calls Validate.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/user/centerstage/pkg/orchestrator"
	"github.com/user/centerstage/pkg/pipeline"
	"github.com/user/centerstage/pkg/ports"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CENTERSTAGE_"

// Default model paths per aligner backend.
const (
	DefaultCommandModel = "models/shape_predictor_68_face_landmarks.dat"
	DefaultCascadeModel = "models/haarcascade_frontalface_default.xml"
)

// Config represents the full configuration for centerstage.
type Config struct {
	// Input/Output
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`
	TempDir   string `yaml:"temp_dir" env:"TEMP_DIR"`

	// Alignment
	Aligner  AlignerConfig `yaml:"aligner" env:", prefix=ALIGNER_"`
	Workers  int           `yaml:"workers" env:"WORKERS" validate:"gte=0,lte=256"`
	ChipSize int           `yaml:"chip_size" env:"CHIP_SIZE" validate:"gte=16,lte=4096"`

	// Frame staging
	FrameFormat  string `yaml:"frame_format" env:"FRAME_FORMAT" validate:"oneof=jpeg jpg png"`
	FrameQuality int    `yaml:"frame_quality" env:"FRAME_QUALITY" validate:"gte=1,lte=100"`

	// Encoding
	QualityPreset string `yaml:"quality_preset" env:"QUALITY_PRESET" validate:"omitempty,oneof=low medium high"`
	Quality       int    `yaml:"crf" env:"CRF" validate:"gte=0,lte=51"`
	Preset        string `yaml:"preset" env:"PRESET" validate:"oneof=ultrafast superfast veryfast faster fast medium slow slower veryslow"`

	// Batch
	Jobs int `yaml:"jobs" env:"JOBS" validate:"gte=1,lte=64"`

	// Tools
	FFmpeg FFmpegConfig `yaml:"ffmpeg" env:", prefix=FFMPEG_"`

	// Logging
	Log LogConfig `yaml:"log" env:", prefix=LOG_"`

	// Progress
	Progress bool `yaml:"progress" env:"PROGRESS"`

	// Publishing
	S3 S3Config `yaml:"s3" env:", prefix=S3_"`

	// Debug
	Debug    bool   `yaml:"debug" env:"DEBUG"`
	DebugDir string `yaml:"debug_dir" env:"DEBUG_DIR" validate:"required_if=Debug true"`
}

// AlignerConfig selects and configures the face aligner backend.
type AlignerConfig struct {
	Backend string   `yaml:"backend" env:"BACKEND" validate:"oneof=command gocv"`
	Command string   `yaml:"command" env:"COMMAND" validate:"required_if=Backend command"`
	Args    []string `yaml:"args" env:"ARGS"`
	Model   string   `yaml:"model" env:"MODEL"`
	Padding float64  `yaml:"padding" env:"PADDING" validate:"gte=0,lte=4"`
}

// FFmpegConfig overrides the ffmpeg and ffprobe locations.
type FFmpegConfig struct {
	Path      string `yaml:"path" env:"PATH"`
	ProbePath string `yaml:"probe_path" env:"PROBE_PATH"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn warning error quiet"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=console json"`
}

// S3Config enables uploading outputs. An empty bucket disables it.
type S3Config struct {
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	Prefix          string `yaml:"prefix" env:"PREFIX"`
	Region          string `yaml:"region" env:"REGION" validate:"required_with=Bucket"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"-" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"-" env:"SECRET_ACCESS_KEY"`
}

// Enabled reports whether publishing is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputDir: ".",

		Aligner: AlignerConfig{
			Backend: "command",
			Command: "face-align",
			Model:   DefaultCommandModel,
			Padding: pipeline.DefaultPadding,
		},
		ChipSize: pipeline.DefaultChipSize,

		FrameFormat:  "jpeg",
		FrameQuality: pipeline.DefaultFrameQuality,

		Quality: 23,
		Preset:  "fast",

		Jobs: 1,

		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Progress: true,

		DebugDir: "./debug",
	}
}

// QualityPreset names a bundle of encoding settings.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// QualitySettings contains quality parameters for staging and encoding.
type QualitySettings struct {
	CRF          int // x264 CRF (0-51, lower is better)
	FrameQuality int // JPEG quality of staged frames (1-100)
}

// GetQualitySettings returns quality settings for the given preset.
func GetQualitySettings(preset QualityPreset) QualitySettings {
	switch preset {
	case QualityLow:
		return QualitySettings{CRF: 30, FrameQuality: 80}
	case QualityHigh:
		return QualitySettings{CRF: 17, FrameQuality: 98}
	default: // medium
		return QualitySettings{CRF: 23, FrameQuality: pipeline.DefaultFrameQuality}
	}
}

// ApplyQualityPreset overwrites CRF and frame quality from QualityPreset.
// It does nothing when no preset is set.
func (c *Config) ApplyQualityPreset() {
	if c.QualityPreset == "" {
		return
	}
	s := GetQualitySettings(QualityPreset(c.QualityPreset))
	c.Quality = s.CRF
	c.FrameQuality = s.FrameQuality
}

// Load builds a Config from defaults, the optional YAML file at path, and
// the environment.
func Load(ctx context.Context, path string) (Config, error) {
	return LoadWith(ctx, path, envconfig.OsLookuper())
}

// LoadWith is Load with a custom environment source.
func LoadWith(ctx context.Context, path string, lookuper envconfig.Lookuper) (Config, error) {
	cfg := Defaults()

	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:           &cfg,
		Lookuper:         envconfig.PrefixLookuper(EnvPrefix, lookuper),
		DefaultOverwrite: true,
	}); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and cross-field requirements.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
}

// ModelPath returns the configured model, or the backend default.
func (c Config) ModelPath() string {
	if c.Aligner.Model != "" {
		return c.Aligner.Model
	}
	if c.Aligner.Backend == "gocv" {
		return DefaultCascadeModel
	}
	return DefaultCommandModel
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
// SourcePath is left for the caller.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		OutputDir: c.OutputDir,
		TempDir:   c.TempDir,

		ChipSize:     c.ChipSize,
		FrameFormat:  ports.ParseImageFormat(c.FrameFormat),
		FrameQuality: c.FrameQuality,

		Quality: c.Quality,
		Preset:  c.Preset,
	}
}
