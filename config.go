package svoexport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ExportConfig is one export job. The field names follow the command
// line flags of the exporter.
type ExportConfig struct {
	InputPath       string `json:"input_svo_file"            yaml:"input_svo_file"`
	Mode            Mode   `json:"mode"                      yaml:"mode"`
	OutputVideoPath string `json:"output_avi_file,omitempty" yaml:"output_avi_file,omitempty"`
	OutputDirPath   string `json:"output_path_dir,omitempty" yaml:"output_path_dir,omitempty"`
	StartFrame      int    `json:"start_frame"               yaml:"start_frame"`
	EndFrame        int    `json:"end_frame"                 yaml:"end_frame"`
}

func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Mode:     ModeLeftRightVideo,
		EndFrame: EndOfRecording,
	}
}

// LoadExportConfig reads a YAML export job. Missing fields keep the
// values of DefaultExportConfig.
func LoadExportConfig(path string) (ExportConfig, error) {
	cfg := DefaultExportConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to read the config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse the config file '%s': %w", path, err)
	}
	return cfg, nil
}

// OutputPath is the path of the artifact the mode produces.
func (cfg ExportConfig) OutputPath() string {
	if cfg.Mode.SinkKind() == SinkKindVideo {
		return cfg.OutputVideoPath
	}
	return cfg.OutputDirPath
}

var recordingExtensions = []string{".svo", ".svo2"}

// IsRecordingPath reports whether the path has a recording file extension.
func IsRecordingPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, cmp := range recordingExtensions {
		if ext == cmp {
			return true
		}
	}
	return false
}

// Validate checks everything that can be checked without decoding:
// the mode, the input file and the output path the mode requires.
func (cfg ExportConfig) Validate() error {
	if !cfg.Mode.IsValid() {
		return fmt.Errorf("%w: mode should be between 0 and %d included, got %d", ErrInvalidArgument, EndOfMode-1, uint(cfg.Mode))
	}

	if !IsRecordingPath(cfg.InputPath) {
		return fmt.Errorf("%w: the input should be a .svo or .svo2 file, but is '%s'", ErrInvalidArgument, cfg.InputPath)
	}
	stat, err := os.Stat(cfg.InputPath)
	if err != nil || !stat.Mode().IsRegular() {
		return fmt.Errorf("%w: the input should be an existing file, but is '%s'", ErrInvalidArgument, cfg.InputPath)
	}

	switch cfg.Mode.SinkKind() {
	case SinkKindVideo:
		if cfg.OutputVideoPath == "" {
			return fmt.Errorf("%w: in mode %d the output .avi file needs to be specified", ErrInvalidArgument, uint(cfg.Mode))
		}
		if !strings.HasSuffix(cfg.OutputVideoPath, ".avi") {
			return fmt.Errorf("%w: the output should be a .avi file, but is '%s'", ErrInvalidArgument, cfg.OutputVideoPath)
		}
		if cfg.OutputDirPath != "" {
			return fmt.Errorf("%w: mode %d exports a video, the output directory should not be specified", ErrInvalidArgument, uint(cfg.Mode))
		}
	case SinkKindImages:
		if cfg.OutputDirPath == "" {
			return fmt.Errorf("%w: in mode %d the output directory needs to be specified", ErrInvalidArgument, uint(cfg.Mode))
		}
		stat, err := os.Stat(cfg.OutputDirPath)
		if err != nil || !stat.IsDir() {
			return fmt.Errorf("%w: the output directory should be an existing folder, but is '%s'", ErrInvalidArgument, cfg.OutputDirPath)
		}
		if cfg.OutputVideoPath != "" {
			return fmt.Errorf("%w: mode %d exports an image sequence, the output .avi file should not be specified", ErrInvalidArgument, uint(cfg.Mode))
		}
	}
	return nil
}

type ProgressStyle string

const (
	ProgressStyleLine = ProgressStyle("line")
	ProgressStyleBar  = ProgressStyle("bar")
)

// EnvConfig holds the defaults the command line tools take from the
// environment. Flags override them.
type EnvConfig struct {
	LogLevel      string        `env:"SVOEXPORT_LOG_LEVEL"      envDefault:"warning"`
	ProgressStyle ProgressStyle `env:"SVOEXPORT_PROGRESS_STYLE" envDefault:"line"`
}

func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse the environment: %w", err)
	}
	switch cfg.ProgressStyle {
	case ProgressStyleLine, ProgressStyleBar:
	default:
		return cfg, fmt.Errorf("unknown progress style '%s'", cfg.ProgressStyle)
	}
	return cfg, nil
}
