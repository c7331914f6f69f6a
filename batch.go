package svoexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
)

type BatchConfig struct {
	InputDir  string
	OutputDir string
	Mode      Mode
}

type BatchItem struct {
	InputPath string
	Config    ExportConfig
	Result    *Result
	Err       error
}

type BatchResult struct {
	Items       []BatchItem
	Interrupted bool
}

// ListRecordings returns the recordings in dir, sorted by name.
func ListRecordings(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list '%s': %w", dir, err)
	}
	var result []string
	for _, entry := range entries {
		if entry.IsDir() || !IsRecordingPath(entry.Name()) {
			continue
		}
		result = append(result, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(result)
	return result, nil
}

// BatchExportConfig is the export job for one recording of a batch:
// <stem>.avi for video modes, a <stem> directory for image sequences.
func BatchExportConfig(cfg BatchConfig, inputPath string) ExportConfig {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	exportCfg := DefaultExportConfig()
	exportCfg.InputPath = inputPath
	exportCfg.Mode = cfg.Mode
	switch cfg.Mode.SinkKind() {
	case SinkKindVideo:
		exportCfg.OutputVideoPath = filepath.Join(cfg.OutputDir, stem+".avi")
	case SinkKindImages:
		exportCfg.OutputDirPath = filepath.Join(cfg.OutputDir, stem)
	}
	return exportCfg
}

// RunBatch exports every recording of the input directory, one after
// another. A failed recording does not stop the batch; an interruption does.
// The returned error aggregates the failures.
func (e *Exporter) RunBatch(
	ctx context.Context,
	cfg BatchConfig,
	opts ...Option,
) (_ret *BatchResult, _err error) {
	logger.Debugf(ctx, "RunBatch(ctx, %#+v)", cfg)
	defer func() { logger.Debugf(ctx, "/RunBatch(ctx, %#+v): %v", cfg, _err) }()

	if !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("%w: mode should be between 0 and %d included, got %d", ErrInvalidArgument, EndOfMode-1, uint(cfg.Mode))
	}
	if stat, err := os.Stat(cfg.OutputDir); err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("%w: the output directory should be an existing folder, but is '%s'", ErrInvalidArgument, cfg.OutputDir)
	}
	inputs, err := ListRecordings(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	progress := e.progressReporter(opts)
	if len(inputs) == 0 {
		progress.ReportMessage(ctx, "No .svo or .svo2 files found.")
		return &BatchResult{}, nil
	}
	progress.ReportMessage(ctx, fmt.Sprintf("Found %d files to convert.", len(inputs)))

	res := &BatchResult{}
	var errs *multierror.Error
	for idx, inputPath := range inputs {
		if ctx.Err() != nil {
			res.Interrupted = true
			progress.ReportMessage(ctx, "Conversion stopped by user.")
			break
		}

		name := filepath.Base(inputPath)
		progress.ReportMessage(ctx, fmt.Sprintf("[%d/%d] Converting: %s", idx+1, len(inputs), name))
		item := BatchItem{
			InputPath: inputPath,
			Config:    BatchExportConfig(cfg, inputPath),
		}
		createdDir := false
		if dir := item.Config.OutputDirPath; dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				createdDir = true
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				item.Err = fmt.Errorf("%w: unable to create '%s': %w", ErrSinkOpen, dir, err)
			}
		}
		if item.Err == nil {
			item.Result, item.Err = e.Export(ctx, item.Config, opts...)
		}
		if item.Err != nil && createdDir {
			// leaves the directory in place if anything was written into it
			if err := os.Remove(item.Config.OutputDirPath); err != nil {
				logger.Debugf(ctx, "kept '%s': %v", item.Config.OutputDirPath, err)
			}
		}
		res.Items = append(res.Items, item)

		switch {
		case item.Err != nil:
			logger.Errorf(ctx, "unable to convert '%s': %v", inputPath, item.Err)
			progress.ReportMessage(ctx, fmt.Sprintf("FAILED: %s: %v", name, item.Err))
			errs = multierror.Append(errs, fmt.Errorf("'%s': %w", inputPath, item.Err))
		case item.Result.State == StateInterrupted:
			res.Interrupted = true
			progress.ReportMessage(ctx, "Conversion stopped by user.")
			return res, errs.ErrorOrNil()
		default:
			progress.ReportMessage(ctx, fmt.Sprintf("SUCCESS: Converted %s", name))
		}
	}
	return res, errs.ErrorOrNil()
}
