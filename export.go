package svoexport

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
	"github.com/xaionaro-go/svoexport/internal"
	"github.com/xaionaro-go/xcontext"
)

type State uint

const (
	StateIdle = State(iota)
	StateOpening
	StateRangeValidating
	StateSinkOpening
	StateExporting
	StateCompleted
	StateFailed
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateRangeValidating:
		return "range_validating"
	case StateSinkOpening:
		return "sink_opening"
	case StateExporting:
		return "exporting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateInterrupted:
		return "interrupted"
	}
	return fmt.Sprintf("unexpected_state_%d", uint(s))
}

func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateInterrupted:
		return true
	}
	return false
}

type Result struct {
	ExportID string
	State    State
	Info     RecordingInfo
	Range    FrameRange

	FramesProcessed int

	// EndOfStreamEarly is set when the recording ended before the range
	// was exhausted; the export is still Completed.
	EndOfStreamEarly bool

	// OutputFrameRate is set for video exports.
	OutputFrameRate int
}

// Exporter runs exports. It holds no per-export state, so one Exporter
// may run several exports, each with its own Source and sink.
type Exporter struct {
	Opener   Opener
	Sinks    SinkFactory
	Progress ProgressReporter
}

func NewExporter(
	opener Opener,
	sinks SinkFactory,
	progress ProgressReporter,
) *Exporter {
	return &Exporter{
		Opener:   opener,
		Sinks:    sinks,
		Progress: progress,
	}
}

func (e *Exporter) progressReporter(opts Options) ProgressReporter {
	if opt, ok := GetOption[OptionProgressReporter](opts); ok && opt.ProgressReporter != nil {
		return opt.ProgressReporter
	}
	if e.Progress != nil {
		return e.Progress
	}
	return noopProgressReporter{}
}

// Export converts the frame range of the recording described by cfg.
//
// Cancelling ctx interrupts the export between two frames; this is not
// an error: the returned Result has StateInterrupted. The sink and the
// source are closed before Export returns, whatever the outcome.
func (e *Exporter) Export(
	ctx context.Context,
	cfg ExportConfig,
	opts ...Option,
) (_ret *Result, _err error) {
	exportID := uuid.NewString()
	if id, ok := GetOption[OptionExportID](opts); ok {
		exportID = string(id)
	}
	ctx = logger.CtxWithLogger(ctx, logger.FromCtx(ctx).WithField("export_id", exportID))
	progress := e.progressReporter(opts)

	res := &Result{
		ExportID: exportID,
		State:    StateIdle,
	}

	logger.Debugf(ctx, "Export(ctx, '%s', %s)", cfg.InputPath, cfg.Mode)
	logger.Tracef(ctx, "export config: %s", spew.Sdump(cfg))
	defer func() {
		logger.Debugf(ctx, "/Export(ctx, '%s', %s): %s, %d frames: %v", cfg.InputPath, cfg.Mode, res.State, res.FramesProcessed, _err)
		switch res.State {
		case StateCompleted:
			progress.ReportMessage(ctx, "Conversion finished.")
		case StateInterrupted:
			progress.ReportMessage(ctx, "Conversion interrupted.")
		}
	}()
	fail := func(err error) (*Result, error) {
		res.State = StateFailed
		return res, err
	}

	if err := cfg.Validate(); err != nil {
		return fail(err)
	}

	res.State = StateOpening
	src, err := e.Opener.Open(ctx, cfg.InputPath)
	if err != nil {
		if src != nil {
			closeSource(ctx, src)
		}
		if !errors.Is(err, ErrOpen) {
			err = fmt.Errorf("%w '%s': %w", ErrOpen, cfg.InputPath, err)
		}
		return fail(err)
	}
	defer closeSource(ctx, src)
	res.Info = src.Info()
	logger.Debugf(ctx, "opened '%s': %#+v", cfg.InputPath, res.Info)

	res.State = StateRangeValidating
	frameRange, err := ResolveAndSeek(ctx, src, cfg.StartFrame, cfg.EndFrame)
	if err != nil {
		return fail(err)
	}
	res.Range = frameRange

	res.State = StateSinkOpening
	writer, err := e.newFrameWriter(ctx, cfg, res)
	if err != nil {
		if !errors.Is(err, ErrSinkOpen) {
			err = fmt.Errorf("%w '%s': %w", ErrSinkOpen, cfg.OutputPath(), err)
		}
		return fail(err)
	}
	defer func() {
		closeCtx := xcontext.DetachDone(ctx)
		logger.Debugf(closeCtx, "closing the output '%s'", cfg.OutputPath())
		err := writer.Close()
		if err == nil {
			return
		}
		errmon.ObserveErrorCtx(closeCtx, err)
		logger.Errorf(closeCtx, "unable to close the output '%s': %v", cfg.OutputPath(), err)
		if _err == nil {
			res.State = StateFailed
			_err = fmt.Errorf("%w: unable to finalize '%s': %w", ErrSinkWrite, cfg.OutputPath(), err)
		}
	}()

	res.State = StateExporting
	return res, e.exportLoop(ctx, src, writer, cfg.Mode, res, progress)
}

func (e *Exporter) exportLoop(
	ctx context.Context,
	src Source,
	writer frameWriter,
	mode Mode,
	res *Result,
	progress ProgressReporter,
) error {
	logger.Infof(ctx, "exporting %s (%s - %s)",
		res.Range,
		FormatTimecode(FrameTime(res.Range.Start, res.Info.FrameRate)),
		FormatTimecode(FrameTime(res.Range.End, res.Info.FrameRate)),
	)
	progress.ReportMessage(ctx, fmt.Sprintf(
		"Converting SVO from frame %d to %d... Use Ctrl-C to interrupt.",
		res.Range.Start, res.Range.End,
	))

	v := newViews(mode, res.Info.Width, res.Info.Height)
	total := res.Range.Len()
	for res.FramesProcessed < total {
		select {
		case <-ctx.Done():
			logger.Infof(ctx, "interrupted after %d of %d frames: %v", res.FramesProcessed, total, ctx.Err())
			res.State = StateInterrupted
			return nil
		default:
		}

		expectedIndex := res.Range.Start + res.FramesProcessed
		err := src.Grab(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrEndOfStream):
			logger.Warnf(ctx, "the recording ended at frame %d, before the end of the range %s", expectedIndex, res.Range)
			progress.ReportMessage(ctx, "SVO end has been reached unexpectedly.")
			res.EndOfStreamEarly = true
			res.State = StateCompleted
			return nil
		default:
			res.State = StateFailed
			progress.ReportMessage(ctx, fmt.Sprintf("Error grabbing frame: %v.", err))
			return fmt.Errorf("%w %d: %w", ErrGrab, expectedIndex, err)
		}

		frameIndex := src.Position()
		if frameIndex != expectedIndex {
			logger.Warnf(ctx, "the recording reports position %d, expected %d", frameIndex, expectedIndex)
		}

		if err := v.retrieve(ctx, src); err != nil {
			res.State = StateFailed
			return fmt.Errorf("%w %d: %w", ErrGrab, frameIndex, err)
		}
		if err := writer.writeFrame(ctx, frameIndex, v); err != nil {
			res.State = StateFailed
			return fmt.Errorf("%w: frame %d: %w", ErrSinkWrite, frameIndex, err)
		}

		res.FramesProcessed++
		progress.ReportProgress(ctx, Progress{
			Processed: res.FramesProcessed,
			Total:     total,
		})
	}

	internal.Assert(ctx, res.FramesProcessed == total, res.FramesProcessed, total)
	res.State = StateCompleted
	return nil
}

func closeSource(ctx context.Context, src Source) {
	ctx = xcontext.DetachDone(ctx)
	logger.Debugf(ctx, "closing the recording")
	if err := src.Close(); err != nil {
		errmon.ObserveErrorCtx(ctx, err)
		logger.Errorf(ctx, "unable to close the recording: %v", err)
	}
}
