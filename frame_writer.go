package svoexport

import (
	"context"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/svoexport/frame"
)

// views are the per-frame buffers retrieved from the source; allocated
// once per export and reused for every frame.
type views struct {
	mode      Mode
	left      *frame.BGRA
	secondary *frame.BGRA
	depth     *frame.Depth
}

func newViews(mode Mode, width, height int) *views {
	v := &views{
		mode: mode,
		left: frame.NewBGRA(width, height),
	}
	if mode.SecondaryView() == ViewDepthMeasure {
		v.depth = frame.NewDepth(width, height)
	} else {
		v.secondary = frame.NewBGRA(width, height)
	}
	return v
}

func (v *views) retrieve(ctx context.Context, src Source) error {
	if err := src.RetrieveImage(ctx, ViewLeft, v.left); err != nil {
		return fmt.Errorf("unable to retrieve the left view: %w", err)
	}
	secondary := v.mode.SecondaryView()
	if secondary == ViewDepthMeasure {
		if err := src.RetrieveDepth(ctx, v.depth); err != nil {
			return fmt.Errorf("unable to retrieve the depth measure: %w", err)
		}
		return nil
	}
	if err := src.RetrieveImage(ctx, secondary, v.secondary); err != nil {
		return fmt.Errorf("unable to retrieve the %s view: %w", secondary, err)
	}
	return nil
}

type frameWriter interface {
	io.Closer
	writeFrame(ctx context.Context, frameIndex int, v *views) error
}

func (e *Exporter) newFrameWriter(
	ctx context.Context,
	cfg ExportConfig,
	res *Result,
) (frameWriter, error) {
	switch kind := cfg.Mode.SinkKind(); kind {
	case SinkKindVideo:
		videoCfg := VideoSinkConfig{
			Width:     res.Info.Width * 2,
			Height:    res.Info.Height,
			FrameRate: VideoFrameRate(res.Info.FrameRate),
		}
		logger.Debugf(ctx, "opening the video output '%s': %#+v", cfg.OutputVideoPath, videoCfg)
		sink, err := e.Sinks.NewVideoSink(ctx, cfg.OutputVideoPath, videoCfg)
		if err != nil {
			return nil, err
		}
		res.OutputFrameRate = videoCfg.FrameRate
		return &videoFrameWriter{
			sink:      sink,
			composite: frame.NewBGR(videoCfg.Width, videoCfg.Height),
		}, nil
	case SinkKindImages:
		logger.Debugf(ctx, "opening the image sequence output '%s'", cfg.OutputDirPath)
		sink, err := e.Sinks.NewImageSink(ctx, cfg.OutputDirPath)
		if err != nil {
			return nil, err
		}
		return &imageFrameWriter{sink: sink}, nil
	default:
		return nil, fmt.Errorf("unexpected sink kind %s of mode %s", kind, cfg.Mode)
	}
}

type videoFrameWriter struct {
	sink      VideoSink
	composite *frame.BGR
}

func (w *videoFrameWriter) writeFrame(ctx context.Context, _ int, v *views) error {
	if err := frame.SideBySide(w.composite, v.left, v.secondary); err != nil {
		return fmt.Errorf("unable to compose the side-by-side image: %w", err)
	}
	return w.sink.WriteFrame(ctx, w.composite)
}

func (w *videoFrameWriter) Close() error {
	return w.sink.Close()
}

type imageFrameWriter struct {
	sink ImageSink
}

func (w *imageFrameWriter) writeFrame(ctx context.Context, frameIndex int, v *views) error {
	images := []frame.Named{{
		Prefix: ViewLeft.FilePrefix(),
		Image:  v.left.NRGBA(),
	}}
	secondary := v.mode.SecondaryView()
	if secondary == ViewDepthMeasure {
		images = append(images, frame.Named{
			Prefix: secondary.FilePrefix(),
			Image:  v.depth.Gray16(),
		})
	} else {
		images = append(images, frame.Named{
			Prefix: secondary.FilePrefix(),
			Image:  v.secondary.NRGBA(),
		})
	}
	return w.sink.WriteFrame(ctx, frameIndex, images...)
}

func (w *imageFrameWriter) Close() error {
	return w.sink.Close()
}
