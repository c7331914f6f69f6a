// Package libav writes the exported recordings: side-by-side videos
// through FFmpeg and image sequences through imageseq.
package libav

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/imageseq"
)

type Factory struct {
	EncoderOptions DictionaryItems
}

var _ svoexport.SinkFactory = (*Factory)(nil)

func NewFactory(encoderOptions DictionaryItems) *Factory {
	return &Factory{
		EncoderOptions: encoderOptions,
	}
}

func (f *Factory) NewVideoSink(
	ctx context.Context,
	path string,
	cfg svoexport.VideoSinkConfig,
) (svoexport.VideoSink, error) {
	logger.Debugf(ctx, "opening '%s' as the output video (%dx%d@%d)", path, cfg.Width, cfg.Height, cfg.FrameRate)
	w, err := NewVideoWriter(ctx, path, VideoWriterConfig{
		Width:          cfg.Width,
		Height:         cfg.Height,
		FrameRate:      cfg.FrameRate,
		EncoderOptions: f.EncoderOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w: %w", path, svoexport.ErrSinkOpen, err)
	}
	return w, nil
}

func (f *Factory) NewImageSink(
	ctx context.Context,
	dir string,
) (svoexport.ImageSink, error) {
	logger.Debugf(ctx, "writing the images into '%s'", dir)
	s, err := imageseq.New(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w: %w", dir, svoexport.ErrSinkOpen, err)
	}
	return s, nil
}
