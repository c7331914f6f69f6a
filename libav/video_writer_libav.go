//go:build with_libav
// +build with_libav

package libav

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/frame"
	"github.com/xaionaro-go/svoexport/internal"
	"github.com/xaionaro-go/xsync"
)

// VideoWriter encodes BGR frames with the MPEG-4 part 2 encoder into an
// AVI file.
type VideoWriter struct {
	Path   string
	Config VideoWriterConfig
	Locker xsync.Mutex

	*astikit.Closer
	formatContext *astiav.FormatContext
	stream        *astiav.Stream
	encoder       *Encoder
	scaler        *astiav.SoftwareScaleContext
	srcFrame      *astiav.Frame
	dstFrame      *astiav.Frame
	packet        *astiav.Packet
	nextPTS       int64
	closed        bool

	stats videoWriterStatistics
}

var _ svoexport.VideoSink = (*VideoWriter)(nil)

func NewVideoWriter(
	ctx context.Context,
	path string,
	cfg VideoWriterConfig,
) (_ret *VideoWriter, _err error) {
	logger.Debugf(ctx, "NewVideoWriter(ctx, '%s', %#+v)", path, cfg)
	defer func() { logger.Debugf(ctx, "/NewVideoWriter(ctx, '%s', %#+v): %v", path, cfg, _err) }()

	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	case cfg.Width%2 != 0 || cfg.Height%2 != 0:
		return nil, fmt.Errorf("the frame size %dx%d is not divisible by 2", cfg.Width, cfg.Height)
	case cfg.FrameRate <= 0:
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FrameRate)
	}

	w := &VideoWriter{
		Path:   path,
		Config: cfg,
		Closer: astikit.NewCloser(),
	}
	fileCreated := false
	defer func() {
		if _err == nil {
			return
		}
		if err := w.Closer.Close(); err != nil {
			logger.Errorf(ctx, "unable to release the resources: %v", err)
		}
		if fileCreated {
			if err := os.Remove(path); err != nil {
				logger.Errorf(ctx, "unable to remove the incomplete file '%s': %v", path, err)
			}
		}
	}()

	formatContext, err := astiav.AllocOutputFormatContext(nil, "avi", path)
	if err != nil {
		return nil, fmt.Errorf("allocating output format context failed using path '%s': %w", path, err)
	}
	if formatContext == nil {
		return nil, fmt.Errorf("unable to allocate the output format context")
	}
	w.formatContext = formatContext
	w.Closer.Add(w.formatContext.Free)

	w.encoder, err = newMPEG4Encoder(ctx, encoderConfig{
		Width:        cfg.Width,
		Height:       cfg.Height,
		FrameRate:    cfg.FrameRate,
		GlobalHeader: w.formatContext.OutputFormat().Flags().Has(astiav.IOFormatFlagGlobalheader),
		Options:      cfg.EncoderOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the encoder: %w", err)
	}
	w.Closer.AddWithError(w.encoder.Close)
	codecContext := w.encoder.CodecContext()

	w.stream = w.formatContext.NewStream(nil)
	if w.stream == nil {
		return nil, fmt.Errorf("unable to initialize an output stream")
	}
	if err := w.stream.CodecParameters().FromCodecContext(codecContext); err != nil {
		return nil, fmt.Errorf("unable to copy the codec parameters: %w", err)
	}
	w.stream.CodecParameters().SetCodecTag(CodecTagM4S2)
	w.stream.SetTimeBase(codecContext.TimeBase())
	logger.Tracef(ctx, "resulting output stream: %s", spew.Sdump(w.stream.CodecParameters()))

	w.scaler, err = astiav.CreateSoftwareScaleContext(
		cfg.Width, cfg.Height, astiav.PixelFormatBgr24,
		cfg.Width, cfg.Height, astiav.PixelFormatYuv420P,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create the pixel format converter: %w", err)
	}
	w.Closer.Add(w.scaler.Free)

	w.srcFrame, err = allocFrame(cfg.Width, cfg.Height, astiav.PixelFormatBgr24)
	if err != nil {
		return nil, fmt.Errorf("unable to allocate the source frame: %w", err)
	}
	w.Closer.Add(w.srcFrame.Free)

	w.dstFrame, err = allocFrame(cfg.Width, cfg.Height, astiav.PixelFormatYuv420P)
	if err != nil {
		return nil, fmt.Errorf("unable to allocate the encoder frame: %w", err)
	}
	w.Closer.Add(w.dstFrame.Free)

	w.packet = astiav.AllocPacket()
	w.Closer.Add(w.packet.Free)

	ioContext, err := astiav.OpenIOContext(
		path,
		astiav.NewIOContextFlags(astiav.IOContextFlagWrite),
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to open IO context (path: '%s'): %w", path, err)
	}
	fileCreated = true
	w.Closer.Add(func() {
		if err := ioContext.Close(); err != nil {
			logger.Errorf(ctx, "unable to close the IO context (path: %s): %v", path, err)
		}
	})
	w.formatContext.SetPb(ioContext)

	if err := w.formatContext.WriteHeader(nil); err != nil {
		return nil, fmt.Errorf("unable to write the header: %w", err)
	}

	return w, nil
}

func allocFrame(
	width, height int,
	pixelFormat astiav.PixelFormat,
) (*astiav.Frame, error) {
	f := astiav.AllocFrame()
	f.SetWidth(width)
	f.SetHeight(height)
	f.SetPixelFormat(pixelFormat)
	if err := f.AllocBuffer(0); err != nil {
		f.Free()
		return nil, err
	}
	return f, nil
}

func (w *VideoWriter) WriteFrame(
	ctx context.Context,
	img *frame.BGR,
) error {
	return xsync.DoA2R1(ctx, &w.Locker, w.writeFrame, ctx, img)
}

func (w *VideoWriter) writeFrame(
	ctx context.Context,
	img *frame.BGR,
) (_err error) {
	logger.Tracef(ctx, "writeFrame(ctx, pts:%d)", w.nextPTS)
	defer func() { logger.Tracef(ctx, "/writeFrame(ctx, pts:%d): %v", w.nextPTS, _err) }()

	if w.closed {
		return fmt.Errorf("the writer is closed")
	}
	if img.Width != w.Config.Width || img.Height != w.Config.Height {
		return fmt.Errorf("unexpected frame size %dx%d, expected %dx%d", img.Width, img.Height, w.Config.Width, w.Config.Height)
	}

	if err := w.srcFrame.MakeWritable(); err != nil {
		return fmt.Errorf("unable to make the source frame writable: %w", err)
	}
	if err := w.srcFrame.Data().SetBytes(packedBGR(img), 1); err != nil {
		return fmt.Errorf("unable to fill the source frame: %w", err)
	}
	if err := w.dstFrame.MakeWritable(); err != nil {
		return fmt.Errorf("unable to make the encoder frame writable: %w", err)
	}
	if err := w.scaler.ScaleFrame(w.srcFrame, w.dstFrame); err != nil {
		return fmt.Errorf("unable to convert the pixel format: %w", err)
	}
	w.dstFrame.SetPts(w.nextPTS)

	if err := w.encoder.CodecContext().SendFrame(w.dstFrame); err != nil {
		return fmt.Errorf("unable to send the frame to the encoder: %w", err)
	}
	// only frames accepted by the encoder consume a timestamp
	w.nextPTS++
	w.stats.FramesWrote.Add(1)
	return w.drainPackets(ctx)
}

// packedBGR returns the pixels without row padding.
func packedBGR(img *frame.BGR) []byte {
	rowLen := img.Width * 3
	if img.Stride == rowLen {
		return img.Pix[:rowLen*img.Height]
	}
	out := make([]byte, 0, rowLen*img.Height)
	for y := 0; y < img.Height; y++ {
		out = append(out, img.Row(y)...)
	}
	return out
}

func (w *VideoWriter) drainPackets(
	ctx context.Context,
) error {
	codecContext := w.encoder.CodecContext()
	for {
		err := codecContext.ReceivePacket(w.packet)
		switch {
		case err == nil:
		case errors.Is(err, astiav.ErrEagain), errors.Is(err, astiav.ErrEof):
			return nil
		default:
			return fmt.Errorf("unable to receive a packet from the encoder: %w", err)
		}

		w.packet.RescaleTs(codecContext.TimeBase(), w.stream.TimeBase())
		w.packet.SetStreamIndex(w.stream.Index())
		size := w.packet.Size()
		err = w.formatContext.WriteInterleavedFrame(w.packet)
		w.packet.Unref()
		if err != nil {
			return fmt.Errorf("unable to write the packet: %w", err)
		}
		w.stats.PacketsWrote.Add(1)
		w.stats.BytesWrote.Add(uint64(size))
	}
}

func (w *VideoWriter) GetStats() VideoWriterStatistics {
	return w.stats.Convert()
}

// Close flushes the encoder, writes the trailer and releases the
// resources. Repeated calls are no-ops.
func (w *VideoWriter) Close() error {
	ctx := context.TODO()
	return xsync.DoA1R1(ctx, &w.Locker, w.close, ctx)
}

func (w *VideoWriter) close(
	ctx context.Context,
) (_err error) {
	logger.Debugf(ctx, "close('%s')", w.Path)
	defer func() { logger.Debugf(ctx, "/close('%s'): %v", w.Path, _err) }()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if err := w.encoder.CodecContext().SendFrame(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
		errs = append(errs, fmt.Errorf("unable to flush the encoder: %w", err))
	} else if err := w.drainPackets(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := w.formatContext.WriteTrailer(); err != nil {
		errs = append(errs, fmt.Errorf("unable to write the trailer: %w", err))
	}
	if err := w.Closer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("unable to release the resources: %w", err))
	}

	stats := w.stats.Convert()
	internal.Assert(ctx, uint64(w.nextPTS) == stats.FramesWrote, w.nextPTS, stats.FramesWrote)
	logger.Debugf(ctx, "'%s': frames: %d, packets: %d, bytes: %d", w.Path, stats.FramesWrote, stats.PacketsWrote, stats.BytesWrote)
	return errors.Join(errs...)
}
