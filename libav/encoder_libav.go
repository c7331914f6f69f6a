//go:build with_libav
// +build with_libav

package libav

import (
	"context"
	"fmt"
	"math"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// CodecTagM4S2 is the AVI FourCC the MPEG-4 part 2 stream is tagged with.
var CodecTagM4S2 = fourCC('M', '4', 'S', '2')

func fourCC(a, b, c, d byte) astiav.CodecTag {
	return astiav.CodecTag(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

const gopSize = 12

type Encoder struct {
	codec        *astiav.Codec
	codecContext *astiav.CodecContext
	closer       astikit.Closer
}

func (e *Encoder) CodecContext() *astiav.CodecContext {
	return e.codecContext
}

func (e *Encoder) Close() error {
	return e.closer.Close()
}

type encoderConfig struct {
	Width        int
	Height       int
	FrameRate    int
	GlobalHeader bool
	Options      DictionaryItems
}

// defaultBitRate is one bit per pixel per frame, capped to what the
// encoder accepts.
func defaultBitRate(width, height, frameRate int) int64 {
	return min(int64(width)*int64(height)*int64(frameRate), math.MaxInt32/2)
}

func newMPEG4Encoder(
	ctx context.Context,
	cfg encoderConfig,
) (_ret *Encoder, _err error) {
	logger.Debugf(ctx, "newMPEG4Encoder(ctx, %#+v)", cfg)
	defer func() { logger.Debugf(ctx, "/newMPEG4Encoder(ctx, %#+v): %v", cfg, _err) }()

	e := &Encoder{}
	defer func() {
		if _err != nil {
			_ = e.Close()
		}
	}()

	e.codec = astiav.FindEncoder(astiav.CodecIDMpeg4)
	if e.codec == nil {
		return nil, fmt.Errorf("unable to find an MPEG-4 part 2 encoder")
	}

	e.codecContext = astiav.AllocCodecContext(e.codec)
	if e.codecContext == nil {
		return nil, fmt.Errorf("unable to allocate codec context")
	}
	e.closer.Add(e.codecContext.Free)

	e.codecContext.SetWidth(cfg.Width)
	e.codecContext.SetHeight(cfg.Height)
	e.codecContext.SetPixelFormat(astiav.PixelFormatYuv420P)
	e.codecContext.SetTimeBase(astiav.NewRational(1, cfg.FrameRate))
	e.codecContext.SetFramerate(astiav.NewRational(cfg.FrameRate, 1))
	e.codecContext.SetGopSize(gopSize)
	e.codecContext.SetBitRate(defaultBitRate(cfg.Width, cfg.Height, cfg.FrameRate))
	if cfg.GlobalHeader {
		e.codecContext.SetFlags(e.codecContext.Flags().Add(astiav.CodecContextFlagGlobalHeader))
	}

	options, err := cfg.Options.dictionary()
	if err != nil {
		return nil, fmt.Errorf("unable to build the encoder options: %w", err)
	}
	if options != nil {
		defer options.Free()
	}

	if err := e.codecContext.Open(e.codec, options); err != nil {
		return nil, fmt.Errorf("unable to open codec context: %w", err)
	}

	return e, nil
}

func (items DictionaryItems) dictionary() (*astiav.Dictionary, error) {
	if len(items) == 0 {
		return nil, nil
	}
	d := astiav.NewDictionary()
	for _, item := range items {
		if err := d.Set(item.Key, item.Value, 0); err != nil {
			d.Free()
			return nil, fmt.Errorf("unable to set '%s' to '%s': %w", item.Key, item.Value, err)
		}
	}
	return d, nil
}
