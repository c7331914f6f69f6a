//go:build with_libav
// +build with_libav

package libav

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// ProbeVideo reads the whole file and describes its first video stream.
func ProbeVideo(
	ctx context.Context,
	path string,
) (_ret *VideoInfo, _err error) {
	logger.Debugf(ctx, "ProbeVideo(ctx, '%s')", path)
	defer func() { logger.Debugf(ctx, "/ProbeVideo(ctx, '%s'): %#+v, %v", path, _ret, _err) }()

	closer := astikit.NewCloser()
	defer closer.Close()

	formatContext := astiav.AllocFormatContext()
	if formatContext == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	closer.Add(formatContext.Free)

	if err := formatContext.OpenInput(path, nil, nil); err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	closer.Add(formatContext.CloseInput)

	if err := formatContext.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("unable to get stream info: %w", err)
	}

	var stream *astiav.Stream
	for _, s := range formatContext.Streams() {
		if s.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			stream = s
			break
		}
	}
	if stream == nil {
		return nil, fmt.Errorf("no video stream in '%s'", path)
	}

	params := stream.CodecParameters()
	info := &VideoInfo{
		CodecName: params.CodecID().Name(),
		CodecTag:  uint32(params.CodecTag()),
		Width:     params.Width(),
		Height:    params.Height(),
		FrameRate: stream.AvgFrameRate().Float64(),
	}

	packet := astiav.AllocPacket()
	closer.Add(packet.Free)
	for {
		err := formatContext.ReadFrame(packet)
		switch {
		case err == nil:
		case errors.Is(err, astiav.ErrEof):
			return info, nil
		default:
			return nil, fmt.Errorf("unable to read a packet: %w", err)
		}
		if packet.StreamIndex() == stream.Index() {
			info.PacketCount++
		}
		packet.Unref()
	}
}
