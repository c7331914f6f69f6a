//go:build with_libav
// +build with_libav

package libav

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/frame"
)

func TestVideoWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.avi")

	sink, err := NewFactory(nil).NewVideoSink(ctx, path, svoexport.VideoSinkConfig{
		Width:     64,
		Height:    32,
		FrameRate: 25,
	})
	require.NoError(t, err)

	img := frame.NewBGR(64, 32)
	for i := 0; i < 30; i++ {
		for j := range img.Pix {
			img.Pix[j] = byte(i * 5)
		}
		require.NoError(t, sink.WriteFrame(ctx, img))
	}
	require.Error(t, sink.WriteFrame(ctx, frame.NewBGR(32, 32)))

	w := sink.(*VideoWriter)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.Equal(t, uint64(30), w.GetStats().FramesWrote)
	require.NotZero(t, w.GetStats().BytesWrote)

	info, err := ProbeVideo(ctx, path)
	require.NoError(t, err)
	require.Equal(t, astiav.CodecIDMpeg4.Name(), info.CodecName)
	require.Equal(t, uint32(CodecTagM4S2), info.CodecTag)
	require.Equal(t, 64, info.Width)
	require.Equal(t, 32, info.Height)
	require.InDelta(t, 25, info.FrameRate, 0.01)
	require.Equal(t, 30, info.PacketCount)
}

func TestVideoWriterRejectsOddSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.avi")
	_, err := NewVideoWriter(context.Background(), path, VideoWriterConfig{
		Width:     63,
		Height:    32,
		FrameRate: 25,
	})
	require.Error(t, err)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestVideoWriterCloseAfterEncoderRejection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.avi")

	w, err := NewVideoWriter(ctx, path, VideoWriterConfig{
		Width:     64,
		Height:    32,
		FrameRate: 25,
	})
	require.NoError(t, err)

	img := frame.NewBGR(64, 32)
	require.NoError(t, w.WriteFrame(ctx, img))

	// an encoder in the draining state refuses new frames
	require.NoError(t, w.encoder.CodecContext().SendFrame(nil))
	require.Error(t, w.WriteFrame(ctx, img))

	require.NotPanics(t, func() {
		_ = w.Close()
	})
	require.Equal(t, uint64(1), w.GetStats().FramesWrote)
	require.Equal(t, int64(1), w.nextPTS)
}
