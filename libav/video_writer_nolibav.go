//go:build !with_libav
// +build !with_libav

package libav

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/frame"
)

type VideoWriter struct{}

var _ svoexport.VideoSink = (*VideoWriter)(nil)

func NewVideoWriter(
	ctx context.Context,
	path string,
	cfg VideoWriterConfig,
) (*VideoWriter, error) {
	return nil, fmt.Errorf("not compiled with libav support")
}

func (*VideoWriter) WriteFrame(context.Context, *frame.BGR) error {
	return fmt.Errorf("not compiled with libav support")
}

func (*VideoWriter) GetStats() VideoWriterStatistics {
	return VideoWriterStatistics{}
}

func (*VideoWriter) Close() error {
	return nil
}
