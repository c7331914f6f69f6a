//go:build !with_zed
// +build !with_zed

package zed

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/frame"
)

type Session struct{}

var _ svoexport.Source = (*Session)(nil)

func Open(ctx context.Context, path string) (*Session, error) {
	return nil, fmt.Errorf("%w: not compiled with ZED SDK support", svoexport.ErrOpen)
}

func (*Session) Info() svoexport.RecordingInfo { return svoexport.RecordingInfo{} }

func (*Session) Seek(context.Context, int) error {
	return fmt.Errorf("not compiled with ZED SDK support")
}

func (*Session) Grab(context.Context) error {
	return fmt.Errorf("not compiled with ZED SDK support")
}

func (*Session) Position() int { return -1 }

func (*Session) RetrieveImage(context.Context, svoexport.View, *frame.BGRA) error {
	return fmt.Errorf("not compiled with ZED SDK support")
}

func (*Session) RetrieveDepth(context.Context, *frame.Depth) error {
	return fmt.Errorf("not compiled with ZED SDK support")
}

func (*Session) Close() error { return nil }
