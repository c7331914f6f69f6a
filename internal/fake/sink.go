package fake

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/frame"
	"github.com/xaionaro-go/svoexport/imageseq"
)

// VideoSink records the frames written to it. It creates the output
// file on open, so tests can check whether an artifact was produced.
type VideoSink struct {
	Path   string
	Config svoexport.VideoSinkConfig

	// FailWriteAt makes the n-th WriteFrame call (0-based) fail.
	FailWriteAt int
	CloseErr    error

	locker     sync.Mutex
	frames     []frame.BGR
	closeCount int
}

var _ svoexport.VideoSink = (*VideoSink)(nil)

func (s *VideoSink) WriteFrame(_ context.Context, img *frame.BGR) error {
	s.locker.Lock()
	defer s.locker.Unlock()
	if s.closeCount > 0 {
		return fmt.Errorf("the sink is closed")
	}
	if s.FailWriteAt >= 0 && len(s.frames) == s.FailWriteAt {
		return fmt.Errorf("injected write failure")
	}
	if img.Width != s.Config.Width || img.Height != s.Config.Height {
		return fmt.Errorf("unexpected frame size %dx%d", img.Width, img.Height)
	}
	cpy := *img
	cpy.Pix = append([]byte(nil), img.Pix...)
	s.frames = append(s.frames, cpy)
	return nil
}

func (s *VideoSink) Close() error {
	s.locker.Lock()
	defer s.locker.Unlock()
	s.closeCount++
	return s.CloseErr
}

func (s *VideoSink) Frames() []frame.BGR {
	s.locker.Lock()
	defer s.locker.Unlock()
	return append([]frame.BGR(nil), s.frames...)
}

func (s *VideoSink) CloseCount() int {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.closeCount
}

// Sinks opens fake video sinks and real image sequence sinks.
type Sinks struct {
	VideoOpenErr    error
	VideoFailWrite  int
	VideoCloseErr   error
	ImageOpenErr    error
	ImageSinkOpened bool

	Video *VideoSink
}

var _ svoexport.SinkFactory = (*Sinks)(nil)

func NewSinks() *Sinks {
	return &Sinks{VideoFailWrite: -1}
}

func (s *Sinks) NewVideoSink(
	_ context.Context,
	path string,
	cfg svoexport.VideoSinkConfig,
) (svoexport.VideoSink, error) {
	if s.VideoOpenErr != nil {
		return nil, s.VideoOpenErr
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, err
	}
	s.Video = &VideoSink{
		Path:        path,
		Config:      cfg,
		FailWriteAt: s.VideoFailWrite,
		CloseErr:    s.VideoCloseErr,
	}
	return s.Video, nil
}

func (s *Sinks) NewImageSink(
	_ context.Context,
	dir string,
) (svoexport.ImageSink, error) {
	if s.ImageOpenErr != nil {
		return nil, s.ImageOpenErr
	}
	sink, err := imageseq.New(dir)
	if err != nil {
		return nil, err
	}
	s.ImageSinkOpened = true
	return sink, nil
}
