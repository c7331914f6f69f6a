// Package fake provides deterministic in-memory recordings and sinks
// for tests.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/frame"
)

type SourceConfig struct {
	svoexport.RecordingInfo

	// Available is the number of frames that can actually be grabbed;
	// zero means FrameCount. A smaller value simulates a recording
	// that ends earlier than it advertises.
	Available int

	// GrabErrors makes Grab fail on the given frame indexes.
	GrabErrors map[int]error

	// OnGrab is called after every successful grab.
	OnGrab func(frameIndex int)
}

// Source is a recording whose pixels are a function of the frame index,
// so two exports of the same range produce identical output.
type Source struct {
	Config SourceConfig

	locker     sync.Mutex
	next       int
	position   int
	grabbed    bool
	closeCount int
	seeks      []int
}

var _ svoexport.Source = (*Source)(nil)

func NewSource(cfg SourceConfig) *Source {
	return &Source{
		Config:   cfg,
		position: -1,
	}
}

func (s *Source) Info() svoexport.RecordingInfo {
	return s.Config.RecordingInfo
}

func (s *Source) Seek(_ context.Context, frameIndex int) error {
	s.locker.Lock()
	defer s.locker.Unlock()
	if frameIndex < 0 || frameIndex >= s.Config.FrameCount {
		return fmt.Errorf("frame %d is out of range", frameIndex)
	}
	s.next = frameIndex
	s.seeks = append(s.seeks, frameIndex)
	return nil
}

func (s *Source) Grab(_ context.Context) error {
	s.locker.Lock()
	available := s.Config.Available
	if available == 0 {
		available = s.Config.FrameCount
	}
	idx := s.next
	if s.closeCount > 0 {
		s.locker.Unlock()
		return fmt.Errorf("the source is closed")
	}
	if idx >= available {
		s.locker.Unlock()
		return fmt.Errorf("frame %d: %w", idx, svoexport.ErrEndOfStream)
	}
	if err := s.Config.GrabErrors[idx]; err != nil {
		s.locker.Unlock()
		return err
	}
	s.position = idx
	s.grabbed = true
	s.next++
	s.locker.Unlock()

	if s.Config.OnGrab != nil {
		s.Config.OnGrab(idx)
	}
	return nil
}

func (s *Source) Position() int {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.position
}

// PixelValue is the value of every byte of the given view at the frame.
func PixelValue(view svoexport.View, frameIndex int) byte {
	return byte(frameIndex*3 + int(view))
}

// DepthValue is the depth measure of the pixel at the frame.
func DepthValue(frameIndex, x, y int) float32 {
	return float32(frameIndex*1000+x*7+y) + 0.75
}

func (s *Source) RetrieveImage(_ context.Context, view svoexport.View, dst *frame.BGRA) error {
	s.locker.Lock()
	defer s.locker.Unlock()
	if !s.grabbed {
		return fmt.Errorf("no frame was grabbed")
	}
	if dst.Width != s.Config.Width || dst.Height != s.Config.Height {
		return fmt.Errorf("unexpected buffer size %dx%d", dst.Width, dst.Height)
	}
	v := PixelValue(view, s.position)
	for i := range dst.Pix {
		dst.Pix[i] = v
	}
	return nil
}

func (s *Source) RetrieveDepth(_ context.Context, dst *frame.Depth) error {
	s.locker.Lock()
	defer s.locker.Unlock()
	if !s.grabbed {
		return fmt.Errorf("no frame was grabbed")
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			dst.Data[y*dst.Width+x] = DepthValue(s.position, x, y)
		}
	}
	return nil
}

func (s *Source) Close() error {
	s.locker.Lock()
	defer s.locker.Unlock()
	s.closeCount++
	return nil
}

func (s *Source) CloseCount() int {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.closeCount
}

func (s *Source) Seeks() []int {
	s.locker.Lock()
	defer s.locker.Unlock()
	return append([]int(nil), s.seeks...)
}

// Opener returns the source for any path.
func Opener(src *Source) svoexport.Opener {
	return svoexport.OpenerFunc(func(context.Context, string) (svoexport.Source, error) {
		return src, nil
	})
}
