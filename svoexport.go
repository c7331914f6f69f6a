package svoexport

import (
	"context"
	"io"

	"github.com/xaionaro-go/svoexport/frame"
)

// RecordingInfo describes an opened recording. All the values are fixed
// at open time.
type RecordingInfo struct {
	FrameCount int
	Width      int
	Height     int

	// FrameRate is the nominal frame rate; zero means unknown.
	FrameRate float64
}

// Source is an opened stereo recording. It is a single-cursor resource:
// it must not be used concurrently.
type Source interface {
	io.Closer

	Info() RecordingInfo
	Seek(ctx context.Context, frameIndex int) error

	// Grab decodes the next frame. At the end of the recording it returns
	// an error wrapping ErrEndOfStream.
	Grab(ctx context.Context) error

	// Position is the index of the last grabbed frame.
	Position() int

	RetrieveImage(ctx context.Context, view View, dst *frame.BGRA) error
	RetrieveDepth(ctx context.Context, dst *frame.Depth) error
}

type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}

type OpenerFunc func(ctx context.Context, path string) (Source, error)

func (fn OpenerFunc) Open(ctx context.Context, path string) (Source, error) {
	return fn(ctx, path)
}

// VideoSink is a single growing video container.
type VideoSink interface {
	io.Closer
	WriteFrame(ctx context.Context, img *frame.BGR) error
}

type VideoSinkConfig struct {
	Width     int
	Height    int
	FrameRate int
}

// ImageSink writes every frame as a set of standalone image files.
type ImageSink interface {
	io.Closer
	WriteFrame(ctx context.Context, frameIndex int, images ...frame.Named) error
}

type SinkFactory interface {
	NewVideoSink(ctx context.Context, path string, cfg VideoSinkConfig) (VideoSink, error)
	NewImageSink(ctx context.Context, dir string) (ImageSink, error)
}
