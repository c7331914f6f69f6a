package svoexport

import (
	"context"
	"fmt"
	"time"
)

// EndOfRecording is the requested end frame meaning "up to the last frame".
const EndOfRecording = -1

// FrameRange is a half-open interval [Start, End) of frame indexes.
type FrameRange struct {
	Start int
	End   int
}

func (r FrameRange) Len() int {
	return r.End - r.Start
}

func (r FrameRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// ResolveRange validates the requested range against the recording
// length and clamps the end to it.
func ResolveRange(
	requestedStart int,
	requestedEnd int,
	frameCount int,
) (FrameRange, error) {
	if requestedStart < 0 || requestedStart >= frameCount {
		return FrameRange{}, fmt.Errorf("%w: the start frame (%d) is out of the recording bounds (0-%d)", ErrRange, requestedStart, frameCount-1)
	}

	end := frameCount
	if requestedEnd != EndOfRecording {
		end = min(requestedEnd, frameCount)
	}

	if end <= requestedStart {
		return FrameRange{}, fmt.Errorf("%w: the end frame (%d) must be greater than the start frame (%d)", ErrRange, end, requestedStart)
	}

	return FrameRange{Start: requestedStart, End: end}, nil
}

// ResolveAndSeek resolves the range and positions the source at its
// start, so the next Grab returns the first frame of the range.
func ResolveAndSeek(
	ctx context.Context,
	src Source,
	requestedStart int,
	requestedEnd int,
) (FrameRange, error) {
	r, err := ResolveRange(requestedStart, requestedEnd, src.Info().FrameCount)
	if err != nil {
		return FrameRange{}, err
	}
	if err := src.Seek(ctx, r.Start); err != nil {
		return FrameRange{}, fmt.Errorf("%w: unable to seek to frame %d: %w", ErrRange, r.Start, err)
	}
	return r, nil
}

// VideoFrameRate is the frame rate the video output is written with:
// the nominal one, but never less than 25.
func VideoFrameRate(nominal float64) int {
	return max(int(nominal), 25)
}

// DefaultDisplayFrameRate is assumed for time labels when the recording
// does not report a frame rate.
const DefaultDisplayFrameRate = 30

// FrameTime is the offset of the frame from the beginning of the recording.
func FrameTime(frameIndex int, frameRate float64) time.Duration {
	if frameRate <= 0 {
		frameRate = DefaultDisplayFrameRate
	}
	return time.Duration(float64(frameIndex) / frameRate * float64(time.Second))
}

// FormatTimecode formats the duration as HH:MM:SS.
func FormatTimecode(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
