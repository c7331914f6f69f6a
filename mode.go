package svoexport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type View uint

const (
	ViewUndefined = View(iota)
	ViewLeft
	ViewRight
	ViewDepth
	ViewDepthMeasure
)

func (v View) String() string {
	switch v {
	case ViewUndefined:
		return "<undefined>"
	case ViewLeft:
		return "left"
	case ViewRight:
		return "right"
	case ViewDepth:
		return "depth"
	case ViewDepthMeasure:
		return "depth_measure"
	}
	return fmt.Sprintf("unexpected_view_%d", uint(v))
}

// FilePrefix is the prefix of the image files the view is written to.
func (v View) FilePrefix() string {
	switch v {
	case ViewDepth, ViewDepthMeasure:
		return "depth"
	default:
		return v.String()
	}
}

type SinkKind uint

const (
	SinkKindUndefined = SinkKind(iota)
	SinkKindVideo
	SinkKindImages
)

func (k SinkKind) String() string {
	switch k {
	case SinkKindUndefined:
		return "<undefined>"
	case SinkKindVideo:
		return "video"
	case SinkKindImages:
		return "images"
	}
	return fmt.Sprintf("unexpected_sink_kind_%d", uint(k))
}

// Mode selects which pair of views is exported and where to.
// The numeric values are part of the command line interface.
type Mode uint

const (
	ModeLeftRightVideo = Mode(iota)
	ModeLeftDepthViewVideo
	ModeLeftRightImages
	ModeLeftDepthViewImages
	ModeLeftDepth16Images
	EndOfMode
)

var _ pflag.Value = (*Mode)(nil)

func (m Mode) IsValid() bool {
	return m < EndOfMode
}

// SecondaryView is the view exported next to the left one.
func (m Mode) SecondaryView() View {
	switch m {
	case ModeLeftRightVideo, ModeLeftRightImages:
		return ViewRight
	case ModeLeftDepthViewVideo, ModeLeftDepthViewImages:
		return ViewDepth
	case ModeLeftDepth16Images:
		return ViewDepthMeasure
	}
	return ViewUndefined
}

func (m Mode) SinkKind() SinkKind {
	switch m {
	case ModeLeftRightVideo, ModeLeftDepthViewVideo:
		return SinkKindVideo
	case ModeLeftRightImages, ModeLeftDepthViewImages, ModeLeftDepth16Images:
		return SinkKindImages
	}
	return SinkKindUndefined
}

func (m Mode) String() string {
	switch m {
	case ModeLeftRightVideo:
		return "left_right_avi"
	case ModeLeftDepthViewVideo:
		return "left_depth_view_avi"
	case ModeLeftRightImages:
		return "left_right_png"
	case ModeLeftDepthViewImages:
		return "left_depth_view_png"
	case ModeLeftDepth16Images:
		return "left_depth16_png"
	}
	return fmt.Sprintf("unexpected_mode_%d", uint(m))
}

// Description is the human-readable explanation used in the CLI help.
func (m Mode) Description() string {
	switch m {
	case ModeLeftRightVideo:
		return "LEFT+RIGHT AVI"
	case ModeLeftDepthViewVideo:
		return "LEFT+DEPTH_VIEW AVI"
	case ModeLeftRightImages:
		return "LEFT+RIGHT image sequence"
	case ModeLeftDepthViewImages:
		return "LEFT+DEPTH_VIEW image sequence"
	case ModeLeftDepth16Images:
		return "LEFT+DEPTH_16BIT image sequence"
	}
	return m.String()
}

func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		m := Mode(n)
		if !m.IsValid() {
			return 0, fmt.Errorf("mode should be between 0 and %d included, got %d", EndOfMode-1, n)
		}
		return m, nil
	}
	for cmp := Mode(0); cmp < EndOfMode; cmp++ {
		if cmp.String() == s {
			return cmp, nil
		}
	}
	return 0, fmt.Errorf("unknown value of the Mode: '%s'", s)
}

func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m *Mode) Type() string {
	return "mode"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	if m == nil {
		return fmt.Errorf("Mode is nil")
	}
	return m.Set(string(b))
}

func (m *Mode) UnmarshalJSON(b []byte) error {
	return m.UnmarshalText([]byte(strings.Trim(string(b), `"`)))
}
