package svoexport

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/xsync"
)

type Progress struct {
	Processed int
	Total     int
}

// Percent is the share of processed frames, rounded down, within 0-100.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	percent := p.Processed * 100 / p.Total
	return min(max(percent, 0), 100)
}

// ProgressReporter is the side channel an export reports to. It is
// called from the export loop only, never concurrently.
type ProgressReporter interface {
	ReportProgress(ctx context.Context, p Progress)
	ReportMessage(ctx context.Context, msg string)
}

type noopProgressReporter struct{}

func (noopProgressReporter) ReportProgress(context.Context, Progress) {}
func (noopProgressReporter) ReportMessage(context.Context, string)    {}

const DefaultProgressBarLength = 30

// ProgressLineWriter writes one "[===---] 42%" line per change of the
// percentage, and informational messages as plain lines.
type ProgressLineWriter struct {
	Writer    io.Writer
	BarLength int

	locker      xsync.Mutex
	lastPercent int
}

var _ ProgressReporter = (*ProgressLineWriter)(nil)

func NewProgressLineWriter(w io.Writer) *ProgressLineWriter {
	return &ProgressLineWriter{
		Writer:      w,
		BarLength:   DefaultProgressBarLength,
		lastPercent: -1,
	}
}

func (w *ProgressLineWriter) ReportProgress(ctx context.Context, p Progress) {
	w.locker.Do(ctx, func() {
		percent := p.Percent()
		if percent == w.lastPercent {
			return
		}
		w.lastPercent = percent
		w.writeLine(ctx, FormatProgressLine(percent, w.BarLength))
	})
}

func (w *ProgressLineWriter) ReportMessage(ctx context.Context, msg string) {
	w.locker.Do(ctx, func() {
		w.writeLine(ctx, msg)
	})
}

func (w *ProgressLineWriter) writeLine(ctx context.Context, line string) {
	if _, err := fmt.Fprintln(w.Writer, line); err != nil {
		logger.Errorf(ctx, "unable to write the progress line '%s': %v", line, err)
	}
}

// FormatProgressLine renders the bar: barLength characters of '=' for
// the done part and '-' for the rest, followed by the percentage.
func FormatProgressLine(percent int, barLength int) string {
	percent = min(max(percent, 0), 100)
	done := barLength * percent / 100
	return "[" + strings.Repeat("=", done) + strings.Repeat("-", barLength-done) + "] " + strconv.Itoa(percent) + "%"
}

var progressRegexp = regexp.MustCompile(`(\d+)%\s*$`)

// ParseProgressLine extracts the percentage from a progress line. It is
// the counterpart consumers of the output stream use.
func ParseProgressLine(line string) (int, bool) {
	m := progressRegexp.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return 0, false
	}
	percent, err := strconv.Atoi(m[1])
	if err != nil || percent > 100 {
		return 0, false
	}
	return percent, true
}
