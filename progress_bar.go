package svoexport

import (
	"context"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar is an interactive terminal rendering of the progress, for
// humans. Use ProgressLineWriter when the output is parsed.
type ProgressBar struct {
	Writer      io.Writer
	Description string

	bar *progressbar.ProgressBar
}

var _ ProgressReporter = (*ProgressBar)(nil)

func NewProgressBar(w io.Writer, description string) *ProgressBar {
	return &ProgressBar{
		Writer:      w,
		Description: description,
	}
}

func (b *ProgressBar) ReportProgress(ctx context.Context, p Progress) {
	if b.bar == nil || b.bar.IsFinished() || b.bar.GetMax() != p.Total {
		b.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(b.Writer),
			progressbar.OptionSetDescription(b.Description),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: "-",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionSetWidth(DefaultProgressBarLength),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	if err := b.bar.Set(p.Processed); err != nil {
		logger.Debugf(ctx, "unable to update the progress bar: %v", err)
	}
	if p.Processed >= p.Total {
		if err := b.bar.Finish(); err != nil {
			logger.Debugf(ctx, "unable to finish the progress bar: %v", err)
		}
	}
}

func (b *ProgressBar) ReportMessage(ctx context.Context, msg string) {
	if b.bar != nil {
		_ = b.bar.Clear()
	}
	if _, err := fmt.Fprintln(b.Writer, msg); err != nil {
		logger.Errorf(ctx, "unable to write the message '%s': %v", msg, err)
	}
}
