// Package cli contains the plumbing shared by the command line tools.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/svoexport"
)

// InitLogger returns a context carrying a logrus logger of the given
// level, which also becomes the default logger.
func InitLogger(ctx context.Context, level logger.Level) context.Context {
	l := logrus.Default().WithLevel(level)
	logger.Default = func() logger.Logger {
		return l
	}
	return logger.CtxWithLogger(ctx, l)
}

// CancelOnSignal cancels the returned context on SIGINT or SIGTERM.
func CancelOnSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelFn := context.WithCancel(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	observability.Go(ctx, func(ctx context.Context) {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
		case sig := <-ch:
			logger.Debugf(ctx, "received signal %v", sig)
			cancelFn()
		}
	})
	return ctx, cancelFn
}

func NewProgressReporter(
	style svoexport.ProgressStyle,
	w io.Writer,
) (svoexport.ProgressReporter, error) {
	switch style {
	case svoexport.ProgressStyleLine:
		return svoexport.NewProgressLineWriter(w), nil
	case svoexport.ProgressStyleBar:
		return svoexport.NewProgressBar(w, "converting"), nil
	default:
		return nil, fmt.Errorf("%w: unknown progress style '%s'", svoexport.ErrInvalidArgument, style)
	}
}
