package internal

import (
	"context"
	"runtime"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// SetFinalizerClose closes obj when it becomes unreachable, for the
// handles of native resources that were not closed explicitly.
func SetFinalizerClose[T any](
	ctx context.Context,
	obj *T,
	closeFn func(*T) error,
) {
	runtime.SetFinalizer(obj, func(obj *T) {
		logger.Debugf(ctx, "closing a leaked %T", obj)
		if err := closeFn(obj); err != nil {
			logger.Errorf(ctx, "unable to close a leaked %T: %v", obj, err)
		}
	})
}
