// Package internal contains helpers shared by the packages of the module.
package internal

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Assert panics through the logger of ctx when an invariant is broken.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}
	if len(extraArgs) == 0 {
		logger.Panic(ctx, "invariant violated")
		return
	}
	logger.Panicf(ctx, "invariant violated: %v", extraArgs)
}
