package internal

import (
	"context"
	"testing"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/require"
)

func TestAssert(t *testing.T) {
	ctx := logger.CtxWithLogger(context.Background(), logrus.Default().WithLevel(logger.LevelFatal))
	require.NotPanics(t, func() { Assert(ctx, true) })
	require.Panics(t, func() { Assert(ctx, false) })
	require.Panics(t, func() { Assert(ctx, false, 1, 2) })
}
