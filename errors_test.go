package svoexport_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/svoexport"
)

func TestExitCode(t *testing.T) {
	wrap := func(err error) error {
		return fmt.Errorf("context: %w", err)
	}
	require.Equal(t, 0, svoexport.ExitCode(nil))
	require.Equal(t, 1, svoexport.ExitCode(errors.New("other")))
	require.Equal(t, 2, svoexport.ExitCode(wrap(svoexport.ErrInvalidArgument)))
	require.Equal(t, 3, svoexport.ExitCode(wrap(svoexport.ErrOpen)))
	require.Equal(t, 4, svoexport.ExitCode(wrap(svoexport.ErrRange)))
	require.Equal(t, 5, svoexport.ExitCode(wrap(svoexport.ErrSinkOpen)))
	require.Equal(t, 6, svoexport.ExitCode(wrap(svoexport.ErrGrab)))
	require.Equal(t, 6, svoexport.ExitCode(wrap(svoexport.ErrSinkWrite)))
}
