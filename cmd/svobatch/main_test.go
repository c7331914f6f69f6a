package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/svoexport"
)

func TestRunArguments(t *testing.T) {
	require.Equal(t, svoexport.ExitCodeInvalidArgument, run([]string{"--input-dir", t.TempDir()}))
	require.Equal(t, svoexport.ExitCodeInvalidArgument, run([]string{"--mode", "9"}))
	require.Equal(t, svoexport.ExitCodeInvalidArgument, run([]string{
		"--input-dir", t.TempDir(),
		"--output-dir", filepath.Join(t.TempDir(), "missing"),
	}))
	require.Equal(t, svoexport.ExitCodeOK, run([]string{
		"--input-dir", t.TempDir(),
		"--output-dir", t.TempDir(),
	}))
}
