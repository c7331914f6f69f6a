package svoexport_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/svoexport"
)

func TestProgressPercent(t *testing.T) {
	require.Equal(t, 0, svoexport.Progress{Processed: 5, Total: 0}.Percent())
	require.Equal(t, 0, svoexport.Progress{Processed: 0, Total: 3}.Percent())
	require.Equal(t, 33, svoexport.Progress{Processed: 1, Total: 3}.Percent())
	require.Equal(t, 66, svoexport.Progress{Processed: 2, Total: 3}.Percent())
	require.Equal(t, 100, svoexport.Progress{Processed: 3, Total: 3}.Percent())
	require.Equal(t, 100, svoexport.Progress{Processed: 4, Total: 3}.Percent())
}

func TestFormatProgressLine(t *testing.T) {
	require.Equal(t, "[------------------------------] 0%", svoexport.FormatProgressLine(0, 30))
	require.Equal(t, "[===============---------------] 50%", svoexport.FormatProgressLine(50, 30))
	require.Equal(t, "[==============================] 100%", svoexport.FormatProgressLine(100, 30))
	require.Equal(t, "[==========] 100%", svoexport.FormatProgressLine(150, 10))
}

func TestParseProgressLine(t *testing.T) {
	for line, expected := range map[string]int{
		"[===---] 42%":      42,
		"[======] 100%\r\n": 100,
		"0%":                0,
	} {
		percent, ok := svoexport.ParseProgressLine(line)
		require.True(t, ok, line)
		require.Equal(t, expected, percent, line)
	}
	for _, line := range []string{
		"Conversion finished.",
		"[===] 142%",
		"42% done",
		"",
	} {
		_, ok := svoexport.ParseProgressLine(line)
		require.False(t, ok, line)
	}
}

func TestProgressLineWriter(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	w := svoexport.NewProgressLineWriter(&buf)

	w.ReportMessage(ctx, "hello")
	for i := 1; i <= 300; i++ {
		w.ReportProgress(ctx, svoexport.Progress{Processed: i, Total: 300})
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, "hello", lines[0])
	require.Len(t, lines, 102)
	prev := -1
	for _, line := range lines[1:] {
		percent, ok := svoexport.ParseProgressLine(line)
		require.True(t, ok, line)
		require.Greater(t, percent, prev)
		prev = percent
	}
	require.Equal(t, 100, prev)
}
