package imageseq

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/svoexport/frame"
)

func TestFileName(t *testing.T) {
	require.Equal(t, "left000010.png", FileName("left", 10))
	require.Equal(t, "depth123456.png", FileName("depth", 123456))
	require.Equal(t, "right1234567.png", FileName("right", 1234567))
}

func TestNewRequiresDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, ErrNotADirectory)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(file)
	require.ErrorIs(t, err, ErrNotADirectory)
}

func TestWriteFrame(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	left := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	left.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	depth := image.NewGray16(image.Rect(0, 0, 2, 2))
	depth.SetGray16(0, 1, color.Gray16{Y: 60000})

	require.NoError(t, s.WriteFrame(ctx, 42,
		frame.Named{Prefix: "left", Image: left},
		frame.Named{Prefix: "depth", Image: depth},
	))
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"depth000042.png", "left000042.png"}, names)

	f, err := os.Open(filepath.Join(dir, "depth000042.png"))
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	gray, ok := decoded.(*image.Gray16)
	require.True(t, ok, "%T", decoded)
	require.Equal(t, uint16(60000), gray.Gray16At(0, 1).Y)

	f2, err := os.Open(filepath.Join(dir, "left000042.png"))
	require.NoError(t, err)
	defer f2.Close()
	decoded, err = png.Decode(f2)
	require.NoError(t, err)
	r, g, b, _ := decoded.At(1, 1).RGBA()
	require.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})
}
