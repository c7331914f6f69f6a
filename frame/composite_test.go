package frame

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func fill(img *BGRA, b, g, r, a byte) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = b, g, r, a
	}
}

func TestSideBySide(t *testing.T) {
	left := NewBGRA(4, 2)
	right := NewBGRA(4, 2)
	fill(left, 1, 2, 3, 200)
	fill(right, 10, 20, 30, 100)
	left.Pix[0] = 99

	dst := NewBGR(8, 2)
	require.NoError(t, SideBySide(dst, left, right))

	require.Equal(t, []byte{99, 2, 3}, dst.Pix[0:3])
	for y := 0; y < 2; y++ {
		for x := 1; x < 4; x++ {
			require.Equal(t, color.RGBA{R: 3, G: 2, B: 1, A: 0xff}, dst.At(x, y))
		}
		for x := 4; x < 8; x++ {
			require.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 0xff}, dst.At(x, y))
		}
	}
}

func TestSideBySideSizeMismatch(t *testing.T) {
	left := NewBGRA(4, 2)
	require.Error(t, SideBySide(NewBGR(8, 2), left, NewBGRA(3, 2)))
	require.Error(t, SideBySide(NewBGR(4, 2), left, NewBGRA(4, 2)))
	require.Error(t, SideBySide(NewBGR(8, 2), left, nil))
}

func TestDepthToUint16(t *testing.T) {
	for _, tc := range []struct {
		in  float32
		out uint16
	}{
		{0, 0},
		{1234.9, 1234},
		{65535, 65535},
		{65535.7, 65535},
		{65536, 0},
		{70000, 70000 - 65536},
		{-1, 65535},
		{-5.7, 65531},
		{float32(math.NaN()), 0},
		{float32(math.Inf(1)), 0},
		{float32(math.Inf(-1)), 0},
	} {
		require.Equal(t, tc.out, DepthToUint16(tc.in), "%v", tc.in)
	}
}

func TestDepthGray16(t *testing.T) {
	d := NewDepth(3, 2)
	copy(d.Data, []float32{0, 500.5, 70000, 1, 2, float32(math.NaN())})

	img := d.Gray16()
	require.Equal(t, uint16(0), img.Gray16At(0, 0).Y)
	require.Equal(t, uint16(500), img.Gray16At(1, 0).Y)
	require.Equal(t, uint16(70000-65536), img.Gray16At(2, 0).Y)
	require.Equal(t, uint16(1), img.Gray16At(0, 1).Y)
	require.Equal(t, uint16(2), img.Gray16At(1, 1).Y)
	require.Equal(t, uint16(0), img.Gray16At(2, 1).Y)
}

func TestBGRAToNRGBA(t *testing.T) {
	img := NewBGRA(2, 1)
	copy(img.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	out := img.NRGBA()
	require.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, out.Pix)
}
