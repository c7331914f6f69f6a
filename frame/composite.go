package frame

import (
	"fmt"
	"image"
	"math"
)

// SideBySide copies left into the left half of dst and right into the
// right half, dropping the alpha channel. No scaling is performed: dst
// must be exactly twice as wide as the (equally sized) views.
func SideBySide(dst *BGR, left, right *BGRA) error {
	if left == nil || right == nil {
		return fmt.Errorf("both views are required")
	}
	if err := checkSize("the right view", right.Width, right.Height, left.Width, left.Height); err != nil {
		return err
	}
	if err := checkSize("the composite", dst.Width, dst.Height, left.Width*2, left.Height); err != nil {
		return err
	}

	halfRow := left.Width * 3
	for y := 0; y < dst.Height; y++ {
		row := dst.Row(y)
		dropAlpha(row[:halfRow], left.Row(y))
		dropAlpha(row[halfRow:], right.Row(y))
	}
	return nil
}

func dropAlpha(dst, src []byte) {
	for s, d := 0, 0; s < len(src); s, d = s+4, d+3 {
		dst[d+0] = src[s+0]
		dst[d+1] = src[s+1]
		dst[d+2] = src[s+2]
	}
}

// DepthToUint16 converts a millimeter distance the way a plain integer
// cast does: the fraction is truncated and the result wraps modulo 65536,
// so 65536mm becomes 0 and -1mm becomes 65535. NaN and infinities (the
// SDK's markers for missing or out-of-range measurements) become 0.
func DepthToUint16(mm float32) uint16 {
	v := float64(mm)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(v), 1<<16)
	if m < 0 {
		m += 1 << 16
	}
	return uint16(m)
}

// Gray16 converts the measurement to a 16-bit grayscale image, one
// DepthToUint16 per pixel. No normalization is applied.
func (d *Depth) Gray16() *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y++ {
		src := d.Data[y*d.Width : (y+1)*d.Width]
		dst := out.Pix[y*out.Stride:]
		for x, mm := range src {
			v := DepthToUint16(mm)
			dst[2*x+0] = uint8(v >> 8)
			dst[2*x+1] = uint8(v)
		}
	}
	return out
}
