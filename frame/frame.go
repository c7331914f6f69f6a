// Package frame contains the pixel buffers exchanged between a recording
// source and the sinks, and the compositing operations on them.
package frame

import (
	"fmt"
	"image"
	"image/color"
)

// BGRA is an 8-bit 4-channel image in the byte order the camera SDK
// produces (blue, green, red, alpha).
type BGRA struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

func NewBGRA(width, height int) *BGRA {
	return &BGRA{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Pix:    make([]byte, width*height*4),
	}
}

func (img *BGRA) Row(y int) []byte {
	return img.Pix[y*img.Stride : y*img.Stride+img.Width*4]
}

// NRGBA returns a copy of the image with the channels reordered for the
// standard library encoders. The alpha channel is kept.
func (img *BGRA) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		src := img.Row(y)
		dst := out.Pix[y*out.Stride : y*out.Stride+img.Width*4]
		for x := 0; x < len(src); x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = src[x+3]
		}
	}
	return out
}

// BGR is an 8-bit 3-channel image, the layout video encoders are fed with.
type BGR struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

func NewBGR(width, height int) *BGR {
	return &BGR{
		Width:  width,
		Height: height,
		Stride: width * 3,
		Pix:    make([]byte, width*height*3),
	}
}

func (img *BGR) Row(y int) []byte {
	return img.Pix[y*img.Stride : y*img.Stride+img.Width*3]
}

// At is a convenience accessor for tests and debugging.
func (img *BGR) At(x, y int) color.RGBA {
	off := y*img.Stride + x*3
	return color.RGBA{
		R: img.Pix[off+2],
		G: img.Pix[off+1],
		B: img.Pix[off+0],
		A: 0xff,
	}
}

// Depth is a per-pixel distance measurement in millimeters.
type Depth struct {
	Width  int
	Height int
	Data   []float32
}

func NewDepth(width, height int) *Depth {
	return &Depth{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height),
	}
}

// Named is an image destined to a file whose name starts with Prefix.
type Named struct {
	Prefix string
	Image  image.Image
}

func checkSize(what string, w, h, expectedW, expectedH int) error {
	if w != expectedW || h != expectedH {
		return fmt.Errorf("%s has size %dx%d, expected %dx%d", what, w, h, expectedW, expectedH)
	}
	return nil
}
