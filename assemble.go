package aesfp

import (
	"image"

	"github.com/go-fprint/aesfp/image3bit"
)

// PackedFrameLen returns the byte length of a packed scan frame of the given
// geometry: two 3-bit samples per byte.
func PackedFrameLen(width, height int) int {
	return width * height / 2
}

// Assemble unpacks one raw scan frame into an 8-bit grayscale pixel buffer.
//
// input holds PackedFrameLen(width, height) bytes in the sensor's scan order:
// column-major, two vertically adjacent rows per byte, even row in the low
// nibble, odd row in the high nibble, 3 significant bits per sample. Each
// sample is scaled by 36, so output pixels take the values 0, 36, ... 252.
// output is row-major, one byte per pixel, at output[width*row+column].
//
// Assemble is pure: same input, same output, no I/O. It panics if height is
// odd or either buffer is shorter than the geometry requires, and performs no
// other validation.
func Assemble(input []byte, width, height int, output []byte) {
	if height%2 != 0 {
		panic("aesfp: height must be even")
	}
	if len(input) < PackedFrameLen(width, height) {
		panic("aesfp: input shorter than packed frame")
	}
	if len(output) < width*height {
		panic("aesfp: output shorter than width*height")
	}

	i := 0
	for column := 0; column < width; column++ {
		for row := 0; row < height; row += 2 {
			b := input[i]
			i++
			output[width*row+column] = (b & 0x07) * 36
			output[width*(row+1)+column] = ((b >> 4) & 0x07) * 36
		}
	}
}

// AssembleImage unpacks a packed frame into a stdlib grayscale image with the
// same bounds.
func AssembleImage(f *image3bit.VerticalNibble) *image.Gray {
	img := image.NewGray(f.Rect)
	Assemble(f.Pix, f.Rect.Dx(), f.Rect.Dy(), img.Pix)
	return img
}
