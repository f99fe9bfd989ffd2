// Package image3bit provides the packed 3-bit grayscale frame format produced by
// AuthenTec AES fingerprint sensors.
//
// The sensor scans in vertical nibble packing where each byte holds 2 vertically
// adjacent pixels of the same column. The low nibble carries the even row, the high
// nibble carries the odd row, and only 3 bits of each nibble are significant.
// Columns are stored back to back, so the buffer is column-major.
// This package provides the Gray3 color type and the VerticalNibble image
// implementation.
package image3bit

import (
	"image"
	"image/color"
)

// Gray3 represents a 3-bit grayscale color (0-7 intensity levels).
// Only the lower 3 bits of Y are used.
type Gray3 struct {
	Y uint8
}

// RGBA converts the Gray3 color to standard RGBA.
// The 3-bit sample (0-7) is scaled by 36 to the sensor's 8-bit ramp (0-252),
// then widened to 16-bit.
func (c Gray3) RGBA() (r, g, b, a uint32) {
	// 7 * 36 = 252 = 0xFC, so full intensity widens to 0xFCFC rather than 0xFFFF.
	y := uint32(c.Y&0x07) * 36
	y *= 0x101
	return y, y, y, 0xFFFF
}

// toGray3 converts any color.Color to Gray3.
func toGray3(c color.Color) color.Color {
	if g, ok := c.(Gray3); ok {
		return g
	}
	r, g, b, _ := c.RGBA()
	// Standard grayscale conversion: 0.299R + 0.587G + 0.114B
	// RGBA returns 16-bit values, scale down result to 3-bit
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Gray3{Y: uint8(y >> 13)}
}

// Gray3Model converts colors to Gray3.
var Gray3Model = color.ModelFunc(toGray3)

// VerticalNibble is a 3-bit grayscale image in the sensor's packed scan format.
// Each byte contains 2 vertically adjacent pixels of one column: low nibble = even
// row, high nibble = odd row. Columns are consecutive, so Stride counts bytes per
// column, not per row.
type VerticalNibble struct {
	Pix    []byte          // Pixel data (2 pixels per byte, column-major)
	Stride int             // Bytes per column
	Rect   image.Rectangle // Image bounds
}

// NewVerticalNibble creates a new VerticalNibble image with the specified bounds.
// The height must be even (since 2 rows per byte).
func NewVerticalNibble(r image.Rectangle) *VerticalNibble {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &VerticalNibble{Rect: r}
	}
	if h%2 != 0 {
		panic("image3bit: height must be even")
	}

	stride := h / 2
	pixelCount := stride * w
	return &VerticalNibble{
		Pix:    make([]byte, pixelCount),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *VerticalNibble) ColorModel() color.Model {
	return Gray3Model
}

// Bounds returns the image bounds.
func (p *VerticalNibble) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *VerticalNibble) At(x, y int) color.Color {
	return p.Gray3At(x, y)
}

// Gray3At returns the Gray3 color of the pixel at (x, y).
func (p *VerticalNibble) Gray3At(x, y int) Gray3 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Gray3{}
	}
	offset, shift := p.pixOffset(x, y)
	return Gray3{Y: (p.Pix[offset] >> shift) & 0x07}
}

// Set sets the color of the pixel at (x, y).
func (p *VerticalNibble) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, shift := p.pixOffset(x, y)
	gray3 := Gray3Model.Convert(c).(Gray3)
	// Clear the sample bits and set the new value
	p.Pix[offset] = (p.Pix[offset] &^ (0x07 << shift)) | ((gray3.Y & 0x07) << shift)
}

// SetGray3 sets the Gray3 color of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *VerticalNibble) SetGray3(x, y int, c Gray3) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, shift := p.pixOffset(x, y)
	// Clear the sample bits and set the new value
	p.Pix[offset] = (p.Pix[offset] &^ (0x07 << shift)) | ((c.Y & 0x07) << shift)
}

// pixOffset returns the byte offset and bit shift for the pixel at (x, y).
// Memory layout: each byte contains 2 pixels of one column.
// Low nibble (shift 0) = even row (top pixel)
// High nibble (shift 4) = odd row (bottom pixel)
func (p *VerticalNibble) pixOffset(x, y int) (offset int, shift uint) {
	row := y - p.Rect.Min.Y
	offset = (x-p.Rect.Min.X)*p.Stride + row/2
	// Even rows (0, 2, 4...) use the low nibble (shift 0)
	// Odd rows (1, 3, 5...) use the high nibble (shift 4)
	shift = uint(4 * (row & 1))
	return
}
