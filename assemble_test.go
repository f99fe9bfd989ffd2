package aesfp

import (
	"bytes"
	"image"
	"testing"

	"github.com/go-fprint/aesfp/image3bit"
)

func TestAssemble2x2(t *testing.T) {
	// Two columns of one byte each. 0x12: low nibble 2 -> even row,
	// high nibble 1 -> odd row.
	input := []byte{0x12, 0x34}
	output := make([]byte, 4)
	Assemble(input, 2, 2, output)

	want := []byte{
		2 * 36, 4 * 36, // row 0
		1 * 36, 3 * 36, // row 1
	}
	if !bytes.Equal(output, want) {
		t.Errorf("Assemble 2x2 = %v, want %v", output, want)
	}
}

func TestAssembleScanOrder(t *testing.T) {
	// 2x4 frame, one byte per row pair, columns back to back:
	// column 0 holds samples 0,1,2,3 and column 1 holds 4,5,6,7.
	input := []byte{0x10, 0x32, 0x54, 0x76}
	output := make([]byte, 8)
	Assemble(input, 2, 4, output)

	want := []byte{
		0, 144, // row 0
		36, 180, // row 1
		72, 216, // row 2
		108, 252, // row 3
	}
	if !bytes.Equal(output, want) {
		t.Errorf("Assemble 2x4 = %v, want %v", output, want)
	}
}

func TestAssemble16x16(t *testing.T) {
	input := make([]byte, PackedFrameLen(16, 16))
	if len(input) != 128 {
		t.Fatalf("packed 16x16 frame = %d bytes, want 128", len(input))
	}
	for i := range input {
		input[i] = byte(i*37 + 11) // arbitrary but fixed
	}

	output := make([]byte, 16*16)
	Assemble(input, 16, 16, output)

	// Every pixel is a multiple of 36 in 0-252.
	for i, px := range output {
		if px%36 != 0 {
			t.Errorf("output[%d] = %d, want a multiple of 36", i, px)
		}
	}

	// Deterministic: a second pass produces identical bytes.
	again := make([]byte, 16*16)
	Assemble(input, 16, 16, again)
	if !bytes.Equal(output, again) {
		t.Error("second Assemble pass produced different bytes")
	}
}

func TestAssemblePanics(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		w, h   int
		output []byte
	}{
		{"odd height", make([]byte, 8), 2, 3, make([]byte, 6)},
		{"short input", make([]byte, 7), 4, 4, make([]byte, 16)},
		{"short output", make([]byte, 8), 4, 4, make([]byte, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Assemble(tt.input, tt.w, tt.h, tt.output)
		})
	}
}

func TestAssembleImage(t *testing.T) {
	f := image3bit.NewVerticalNibble(image.Rect(0, 0, 4, 4))
	f.SetGray3(0, 0, image3bit.Gray3{Y: 7})
	f.SetGray3(1, 2, image3bit.Gray3{Y: 5})
	f.SetGray3(3, 3, image3bit.Gray3{Y: 2})

	img := AssembleImage(f)

	if got := img.Bounds(); got != f.Bounds() {
		t.Fatalf("Bounds() = %v, want %v", got, f.Bounds())
	}
	if got := img.GrayAt(0, 0).Y; got != 252 {
		t.Errorf("GrayAt(0, 0) = %d, want 252", got)
	}
	if got := img.GrayAt(1, 2).Y; got != 180 {
		t.Errorf("GrayAt(1, 2) = %d, want 180", got)
	}
	if got := img.GrayAt(3, 3).Y; got != 72 {
		t.Errorf("GrayAt(3, 3) = %d, want 72", got)
	}
	if got := img.GrayAt(2, 1).Y; got != 0 {
		t.Errorf("GrayAt(2, 1) = %d, want 0", got)
	}
}

func TestPackedFrameLen(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want int
	}{
		{"2x2", 2, 2, 2},
		{"16x16", 16, 16, 128},
		{"96x96", 96, 96, 4608},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackedFrameLen(tt.w, tt.h); got != tt.want {
				t.Errorf("PackedFrameLen(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
			}
		})
	}
}
