// aesframe works with raw frame dumps from AuthenTec AES fingerprint sensors:
// it unpacks the sensor's packed 3-bit scan format into viewable PNG images
// and describes dump contents. The default geometry is the AES4000's 96x96.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/go-fprint/aesfp"
	"github.com/go-fprint/aesfp/image3bit"
)

func main() {
	app := &cli.App{
		Name:  "aesframe",
		Usage: "unpack raw AES fingerprint sensor frames",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "width",
				Value: 96,
				Usage: "frame width in pixels",
			},
			&cli.IntFlag{
				Name:  "height",
				Value: 96,
				Usage: "frame height in pixels",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "unpack",
				Usage:     "convert a raw packed frame dump to PNG",
				ArgsUsage: "INPUT OUTPUT",
				Action:    unpack,
			},
			{
				Name:      "info",
				Usage:     "describe a raw packed frame dump",
				ArgsUsage: "INPUT",
				Action:    info,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadFrame reads a raw dump and wraps it in the packed frame type.
func loadFrame(c *cli.Context, path string) (*image3bit.VerticalNibble, error) {
	w, h := c.Int("width"), c.Int("height")
	if w <= 0 || h <= 0 || h%2 != 0 {
		return nil, fmt.Errorf("bad geometry %dx%d: dimensions must be positive and height even", w, h)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if want := aesfp.PackedFrameLen(w, h); len(raw) != want {
		return nil, fmt.Errorf("%s: %d bytes, want %d for a packed %dx%d frame", path, len(raw), want, w, h)
	}

	return &image3bit.VerticalNibble{
		Pix:    raw,
		Stride: h / 2,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

func unpack(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: aesframe unpack INPUT OUTPUT", 1)
	}

	frame, err := loadFrame(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	out, err := os.Create(c.Args().Get(1))
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, aesfp.AssembleImage(frame))
}

func info(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: aesframe info INPUT", 1)
	}

	path := c.Args().Get(0)
	frame, err := loadFrame(c, path)
	if err != nil {
		return err
	}

	b := frame.Bounds()
	var hist [8]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[frame.Gray3At(x, y).Y]++
		}
	}

	fmt.Printf("%s: packed %dx%d frame, %d bytes\n", path, b.Dx(), b.Dy(), len(frame.Pix))
	for level, n := range hist {
		fmt.Printf("  level %d (pixel %3d): %d\n", level, level*36, n)
	}
	return nil
}
