// Package aesfp implements the USB protocol shared by AuthenTec AES silicon
// fingerprint sensors (AES1610, AES2501, AES4000 and relatives): batched
// programming of the sensor register file over bulk OUT transfers, and
// assembly of the packed 3-bit scan format into 8-bit grayscale images.
//
// Sensor-specific knowledge stays out of this package. Which registers exist,
// what their values mean and how a capture is sequenced belongs to the
// per-chip driver; aesfp only moves register writes and scan data.
//
// # Register Batching
//
// The sensors accept register writes as bulk OUT payloads of [address, value]
// byte pairs, at most 16 writes per transfer. SubmitBatch takes a register
// write list of any length, packs it into a chain of maximal transfers and
// issues them strictly one after another:
//
//	dev.SubmitBatch(regs, func(d *aesfp.Dev, err error, _ any) {
//		if err != nil {
//			log.Printf("sensor init failed: %v", err)
//			return
//		}
//		// start capture
//	}, nil)
//
// SubmitBatch returns immediately; the callback runs once, when the whole
// chain has completed or the first transfer has failed. WriteBatch is the
// blocking form:
//
//	if err := dev.WriteBatch(ctx, regs); err != nil {
//		return err
//	}
//
// # Barriers
//
// The sensor applies all writes of one transfer as a unit. When a write must
// take effect strictly before the next one, the driver separates them with
// Barrier:
//
//	regs := []aesfp.RegWrite{
//		{Reg: 0x80, Value: 0x01},
//		aesfp.Barrier, // close the transfer here
//		{Reg: 0x81, Value: 0x02},
//	}
//
// Barrier entries are never transmitted. They only force the transfer before
// them to close, so the writes after them land in a later transfer.
//
// # Frame Assembly
//
// Scan data arrives packed: each byte carries two vertically adjacent pixels
// of one column, the even row in the low nibble, the odd row in the high
// nibble, 3 significant bits per sample, columns back to back. Assemble
// unpacks a raw frame into a row-major 8-bit buffer, scaling each sample by
// 36 (so pixel values are 0, 36, ... 252):
//
//	packed := make([]byte, aesfp.PackedFrameLen(96, 96))
//	// ... capture into packed ...
//	pixels := make([]byte, 96*96)
//	aesfp.Assemble(packed, 96, 96, pixels)
//
// The image3bit subpackage provides the packed format as an image.Image
// (image3bit.VerticalNibble), and AssembleImage converts it to an
// *image.Gray directly.
//
// # Transports
//
// All bulk traffic goes through the Transport interface, so the protocol
// logic is independent of the USB stack. The usbconn subpackage implements
// Transport on top of github.com/google/gousb for real hardware, and
// MockTransport implements it in memory for tests and hardware-free
// development.
//
// # Basic Usage
//
// Example of programming a sensor and capturing one frame over gousb:
//
//	package main
//
//	import (
//		"context"
//		"image"
//		"image/png"
//		"log"
//		"os"
//
//		"github.com/google/gousb"
//
//		"github.com/go-fprint/aesfp"
//		"github.com/go-fprint/aesfp/image3bit"
//		"github.com/go-fprint/aesfp/usbconn"
//	)
//
//	func main() {
//		usb := gousb.NewContext()
//		defer usb.Close()
//
//		udev, err := usb.OpenDeviceWithVIDPID(0x08ff, 0x5501)
//		if err != nil || udev == nil {
//			log.Fatal("sensor not found")
//		}
//		defer udev.Close()
//
//		intf, done, err := udev.DefaultInterface()
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer done()
//
//		out, _ := intf.OutEndpoint(2)
//		in, _ := intf.InEndpoint(1)
//
//		dev, err := aesfp.New(usbconn.New([]*gousb.OutEndpoint{out}, []*gousb.InEndpoint{in}), nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		ctx := context.Background()
//		initRegs := []aesfp.RegWrite{
//			// chip-specific power-up sequence
//			{Reg: 0x80, Value: 0x01},
//			aesfp.Barrier,
//			{Reg: 0x81, Value: 0x04},
//		}
//		if err := dev.WriteBatch(ctx, initRegs); err != nil {
//			log.Fatal(err)
//		}
//
//		frame := image3bit.NewVerticalNibble(image.Rect(0, 0, 96, 96))
//		for got := 0; got < len(frame.Pix); {
//			n, err := dev.ReadFrame(ctx, frame.Pix[got:])
//			if err != nil {
//				log.Fatal(err)
//			}
//			got += n
//		}
//
//		f, _ := os.Create("finger.png")
//		defer f.Close()
//		png.Encode(f, aesfp.AssembleImage(frame))
//	}
//
// # Endpoints and Timing
//
// The whole family shares one bulk layout, reflected in the defaults:
//
//	Endpoint 0x02 (OUT)    register writes
//	Endpoint 0x81 (IN)     scan data
//	Timeout  4s            per bulk transfer
//	Cap      16 writes     per bulk transfer
//
// All four can be overridden per device through Opts for chip variants that
// deviate.
//
// # Error Handling
//
// A batch fails with an error matching ErrTransfer when a transfer does not
// complete cleanly (or cannot be submitted), and ErrLengthMismatch when the
// device accepts fewer bytes than were sent. Both are terminal: the chain
// stops, nothing is retried, and the sensor's register state should be
// considered unknown until reprogrammed.
package aesfp
