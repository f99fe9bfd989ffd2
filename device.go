package aesfp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Defaults shared by the AES sensor family.
const (
	// DefaultWriteEndpoint is the bulk OUT endpoint carrying register writes.
	DefaultWriteEndpoint byte = 0x02
	// DefaultReadEndpoint is the bulk IN endpoint carrying scan data.
	DefaultReadEndpoint byte = 0x81
	// DefaultTimeout bounds a single bulk transfer.
	DefaultTimeout = 4 * time.Second
	// DefaultWritesPerTransfer is the largest number of register writes the
	// sensors accept in a single bulk transfer.
	DefaultWritesPerTransfer = 16
)

// Opts is the configuration for an AES sensor handle.
type Opts struct {
	// Bulk endpoint addresses. Zero selects the family defaults
	// (0x02 OUT, 0x81 IN).
	WriteEndpoint byte
	ReadEndpoint  byte

	// Timeout bounds each bulk transfer (default: 4s)
	Timeout time.Duration

	// WritesPerTransfer caps how many register writes are packed into one
	// bulk transfer (default: 16)
	WritesPerTransfer int

	// Logger receives debug events (optional, nil uses slog.Default())
	Logger *slog.Logger
}

// Dev is the protocol handle for one AES sensor.
type Dev struct {
	// Communication
	t       Transport
	writeEP byte
	readEP  byte
	timeout time.Duration

	// Register batching
	perTransfer int
	bufs        sync.Pool // chunk buffers, one bulk transfer each

	log *slog.Logger
}

// New creates a sensor handle on top of t.
//
// opts can be nil to use the family defaults (endpoints 0x02/0x81, 4s
// transfer timeout, 16 register writes per transfer).
func New(t Transport, opts *Opts) (*Dev, error) {
	if t == nil {
		return nil, errors.New("aesfp: transport is required")
	}
	if opts == nil {
		opts = &Opts{}
	}

	writeEP := opts.WriteEndpoint
	if writeEP == 0 {
		writeEP = DefaultWriteEndpoint
	}
	readEP := opts.ReadEndpoint
	if readEP == 0 {
		readEP = DefaultReadEndpoint
	}
	if writeEP&0x80 != 0 {
		return nil, errors.New("aesfp: write endpoint must be an OUT address")
	}
	if readEP&0x80 == 0 {
		return nil, errors.New("aesfp: read endpoint must be an IN address")
	}

	timeout := opts.Timeout
	if timeout < 0 {
		return nil, errors.New("aesfp: timeout must not be negative")
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	perTransfer := opts.WritesPerTransfer
	if perTransfer < 0 {
		return nil, errors.New("aesfp: writes per transfer must not be negative")
	}
	if perTransfer == 0 {
		perTransfer = DefaultWritesPerTransfer
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dev{
		t:           t,
		writeEP:     writeEP,
		readEP:      readEP,
		timeout:     timeout,
		perTransfer: perTransfer,
		log:         logger,
	}
	d.bufs.New = func() any {
		return make([]byte, 0, 2*perTransfer)
	}
	return d, nil
}

// getBuf returns an empty chunk buffer with capacity for one full transfer.
func (d *Dev) getBuf() []byte {
	return d.bufs.Get().([]byte)[:0]
}

// putBuf returns a chunk buffer to the pool.
func (d *Dev) putBuf(b []byte) {
	d.bufs.Put(b[:0])
}

// ReadFrame reads one bulk IN payload of scan data into buf and returns the
// number of bytes the sensor produced. A short read is not an error; the
// owning driver's capture loop decides when a frame is complete.
//
// ctx bounds the wait only. The transfer keeps its own timeout and is not
// cancelled when ctx expires.
func (d *Dev) ReadFrame(ctx context.Context, buf []byte) (int, error) {
	done := make(chan Completion, 1)
	err := d.t.SubmitBulk(d.readEP, buf, d.timeout, func(c Completion) {
		done <- c
	})
	if err != nil {
		return 0, fmt.Errorf("%w: submit: %v", ErrTransfer, err)
	}

	select {
	case c := <-done:
		if c.Status != StatusOK {
			return c.Actual, c.failure()
		}
		d.log.Debug("scan data read", "bytes", c.Actual)
		return c.Actual, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("aesfp.Dev{out:0x%02X in:0x%02X}", d.writeEP, d.readEP)
}
