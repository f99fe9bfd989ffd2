// Package usbconn implements aesfp.Transport on top of github.com/google/gousb.
//
// The owning driver performs device discovery and interface claiming through
// gousb and hands the claimed endpoints to New; usbconn only moves bytes.
package usbconn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"

	"github.com/go-fprint/aesfp"
)

// Conn routes bulk submissions to a set of claimed gousb endpoints.
type Conn struct {
	out map[byte]*gousb.OutEndpoint
	in  map[byte]*gousb.InEndpoint
}

// New builds a Conn from claimed endpoints. Endpoints are keyed by their bus
// address with the direction bit included, so a sensor's usual 0x02/0x81 pair
// is addressed exactly the way aesfp addresses it.
func New(outs []*gousb.OutEndpoint, ins []*gousb.InEndpoint) *Conn {
	c := &Conn{
		out: make(map[byte]*gousb.OutEndpoint, len(outs)),
		in:  make(map[byte]*gousb.InEndpoint, len(ins)),
	}
	for _, ep := range outs {
		c.out[byte(ep.Desc.Address)] = ep
	}
	for _, ep := range ins {
		c.in[byte(ep.Desc.Address)] = ep
	}
	return c
}

// SubmitBulk implements aesfp.Transport. The transfer runs on its own
// goroutine under a deadline of timeout and reports through done.
func (c *Conn) SubmitBulk(endpoint byte, data []byte, timeout time.Duration, done aesfp.CompletionFunc) error {
	if endpoint&0x80 == 0 {
		ep, ok := c.out[endpoint]
		if !ok {
			return fmt.Errorf("usbconn: no claimed OUT endpoint 0x%02X", endpoint)
		}
		go run(endpoint, data, timeout, done, func(ctx context.Context) (int, error) {
			return ep.WriteContext(ctx, data)
		})
		return nil
	}

	ep, ok := c.in[endpoint]
	if !ok {
		return fmt.Errorf("usbconn: no claimed IN endpoint 0x%02X", endpoint)
	}
	go run(endpoint, data, timeout, done, func(ctx context.Context) (int, error) {
		return ep.ReadContext(ctx, data)
	})
	return nil
}

// run executes one transfer and delivers its completion.
func run(endpoint byte, data []byte, timeout time.Duration, done aesfp.CompletionFunc, xfer func(context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := xfer(ctx)
	done(aesfp.Completion{
		Status:    statusFor(err),
		Err:       err,
		Endpoint:  endpoint,
		Requested: len(data),
		Actual:    n,
		Data:      data,
	})
}

// statusFor maps gousb and context errors onto transfer statuses.
func statusFor(err error) aesfp.Status {
	switch {
	case err == nil:
		return aesfp.StatusOK
	case errors.Is(err, gousb.TransferTimedOut),
		errors.Is(err, context.DeadlineExceeded):
		return aesfp.StatusTimeout
	case errors.Is(err, gousb.TransferStall):
		return aesfp.StatusStalled
	default:
		return aesfp.StatusFailed
	}
}
