package aesfp

import (
	"fmt"
	"time"
)

// Status is the terminal state of a bulk transfer.
type Status uint8

const (
	// StatusOK means the transfer completed and every byte was moved.
	StatusOK Status = iota
	// StatusFailed means the transfer ended in a link or device error.
	StatusFailed
	// StatusTimeout means the transfer did not complete within its deadline.
	StatusTimeout
	// StatusStalled means the endpoint answered with a STALL handshake.
	StatusStalled
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusTimeout:
		return "timeout"
	case StatusStalled:
		return "stalled"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Completion describes the outcome of one bulk transfer.
type Completion struct {
	Status    Status
	Err       error  // underlying transport error, when available
	Endpoint  byte   // endpoint the transfer ran on
	Requested int    // bytes submitted
	Actual    int    // bytes the device accepted or produced
	Data      []byte // the submitted buffer; ownership returns to the submitter
}

// failure maps a completion that did not succeed onto ErrTransfer.
func (c Completion) failure() error {
	if c.Err != nil {
		return fmt.Errorf("%w: %v", ErrTransfer, c.Err)
	}
	return fmt.Errorf("%w: status %v", ErrTransfer, c.Status)
}

// CompletionFunc receives the outcome of a bulk transfer.
type CompletionFunc func(Completion)

// Transport moves bulk data between the host and the sensor.
//
// SubmitBulk queues one transfer on the given endpoint and returns without
// waiting for it. done runs exactly once per accepted submission, on a
// goroutine owned by the transport, never re-entrantly from SubmitBulk. For IN
// endpoints (address bit 7 set) data is filled with the received bytes. A
// non-nil return means the transfer was never queued and done will not run.
type Transport interface {
	SubmitBulk(endpoint byte, data []byte, timeout time.Duration, done CompletionFunc) error
}
