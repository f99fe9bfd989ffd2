package aesfp

import "errors"

var (
	// ErrTransfer reports a bulk transfer that did not complete cleanly, or
	// one the transport refused to queue.
	ErrTransfer = errors.New("aesfp: bulk transfer failed")

	// ErrLengthMismatch reports a register-write transfer the device
	// truncated: the endpoint accepted fewer bytes than were submitted, so
	// the state of the register file is unknown.
	ErrLengthMismatch = errors.New("aesfp: transfer length mismatch")
)
