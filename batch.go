package aesfp

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// RegWrite stores Value into the sensor register at address Reg.
// Address 0 is not a real register; see Barrier.
type RegWrite struct {
	Reg   byte
	Value byte
}

// Barrier is the entry drivers insert between writes that must not share a
// bulk transfer. It is never transmitted: the batcher closes the transfer
// before it and starts a fresh one after it. The sensor applies the writes of
// one transfer as a unit, so a barrier is the only way to order one write
// strictly after another.
var Barrier = RegWrite{}

// IsBarrier reports whether w is a barrier entry rather than a real write.
func (w RegWrite) IsBarrier() bool {
	return w.Reg == 0
}

// BatchCallback receives the outcome of a batched register write. err is nil
// on success. userdata is the value passed to SubmitBatch.
type BatchCallback func(d *Dev, err error, userdata any)

// batchJob tracks one batched register write across its chain of bulk
// transfers. offset always points at the next entry to consider; it moves
// past a chunk when the chunk is submitted, not when it completes.
type batchJob struct {
	dev      *Dev
	id       string
	regs     []RegWrite
	offset   int
	done     BatchCallback
	userdata any
	fired    atomic.Bool
}

// SubmitBatch queues the register writes in regs and returns immediately.
// The writes are packed into bulk transfers of up to WritesPerTransfer
// entries each, two bytes per write, issued strictly one after another.
// Barrier entries are never transmitted and close the transfer before them.
//
// done runs exactly once, with a nil error only if every transfer completed
// and the device accepted every byte. The first failure ends the batch:
// entries after it are not transmitted, and how many registers the device
// applied is not knowable. done normally runs on the transport's completion
// goroutine; it runs synchronously inside SubmitBatch only when regs needs no
// transfer at all (empty, or barriers only) or when the first submission is
// rejected. done may be nil.
//
// The caller must not modify regs until done runs.
func (d *Dev) SubmitBatch(regs []RegWrite, done BatchCallback, userdata any) {
	j := &batchJob{
		dev:      d,
		id:       uuid.NewString(),
		regs:     regs,
		done:     done,
		userdata: userdata,
	}
	d.log.Debug("register batch submitted", "job", j.id, "writes", len(regs))
	j.advance()
}

// WriteBatch runs SubmitBatch and waits for its outcome.
//
// ctx expiry abandons the wait only: the chain cannot be cancelled and keeps
// running on the transport until it settles on its own.
func (d *Dev) WriteBatch(ctx context.Context, regs []RegWrite) error {
	done := make(chan error, 1)
	d.SubmitBatch(regs, func(_ *Dev, err error, _ any) {
		done <- err
	}, nil)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// advance issues the next transfer of the chain, or finishes the job when no
// writable entries remain.
func (j *batchJob) advance() {
	d := j.dev

	// Skip barriers. A batch with nothing left to transmit is complete.
	for {
		if j.offset >= len(j.regs) {
			d.log.Debug("register batch complete", "job", j.id)
			j.finish(nil)
			return
		}
		if !j.regs[j.offset].IsBarrier() {
			break
		}
		j.offset++
	}

	// The chunk ends at the transfer cap, the end of the list, or the entry
	// before the next barrier, whichever comes first.
	upper := j.offset + d.perTransfer - 1
	if last := len(j.regs) - 1; upper > last {
		upper = last
	}
	for i := j.offset; i <= upper; i++ {
		if j.regs[i].IsBarrier() {
			upper = i - 1
			break
		}
	}

	buf := d.getBuf()
	for _, w := range j.regs[j.offset : upper+1] {
		buf = append(buf, w.Reg, w.Value)
	}

	// Move the cursor past the chunk before the transfer settles. The
	// transport delivers at most one completion per submission, so the next
	// chunk cannot start until this one is accounted for, even if the
	// completion were delivered inline.
	j.offset = upper + 1
	d.log.Debug("register chunk submitted", "job", j.id, "bytes", len(buf), "next", j.offset)
	if err := d.t.SubmitBulk(d.writeEP, buf, d.timeout, j.transferDone); err != nil {
		d.putBuf(buf)
		j.finish(fmt.Errorf("%w: submit: %v", ErrTransfer, err))
	}
}

// transferDone settles one chunk of the chain. The chunk buffer is released
// before the outcome is inspected, on every path.
func (j *batchJob) transferDone(c Completion) {
	j.dev.putBuf(c.Data)

	switch {
	case c.Status != StatusOK:
		j.finish(c.failure())
	case c.Actual != c.Requested:
		j.finish(fmt.Errorf("%w: wrote %d of %d bytes", ErrLengthMismatch, c.Actual, c.Requested))
	default:
		j.advance()
	}
}

// finish delivers the terminal callback. At most one delivery per job.
func (j *batchJob) finish(err error) {
	if !j.fired.CompareAndSwap(false, true) {
		return
	}
	if err != nil {
		j.dev.log.Debug("register batch failed", "job", j.id, "err", err)
	}
	if j.done != nil {
		j.done(j.dev, err, j.userdata)
	}
}
