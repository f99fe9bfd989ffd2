package aesfp

import (
	"sync"
	"time"
)

// MockTransport is an in-memory Transport for tests and for driver
// development without hardware. Every accepted submission is recorded and
// completed from its own goroutine, the way a real transport would.
//
// The zero value completes every transfer successfully. The knobs below
// inject failures at chosen points; positions count submissions from 1.
type MockTransport struct {
	// SubmitErr, when non-nil, makes SubmitBulk reject submissions starting
	// at position SubmitErrAt (0 rejects from the first).
	SubmitErr   error
	SubmitErrAt int

	// FailAt, when non-zero, completes the submission at that position with
	// FailStatus (StatusFailed if unset) and zero bytes moved.
	FailAt     int
	FailStatus Status

	// ShortAt, when non-zero, completes the submission at that position with
	// one byte fewer than requested.
	ShortAt int

	// Delay postpones every completion delivery.
	Delay time.Duration

	// ReadData is copied into IN submissions.
	ReadData []byte

	mu        sync.Mutex
	n         int
	Transfers [][]byte // copy of each OUT payload, in submission order
	Endpoints []byte   // endpoint of each accepted submission
}

// SubmitBulk implements Transport.
func (m *MockTransport) SubmitBulk(endpoint byte, data []byte, timeout time.Duration, done CompletionFunc) error {
	m.mu.Lock()
	if m.SubmitErr != nil && m.n+1 >= m.SubmitErrAt {
		m.mu.Unlock()
		return m.SubmitErr
	}
	m.n++
	pos := m.n
	m.Endpoints = append(m.Endpoints, endpoint)

	c := Completion{
		Status:    StatusOK,
		Endpoint:  endpoint,
		Requested: len(data),
		Actual:    len(data),
		Data:      data,
	}
	if endpoint&0x80 != 0 {
		c.Actual = copy(data, m.ReadData)
	} else {
		payload := make([]byte, len(data))
		copy(payload, data)
		m.Transfers = append(m.Transfers, payload)
	}
	if pos == m.FailAt {
		c.Status = m.FailStatus
		if c.Status == StatusOK {
			c.Status = StatusFailed
		}
		c.Actual = 0
	}
	if pos == m.ShortAt && c.Requested > 0 {
		c.Status = StatusOK
		c.Actual = c.Requested - 1
	}
	delay := m.Delay
	m.mu.Unlock()

	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		done(c)
	}()
	return nil
}

// Submissions returns how many submissions the transport has accepted.
func (m *MockTransport) Submissions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}
