package aesfp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestOptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, false},
		{"explicit defaults", &Opts{WriteEndpoint: 0x02, ReadEndpoint: 0x81}, false},
		{"alternate endpoints", &Opts{WriteEndpoint: 0x01, ReadEndpoint: 0x82}, false},
		{"custom timeout", &Opts{Timeout: time.Second}, false},
		{"custom cap", &Opts{WritesPerTransfer: 4}, false},
		{"write endpoint with IN bit", &Opts{WriteEndpoint: 0x82}, true},
		{"read endpoint without IN bit", &Opts{ReadEndpoint: 0x02}, true},
		{"negative timeout", &Opts{Timeout: -time.Second}, true},
		{"negative cap", &Opts{WritesPerTransfer: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&MockTransport{}, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewNilTransport(t *testing.T) {
	_, err := New(nil, nil)
	if err == nil {
		t.Fatal("New(nil, nil) should fail")
	}
	if err.Error() != "aesfp: transport is required" {
		t.Errorf("New(nil, nil) error = %q, want %q", err, "aesfp: transport is required")
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New(&MockTransport{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d.writeEP != DefaultWriteEndpoint {
		t.Errorf("writeEP = 0x%02X, want 0x%02X", d.writeEP, DefaultWriteEndpoint)
	}
	if d.readEP != DefaultReadEndpoint {
		t.Errorf("readEP = 0x%02X, want 0x%02X", d.readEP, DefaultReadEndpoint)
	}
	if d.timeout != 4*time.Second {
		t.Errorf("timeout = %v, want 4s", d.timeout)
	}
	if d.perTransfer != 16 {
		t.Errorf("perTransfer = %d, want 16", d.perTransfer)
	}
}

func TestDevString(t *testing.T) {
	d, err := New(&MockTransport{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := "aesfp.Dev{out:0x02 in:0x81}"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "ok"},
		{StatusFailed, "failed"},
		{StatusTimeout, "timeout"},
		{StatusStalled, "stalled"},
		{Status(9), "status(9)"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", uint8(tt.status), got, tt.want)
		}
	}
}

func TestReadFrame(t *testing.T) {
	m := &MockTransport{ReadData: []byte{0x12, 0x34, 0x56}}
	d, err := New(m, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	buf := make([]byte, 8)
	n, err := d.ReadFrame(context.Background(), buf)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ReadFrame() n = %d, want 3", n)
	}
	if buf[0] != 0x12 || buf[1] != 0x34 || buf[2] != 0x56 {
		t.Errorf("buf[:3] = % X, want 12 34 56", buf[:3])
	}
	if len(m.Endpoints) != 1 || m.Endpoints[0] != DefaultReadEndpoint {
		t.Errorf("Endpoints = %v, want [0x81]", m.Endpoints)
	}
}

func TestReadFrameFailure(t *testing.T) {
	m := &MockTransport{FailAt: 1, FailStatus: StatusTimeout}
	d, err := New(m, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = d.ReadFrame(context.Background(), make([]byte, 8))
	if !errors.Is(err, ErrTransfer) {
		t.Fatalf("ReadFrame() error = %v, want ErrTransfer", err)
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("ReadFrame() error = %q, want it to name the timeout status", err)
	}
}

func TestReadFrameSubmitRejected(t *testing.T) {
	m := &MockTransport{SubmitErr: errors.New("endpoint gone")}
	d, err := New(m, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = d.ReadFrame(context.Background(), make([]byte, 8))
	if !errors.Is(err, ErrTransfer) {
		t.Fatalf("ReadFrame() error = %v, want ErrTransfer", err)
	}
}

func TestReadFrameContextExpiry(t *testing.T) {
	m := &MockTransport{Delay: 200 * time.Millisecond, ReadData: []byte{1}}
	d, err := New(m, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = d.ReadFrame(ctx, make([]byte, 4))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ReadFrame() error = %v, want context.DeadlineExceeded", err)
	}
}
