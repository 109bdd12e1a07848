package testutil

import (
	"context"
	"errors"
	"io"
	"sync"

	"load-monitor/pkg/transport"
)

// ErrConnClosed is returned by FakeConn.Read after Close.
var ErrConnClosed = errors.New("fake conn closed")

// ErrNoMoreDials is returned once a FakeDialer runs out of scripted results.
var ErrNoMoreDials = errors.New("fake dialer: no more scripted results")

// FakeConn is an in-memory transport.Conn. Send payloads on Messages; closing
// Messages simulates the server hanging up.
type FakeConn struct {
	Messages  chan []byte
	ReadError error // returned once Messages is closed; defaults to io.EOF

	closeOnce sync.Once
	closeCh   chan struct{}
}

func NewFakeConn(buffer int) *FakeConn {
	return &FakeConn{
		Messages: make(chan []byte, buffer),
		closeCh:  make(chan struct{}),
	}
}

func (c *FakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closeCh:
		return nil, ErrConnClosed
	case msg, ok := <-c.Messages:
		if !ok {
			if c.ReadError != nil {
				return nil, c.ReadError
			}
			return nil, io.EOF
		}
		return msg, nil
	}
}

func (c *FakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closeCh) })
	return nil
}

// Closed reports whether Close has been called.
func (c *FakeConn) Closed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

// DialResult is one scripted outcome of FakeDialer.Dial.
type DialResult struct {
	Conn *FakeConn
	Err  error
}

// FakeDialer hands out scripted results in order and records every call.
type FakeDialer struct {
	mu      sync.Mutex
	results []DialResult
	calls   []string
}

func NewFakeDialer(results ...DialResult) *FakeDialer {
	return &FakeDialer{results: results}
}

func (d *FakeDialer) Dial(ctx context.Context, endpoint string) (transport.Conn, error) {
	d.mu.Lock()
	d.calls = append(d.calls, endpoint)
	r := DialResult{Err: ErrNoMoreDials}
	if len(d.results) > 0 {
		r = d.results[0]
		d.results = d.results[1:]
	}
	d.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return r.Conn, nil
}

// Push appends more scripted results.
func (d *FakeDialer) Push(results ...DialResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, results...)
}

func (d *FakeDialer) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *FakeDialer) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}
