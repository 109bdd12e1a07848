package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"load-monitor/pkg/telemetry"
	"load-monitor/pkg/testutil"
)

const testEndpoint = "ws://feed.test/ws"

// recordingHandler logs every callback as a short string, in call order.
type recordingHandler struct {
	mu      sync.Mutex
	events  []string
	onOpen  func()
	onClose func(err error)
}

func (h *recordingHandler) add(s string) {
	h.mu.Lock()
	h.events = append(h.events, s)
	h.mu.Unlock()
}

func (h *recordingHandler) OnOpen() {
	h.add("open")
	if h.onOpen != nil {
		h.onOpen()
	}
}

func (h *recordingHandler) OnMessage(msg Message) { h.add("msg:" + msg.Time) }

func (h *recordingHandler) OnParseError(raw []byte, err error) { h.add("parse_error") }

func (h *recordingHandler) OnClose(err error) {
	h.add("close")
	if h.onClose != nil {
		h.onClose(err)
	}
}

func (h *recordingHandler) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	copy(out, h.events)
	return out
}

func (h *recordingHandler) count(s string) int {
	n := 0
	for _, e := range h.Events() {
		if e == s {
			n++
		}
	}
	return n
}

func payload(label string, actual, predicted float64) []byte {
	return []byte(fmt.Sprintf(`{"time":%q,"actual_load":%v,"predicted_load":%v,"temperature":25,"humidity":50}`, label, actual, predicted))
}

func startRun(t *testing.T, m *Manager, h Handler) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, h) }()
	t.Cleanup(cancel)
	return cancel, done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(testEndpoint, testutil.NewFakeDialer(), Options{})
	if m.retryDelay != DefaultRetryDelay {
		t.Errorf("expected retry delay %s, got %s", DefaultRetryDelay, m.retryDelay)
	}
	if m.dialTimeout != DefaultDialTimeout {
		t.Errorf("expected dial timeout %s, got %s", DefaultDialTimeout, m.dialTimeout)
	}
	if m.State() != StateConnecting {
		t.Errorf("expected initial state connecting, got %s", m.State())
	}
	if m.Endpoint() != testEndpoint {
		t.Errorf("expected endpoint %q, got %q", testEndpoint, m.Endpoint())
	}
}

func TestManager_DeliversMessagesInOrder(t *testing.T) {
	conn := testutil.NewFakeConn(8)
	conn.Messages <- payload("t1", 50, 50)
	conn.Messages <- []byte(`not json`)
	conn.Messages <- []byte(`{"time":"t2","actual_load":"high"}`)
	conn.Messages <- payload("t3", 70, 50)
	close(conn.Messages)

	dialer := testutil.NewFakeDialer(testutil.DialResult{Conn: conn})
	clock := testutil.NewManualClock(time.Unix(0, 0))
	capture := testutil.NewCapturingPublisher()
	m := NewManager(testEndpoint, dialer, Options{Clock: clock, Emit: capture.Publish})

	h := &recordingHandler{}
	cancel, done := startRun(t, m, h)

	testutil.WaitFor(t, time.Second, "reconnect timer", func() bool { return clock.Pending() == 1 })

	want := []string{"open", "msg:t1", "parse_error", "parse_error", "msg:t3", "close"}
	got := h.Events()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if !conn.Closed() {
		t.Error("expected connection to be closed after the read loop ended")
	}
	if m.State() != StateClosedPendingRetry {
		t.Errorf("expected closed_pending_retry, got %s", m.State())
	}
	if n := capture.Count("message_received"); n != 4 {
		t.Errorf("expected 4 message_received events, got %d", n)
	}

	parseErrors := 0
	for _, e := range capture.Snapshot() {
		if se, ok := e.(telemetry.StreamError); ok && se.Context == "message_parse" {
			parseErrors++
			if !errors.Is(se.Err, ErrParse) {
				t.Errorf("expected ErrParse in telemetry, got %v", se.Err)
			}
		}
	}
	if parseErrors != 2 {
		t.Errorf("expected 2 message_parse errors, got %d", parseErrors)
	}

	cancel()
	if err := waitRun(t, done); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestManager_ReconnectsAfterFixedDelay(t *testing.T) {
	dialer := testutil.NewFakeDialer() // every dial fails
	clock := testutil.NewManualClock(time.Unix(0, 0))
	capture := testutil.NewCapturingPublisher()
	m := NewManager(testEndpoint, dialer, Options{Clock: clock, Emit: capture.Publish})

	h := &recordingHandler{}
	cancel, done := startRun(t, m, h)

	testutil.WaitFor(t, time.Second, "first retry wait", func() bool { return clock.Pending() == 1 })
	if dialer.CallCount() != 1 {
		t.Fatalf("expected 1 dial, got %d", dialer.CallCount())
	}
	if h.count("close") != 1 {
		t.Errorf("expected 1 close callback, got %d", h.count("close"))
	}
	if h.count("open") != 0 {
		t.Errorf("expected no open callback for a failed dial, got %d", h.count("open"))
	}

	clock.Advance(DefaultRetryDelay - time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if dialer.CallCount() != 1 {
		t.Fatalf("redialed before the retry delay elapsed: %d dials", dialer.CallCount())
	}

	clock.Advance(time.Millisecond)
	testutil.WaitFor(t, time.Second, "second dial", func() bool { return dialer.CallCount() == 2 })
	testutil.WaitFor(t, time.Second, "second retry wait", func() bool { return clock.Pending() == 1 })

	for i, d := range clock.AfterCalls() {
		if d != DefaultRetryDelay {
			t.Errorf("wait %d: expected %s, got %s", i, DefaultRetryDelay, d)
		}
	}
	if n := len(clock.AfterCalls()); n != 2 {
		t.Errorf("expected exactly one wait per close (2), got %d", n)
	}
	if n := capture.Count("reconnect_scheduled"); n != 2 {
		t.Errorf("expected 2 reconnect_scheduled events, got %d", n)
	}
	for _, endpoint := range dialer.Calls() {
		if endpoint != testEndpoint {
			t.Errorf("dialed %q, want %q", endpoint, testEndpoint)
		}
	}

	cancel()
	if err := waitRun(t, done); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestManager_CustomRetryDelay(t *testing.T) {
	dialer := testutil.NewFakeDialer()
	clock := testutil.NewManualClock(time.Unix(0, 0))
	m := NewManager(testEndpoint, dialer, Options{Clock: clock, RetryDelay: 250 * time.Millisecond})

	_, _ = startRun(t, m, &recordingHandler{})
	testutil.WaitFor(t, time.Second, "retry wait", func() bool { return clock.Pending() == 1 })

	calls := clock.AfterCalls()
	if len(calls) != 1 || calls[0] != 250*time.Millisecond {
		t.Errorf("expected a single 250ms wait, got %v", calls)
	}
}

func TestManager_OneConnectionAtATime(t *testing.T) {
	first := testutil.NewFakeConn(1)
	second := testutil.NewFakeConn(1)
	dialer := testutil.NewFakeDialer(
		testutil.DialResult{Conn: first},
		testutil.DialResult{Conn: second},
	)
	clock := testutil.NewManualClock(time.Unix(0, 0))
	m := NewManager(testEndpoint, dialer, Options{Clock: clock})

	var mu sync.Mutex
	var closedAtCallback bool
	var dialsAtCallback int
	h := &recordingHandler{onClose: func(error) {
		mu.Lock()
		defer mu.Unlock()
		closedAtCallback = first.Closed()
		dialsAtCallback = dialer.CallCount()
	}}

	_, _ = startRun(t, m, h)
	testutil.WaitFor(t, time.Second, "first open", func() bool { return h.count("open") == 1 })
	if m.State() != StateOpen {
		t.Errorf("expected open state, got %s", m.State())
	}

	close(first.Messages)
	testutil.WaitFor(t, time.Second, "close callback", func() bool { return h.count("close") == 1 })

	mu.Lock()
	if !closedAtCallback {
		t.Error("expected the old connection to be released before the close callback")
	}
	if dialsAtCallback != 1 {
		t.Errorf("expected no new dial before the close callback, got %d dials", dialsAtCallback)
	}
	mu.Unlock()

	testutil.WaitFor(t, time.Second, "retry wait", func() bool { return clock.Pending() == 1 })
	clock.Advance(DefaultRetryDelay)
	testutil.WaitFor(t, time.Second, "second open", func() bool { return h.count("open") == 2 })

	if second.Closed() {
		t.Error("second connection should still be open")
	}
}

func TestManager_CancelWhileOpen(t *testing.T) {
	conn := testutil.NewFakeConn(1)
	dialer := testutil.NewFakeDialer(testutil.DialResult{Conn: conn})
	capture := testutil.NewCapturingPublisher()
	m := NewManager(testEndpoint, dialer, Options{Clock: testutil.NewManualClock(time.Unix(0, 0)), Emit: capture.Publish})

	h := &recordingHandler{}
	cancel, done := startRun(t, m, h)
	testutil.WaitFor(t, time.Second, "open", func() bool { return h.count("open") == 1 })

	cancel()
	if err := waitRun(t, done); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if h.count("close") != 0 {
		t.Error("shutdown should not report a stream close")
	}
	if !conn.Closed() {
		t.Error("expected connection to be closed on shutdown")
	}
	if n := capture.Count("stream_error"); n != 0 {
		t.Errorf("expected no stream errors on shutdown, got %d", n)
	}
}

func TestManager_StateTelemetry(t *testing.T) {
	conn := testutil.NewFakeConn(1)
	close(conn.Messages)
	dialer := testutil.NewFakeDialer(testutil.DialResult{Conn: conn})
	clock := testutil.NewManualClock(time.Unix(0, 0))
	capture := testutil.NewCapturingPublisher()
	m := NewManager(testEndpoint, dialer, Options{Clock: clock, Emit: capture.Publish})

	_, _ = startRun(t, m, &recordingHandler{})
	testutil.WaitFor(t, time.Second, "retry wait", func() bool { return clock.Pending() == 1 })

	var states []string
	for _, e := range capture.Snapshot() {
		if sc, ok := e.(telemetry.ConnectionStateChanged); ok {
			states = append(states, sc.State)
			if sc.Endpoint != testEndpoint {
				t.Errorf("expected endpoint %q, got %q", testEndpoint, sc.Endpoint)
			}
		}
	}
	// initial state is already connecting, so the first transition is to open
	want := []string{"open", "closed_pending_retry"}
	if len(states) != len(want) {
		t.Fatalf("expected states %v, got %v", want, states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("state %d: expected %q, got %q", i, want[i], states[i])
		}
	}
}
