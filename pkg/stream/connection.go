package stream

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"load-monitor/pkg/telemetry"
	"load-monitor/pkg/transport"
)

// DefaultRetryDelay is the fixed wait between a close and the next connection attempt.
const DefaultRetryDelay = 5 * time.Second

// DefaultDialTimeout bounds a single connection attempt.
const DefaultDialTimeout = 10 * time.Second

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	RetryDelay  time.Duration
	DialTimeout time.Duration
	Clock       Clock
	Logger      *log.Logger
	Emit        func(telemetry.TelemetryEvent)
}

// Manager owns the push-stream connection. It keeps exactly one connection
// attempt alive at a time and retries forever with a fixed delay.
type Manager struct {
	endpoint      string
	dialer        transport.Dialer
	retryDelay    time.Duration
	dialTimeout   time.Duration
	clock         Clock
	logger        *log.Logger
	telemetryEmit func(telemetry.TelemetryEvent)

	mu    sync.RWMutex
	state ConnectionState
}

// NewManager creates a Manager for an already derived endpoint.
func NewManager(endpoint string, dialer transport.Dialer, opts Options) *Manager {
	m := &Manager{
		endpoint:      endpoint,
		dialer:        dialer,
		retryDelay:    opts.RetryDelay,
		dialTimeout:   opts.DialTimeout,
		clock:         opts.Clock,
		logger:        opts.Logger,
		telemetryEmit: opts.Emit,
		state:         StateConnecting,
	}
	if m.retryDelay <= 0 {
		m.retryDelay = DefaultRetryDelay
	}
	if m.dialTimeout <= 0 {
		m.dialTimeout = DefaultDialTimeout
	}
	if m.clock == nil {
		m.clock = RealClock{}
	}
	return m
}

func (m *Manager) Endpoint() string { return m.endpoint }

// State returns the current lifecycle stage. Safe for concurrent use.
func (m *Manager) State() ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Run connects, delivers messages to h and reconnects after every close until
// ctx is cancelled. It returns ctx.Err().
func (m *Manager) Run(ctx context.Context, h Handler) error {
	failures := 0
	for {
		err := m.session(ctx, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		failures++
		m.setState(StateClosedPendingRetry)
		h.OnClose(err)
		m.logf("stream %s closed: %v; retrying in %s", m.endpoint, err, m.retryDelay)
		m.emit(telemetry.NewReconnectScheduled(m.retryDelay, failures))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.clock.After(m.retryDelay):
		}
	}
}

// session runs one connection from dial to close and returns why it ended.
func (m *Manager) session(ctx context.Context, h Handler) error {
	m.setState(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, m.dialTimeout)
	conn, err := m.dialer.Dial(dialCtx, m.endpoint)
	cancel()
	if err != nil {
		m.emitErr(err, "dial", telemetry.ErrorSeverityError)
		return fmt.Errorf("dial %s: %w", m.endpoint, err)
	}
	defer conn.Close()

	m.setState(StateOpen)
	m.logf("connected to %s", m.endpoint)
	h.OnOpen()

	for {
		payload, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				m.emitErr(err, "read", telemetry.ErrorSeverityWarning)
			}
			return fmt.Errorf("read: %w", err)
		}
		m.emit(telemetry.NewMessageReceived(len(payload)))

		msg, err := ParseMessage(payload)
		if err != nil {
			m.emitErr(err, "message_parse", telemetry.ErrorSeverityWarning)
			h.OnParseError(payload, err)
			continue
		}
		h.OnMessage(msg)
	}
}

func (m *Manager) setState(s ConnectionState) {
	m.mu.Lock()
	changed := m.state != s
	m.state = s
	m.mu.Unlock()
	if changed {
		m.emit(telemetry.NewConnectionStateChanged(m.endpoint, s.String()))
	}
}

func (m *Manager) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

func (m *Manager) emit(event telemetry.TelemetryEvent) {
	if m.telemetryEmit != nil {
		m.telemetryEmit(event)
	}
}

func (m *Manager) emitErr(err error, where string, severity telemetry.ErrorSeverity) {
	m.emit(telemetry.NewStreamError(err, where, severity))
}
