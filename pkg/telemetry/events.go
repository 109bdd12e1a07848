package telemetry

import "time"

type TelemetryEvent interface {
	Timestamp() time.Time // When the event occurred
	EventType() string    // For categorization/filtering
}

type ConnectionStateChanged struct {
	timestamp time.Time
	Endpoint  string
	State     string // "connecting", "open" or "closed_pending_retry"
}

func (e ConnectionStateChanged) Timestamp() time.Time { return e.timestamp }
func (e ConnectionStateChanged) EventType() string    { return "connection_state_changed" }

func NewConnectionStateChanged(endpoint, state string) ConnectionStateChanged {
	return ConnectionStateChanged{
		timestamp: time.Now(),
		Endpoint:  endpoint,
		State:     state,
	}
}

// Connected reports whether the new state is an open connection.
func (e ConnectionStateChanged) Connected() bool { return e.State == "open" }

type MessageReceived struct {
	timestamp time.Time
	Bytes     int
}

func (e MessageReceived) Timestamp() time.Time { return e.timestamp }
func (e MessageReceived) EventType() string    { return "message_received" }

func NewMessageReceived(bytes int) MessageReceived {
	return MessageReceived{timestamp: time.Now(), Bytes: bytes}
}

// SampleApplied is emitted once a message has updated the readouts and the chart.
type SampleApplied struct {
	timestamp     time.Time
	Label         string
	ActualLoad    float64
	PredictedLoad float64
	Insight       string
	WindowSize    int
}

func (e SampleApplied) Timestamp() time.Time { return e.timestamp }
func (e SampleApplied) EventType() string    { return "sample_applied" }

func NewSampleApplied(label string, actual, predicted float64, insight string, windowSize int) SampleApplied {
	return SampleApplied{
		timestamp:     time.Now(),
		Label:         label,
		ActualLoad:    actual,
		PredictedLoad: predicted,
		Insight:       insight,
		WindowSize:    windowSize,
	}
}

type ReconnectScheduled struct {
	timestamp time.Time
	Delay     time.Duration
	Attempt   int // consecutive failed sessions, starting at 1
}

func (e ReconnectScheduled) Timestamp() time.Time { return e.timestamp }
func (e ReconnectScheduled) EventType() string    { return "reconnect_scheduled" }

func NewReconnectScheduled(delay time.Duration, attempt int) ReconnectScheduled {
	return ReconnectScheduled{timestamp: time.Now(), Delay: delay, Attempt: attempt}
}

type StreamError struct {
	timestamp time.Time
	Err       error
	Context   string // e.g. "dial", "read", "message_parse"
	Severity  ErrorSeverity
}

func (e StreamError) Timestamp() time.Time { return e.timestamp }
func (e StreamError) EventType() string    { return "stream_error" }

func NewStreamError(err error, context string, severity ErrorSeverity) StreamError {
	return StreamError{
		timestamp: time.Now(),
		Err:       err,
		Context:   context,
		Severity:  severity,
	}
}

type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

type TelemetryPublisher interface {
	// Publish sends a telemetry event to the aggregator.
	// This is a non-blocking, fire-and-forget call.
	Publish(event TelemetryEvent)
}

// FanOut forwards every event to each publisher in order.
type FanOut []TelemetryPublisher

func (f FanOut) Publish(event TelemetryEvent) {
	for _, p := range f {
		if p != nil {
			p.Publish(event)
		}
	}
}
