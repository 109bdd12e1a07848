// Package monitor turns stream callbacks into screen updates: readouts,
// insight text and the rolling chart.
package monitor

import (
	"log"

	"load-monitor/pkg/readout"
	"load-monitor/pkg/stream"
	"load-monitor/pkg/telemetry"
	"load-monitor/pkg/window"
)

// View is the presentation surface. Calls arrive from the stream goroutine,
// one at a time and in message order.
type View interface {
	// SetStatus replaces the insight field with a connection status message.
	SetStatus(text string)
	SetReadout(r readout.Readout)
	// Redraw renders the chart from s. It is called once after every window
	// mutation.
	Redraw(s window.Snapshot)
}

// Monitor implements stream.Handler. It owns the series window.
type Monitor struct {
	view          View
	window        *window.SeriesWindow
	logger        *log.Logger
	telemetryEmit func(telemetry.TelemetryEvent)
}

var _ stream.Handler = (*Monitor)(nil)

// New creates a Monitor drawing onto view with a window of maxPoints samples.
// logger and emit may be nil.
func New(view View, maxPoints int, logger *log.Logger, emit func(telemetry.TelemetryEvent)) *Monitor {
	return &Monitor{
		view:          view,
		window:        window.NewSeriesWindow(maxPoints),
		logger:        logger,
		telemetryEmit: emit,
	}
}

func (m *Monitor) OnOpen() {
	m.view.SetStatus(readout.StatusConnected)
}

func (m *Monitor) OnMessage(msg stream.Message) {
	r := readout.Project(msg)
	m.view.SetReadout(r)

	m.window.Append(msg.Time, msg.ActualLoad, msg.PredictedLoad)
	m.view.Redraw(m.window.Snapshot())

	if m.telemetryEmit != nil {
		m.telemetryEmit(telemetry.NewSampleApplied(msg.Time, msg.ActualLoad, msg.PredictedLoad, string(r.Insight), m.window.Len()))
	}
}

// OnParseError drops the payload. The display keeps its last good state.
func (m *Monitor) OnParseError(raw []byte, err error) {
	if m.logger != nil {
		m.logger.Printf("discarding malformed message (%d bytes): %v", len(raw), err)
	}
}

func (m *Monitor) OnClose(err error) {
	m.view.SetStatus(readout.StatusReconnecting)
}

// Snapshot copies the current window. Only call it from the goroutine that
// drives the handler.
func (m *Monitor) Snapshot() window.Snapshot { return m.window.Snapshot() }
