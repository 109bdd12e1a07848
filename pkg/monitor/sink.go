package monitor

import (
	"context"

	"load-monitor/pkg/telemetry"
)

// DefaultSinkBuffer is the event queue length used when NewSink gets <= 0.
const DefaultSinkBuffer = 200

// Sink decouples the stream goroutine from telemetry publishers. Emit never
// blocks; events are dropped when the queue is full.
type Sink struct {
	pub    telemetry.TelemetryPublisher
	ch     chan telemetry.TelemetryEvent
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSink(pub telemetry.TelemetryPublisher, buffer int) *Sink {
	if buffer <= 0 {
		buffer = DefaultSinkBuffer
	}
	return &Sink{
		pub: pub,
		ch:  make(chan telemetry.TelemetryEvent, buffer),
	}
}

// Start launches the publishing goroutine. Calling it twice is a no-op.
func (s *Sink) Start() {
	if s.pub == nil || s.ctx != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		for {
			select {
			case ev := <-s.ch:
				s.pub.Publish(ev)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the publishing goroutine and waits for it. Queued events are
// discarded.
func (s *Sink) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sink) Emit(event telemetry.TelemetryEvent) {
	if s == nil {
		return
	}
	select {
	case s.ch <- event:
	default:
	}
}
