package stream

import "time"

// Handler receives connection lifecycle events and messages. All callbacks are
// invoked from the Manager's goroutine, one at a time, in arrival order.
type Handler interface {
	OnOpen()
	OnMessage(msg Message)
	OnParseError(raw []byte, err error)
	OnClose(err error)
}

// Clock allows the retry delay to be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time                         { return time.Now() }
func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
