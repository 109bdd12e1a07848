package stream

// ConnectionState is the lifecycle stage of the stream connection.
type ConnectionState int

const (
	StateConnecting ConnectionState = iota
	StateOpen
	StateClosedPendingRetry
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosedPendingRetry:
		return "closed_pending_retry"
	default:
		return "unknown"
	}
}
