package transport

import (
	"context"
)

// Conn is an open push-stream connection delivering whole messages.
// This allows us to mock the socket in tests without a network.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer opens stream connections. WSDialer is the production implementation.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}
