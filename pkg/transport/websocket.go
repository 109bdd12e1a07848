package transport

import (
	"context"

	"github.com/coder/websocket"
)

// maxMessageBytes bounds a single feed message.
const maxMessageBytes = 64 << 10

// WSDialer dials the stream over websocket.
type WSDialer struct {
	Options *websocket.DialOptions
}

func (d WSDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	c, _, err := websocket.Dial(ctx, endpoint, d.Options)
	if err != nil {
		return nil, err
	}
	c.SetReadLimit(maxMessageBytes)
	return &wsConn{conn: c}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.conn.Read(ctx)
	return data, err
}

func (w *wsConn) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "")
}
