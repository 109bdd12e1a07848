package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/coder/websocket"
)

// FeedServer is a websocket broadcaster on /ws, standing in for the load feed.
type FeedServer struct {
	*httptest.Server

	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	accepted int
}

func NewFeedServer() *FeedServer {
	fs := &FeedServer{conns: make(map[*websocket.Conn]struct{})}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", fs.handle)
	fs.Server = httptest.NewServer(mux)
	return fs
}

func (fs *FeedServer) handle(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	fs.mu.Lock()
	fs.conns[c] = struct{}{}
	fs.accepted++
	fs.mu.Unlock()

	defer func() {
		fs.mu.Lock()
		delete(fs.conns, c)
		fs.mu.Unlock()
		c.CloseNow()
	}()

	// clients never send; reading only detects the hang-up
	for {
		if _, _, err := c.Read(r.Context()); err != nil {
			return
		}
	}
}

// Broadcast writes payload as a text message to every connected client.
func (fs *FeedServer) Broadcast(ctx context.Context, payload []byte) error {
	fs.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(fs.conns))
	for c := range fs.conns {
		conns = append(conns, c)
	}
	fs.mu.Unlock()

	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, payload); err != nil {
			return err
		}
	}
	return nil
}

// DropAll severs every client connection without a close handshake.
func (fs *FeedServer) DropAll() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for c := range fs.conns {
		c.CloseNow()
	}
}

// Connections is the number of clients currently connected.
func (fs *FeedServer) Connections() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.conns)
}

// Accepted is the total number of handshakes served.
func (fs *FeedServer) Accepted() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.accepted
}
