package transport_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"load-monitor/pkg/testutil"
	"load-monitor/pkg/transport"
)

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
}

func TestWSDialer(t *testing.T) {
	fs := testutil.NewFeedServer()
	defer fs.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := transport.WSDialer{}.Dial(ctx, wsURL(fs.URL))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	testutil.WaitFor(t, 2*time.Second, "server side connection", func() bool { return fs.Connections() == 1 })

	for _, want := range []string{`{"n":1}`, `{"n":2}`} {
		if err := fs.Broadcast(ctx, []byte(want)); err != nil {
			t.Fatalf("broadcast: %v", err)
		}
		got, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}

func TestWSDialer_ServerDrop(t *testing.T) {
	fs := testutil.NewFeedServer()
	defer fs.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := transport.WSDialer{}.Dial(ctx, wsURL(fs.URL))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	testutil.WaitFor(t, 2*time.Second, "server side connection", func() bool { return fs.Connections() == 1 })
	fs.DropAll()

	if _, err := conn.Read(ctx); err == nil {
		t.Fatal("expected read error after the server dropped the connection")
	}
}

func TestWSDialer_OversizedMessage(t *testing.T) {
	fs := testutil.NewFeedServer()
	defer fs.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := transport.WSDialer{}.Dial(ctx, wsURL(fs.URL))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	testutil.WaitFor(t, 2*time.Second, "server side connection", func() bool { return fs.Connections() == 1 })
	// the write may fail or stall once the client gives up; only the read matters
	go fs.Broadcast(ctx, []byte(strings.Repeat("x", 128<<10)))

	if _, err := conn.Read(ctx); err == nil {
		t.Fatal("expected read error for a message over the size limit")
	}
}

func TestWSDialer_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := (transport.WSDialer{}).Dial(ctx, "ws://127.0.0.1:1/ws"); err == nil {
		t.Fatal("expected dial error for a closed port")
	}
}
