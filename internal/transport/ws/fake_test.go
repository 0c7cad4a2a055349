package ws

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

// fakeConn replays scripted inbound frames and records writes.
type fakeConn struct {
	reads     chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	writes [][]byte
}

func newFakeConn(frames ...string) *fakeConn {
	c := &fakeConn{
		reads:  make(chan []byte, len(frames)+1),
		closed: make(chan struct{}),
	}
	for _, f := range frames {
		c.reads <- []byte(f)
	}
	return c
}

// hangUp makes the next Read after the scripted frames fail like a remote close.
func (c *fakeConn) hangUp() {
	close(c.reads)
}

func (c *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-c.reads:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-c.closed:
		return nil, net.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) Write(_ context.Context, data []byte) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.writes))
	for _, w := range c.writes {
		out = append(out, string(w))
	}
	return out
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func dialTo(conn Conn) Dialer {
	return DialerFunc(func(context.Context, string) (Conn, error) {
		return conn, nil
	})
}

// drainEvents collects events until the stream closes.
func drainEvents(t *testing.T, ch <-chan proto.Event) []proto.Event {
	t.Helper()

	var out []proto.Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("event stream not closed, got %d events so far", len(out))
			return nil
		}
	}
}

func mustEvent(t *testing.T, ch <-chan proto.Event) proto.Event {
	t.Helper()

	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("event stream closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("expected event not received")
		return nil
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
