package ws

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestHubDeliversToClientConnections(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	clientID := uuid.New()
	mine := &Conn{hub: h, send: make(chan []byte, 4), clientID: clientID}
	other := &Conn{hub: h, send: make(chan []byte, 4), clientID: uuid.New()}
	h.Register(mine)
	h.Register(other)
	waitFor(t, func() bool { return h.ConnCount() == 2 }, "connections never registered")

	h.Send(clientID, []byte(`{"type":"match_ready"}`))

	select {
	case got := <-mine.send:
		if string(got) != `{"type":"match_ready"}` {
			t.Fatalf("unexpected payload %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("targeted connection never received the event")
	}

	select {
	case got := <-other.send:
		t.Fatalf("foreign connection received %q", got)
	default:
	}
}

func TestHubDropsSlowConnectionInline(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	clientID := uuid.New()
	healthy := &Conn{hub: h, send: make(chan []byte, 4), clientID: clientID}
	stuck := &Conn{hub: h, send: make(chan []byte), clientID: clientID}
	h.Register(healthy)
	h.Register(stuck)
	waitFor(t, func() bool { return h.ConnCount() == 2 }, "connections never registered")

	h.Send(clientID, []byte("event"))

	waitFor(t, func() bool { return h.ConnCount() == 1 }, "stuck connection was never dropped")

	if got := <-healthy.send; string(got) != "event" {
		t.Fatalf("healthy connection got %q", got)
	}
	select {
	case _, open := <-stuck.send:
		if open {
			t.Fatal("stuck connection unexpectedly received the event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stuck connection's send channel was never closed")
	}
}
