package ws

import (
	"fmt"
	"testing"
	"time"
)

func newTestClient(userID string) *Client {
	return &Client{userID: userID, sendCh: make(chan []byte, 64)}
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case p := <-c.sendCh:
		return p
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestHub_RoomFanOut(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	// Two connections for alice (two tabs), one for bob.
	tab1 := newTestClient("alice")
	tab2 := newTestClient("alice")
	bob := newTestClient("bob")
	for _, c := range []*Client{tab1, tab2, bob} {
		h.register <- c
	}

	h.Send("alice", []byte("hello"))
	for _, c := range []*Client{tab1, tab2} {
		if got := string(recv(t, c)); got != "hello" {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	}
	select {
	case p := <-bob.sendCh:
		t.Fatalf("bob received foreign frame %q", p)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_OrderPreserved(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := newTestClient("alice")
	h.register <- c

	const n = 20
	for i := 0; i < n; i++ {
		h.Send("alice", []byte(fmt.Sprintf("msg-%d", i)))
	}
	for i := 0; i < n; i++ {
		if got, want := string(recv(t, c)), fmt.Sprintf("msg-%d", i); got != want {
			t.Fatalf("frame %d = %q, want %q", i, got, want)
		}
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := newTestClient("alice")
	h.register <- c
	h.unregister <- c

	if _, open := <-c.sendCh; open {
		t.Fatal("send channel not closed on unregister")
	}
	// Must not panic or block with the room gone.
	h.Send("alice", []byte("late"))
}
