package jmap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

// sseStream is one accepted event-source connection. The test pushes
// raw SSE chunks through events; closing it ends the stream from the
// server side.
type sseStream struct {
	query  url.Values
	events chan string
}

func newSSEServer(t *testing.T) (*httptest.Server, chan *sseStream) {
	streams := make(chan *sseStream, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}
		st := &sseStream{query: r.URL.Query(), events: make(chan string)}
		streams <- st
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fl.Flush()
		for {
			select {
			case chunk, open := <-st.events:
				if !open {
					return
				}
				io.WriteString(w, chunk)
				fl.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, streams
}

// newStreamClient builds a client with a session injected directly, so
// push tests exercise the stream driver without a discovery round trip.
func newStreamClient(t *testing.T, baseURL string) *Client {
	c, err := NewClient(Config{Domain: baseURL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	c.session.Store(&Session{
		Capabilities:   map[string]any{CapabilityCore: map[string]any{}},
		APIURL:         baseURL + "/api",
		EventSourceURL: baseURL + "/events",
		State:          "s1",
	})
	return c
}

func recvStream(t *testing.T, ch <-chan *sseStream) *sseStream {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the server to accept a stream")
		return nil
	}
}

func recvEvent(t *testing.T, ch <-chan StateEvent) StateEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for an event")
		return StateEvent{}
	}
}

func waitDone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the subscription to stop")
	}
}

func TestSubscribeDeliversEvents(t *testing.T) {
	srv, streams := newSSEServer(t)
	c := newStreamClient(t, srv.URL)

	events := make(chan StateEvent, 8)
	sub, err := c.Subscribe(context.Background(), func(ev StateEvent) { events <- ev }, SubscribeOptions{
		Types: []string{"Email", "Mailbox"},
		Ping:  10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	stream := recvStream(t, streams)
	if got := stream.query.Get("types"); got != "Email,Mailbox" {
		t.Fatalf("types = %q", got)
	}
	if got := stream.query.Get("closeafter"); got != "state" {
		t.Fatalf("closeafter = %q", got)
	}
	if got := stream.query.Get("ping"); got != "10" {
		t.Fatalf("ping = %q", got)
	}

	stream.events <- ": keep-alive\n\n" +
		"event: state\n" +
		`data: {"changed":{"a1":{"Email":"e2","Mailbox":"m3"}}}` + "\n\n"
	ev := recvEvent(t, events)
	if ev.Type != "state" {
		t.Fatalf("event type = %q", ev.Type)
	}
	if ev.Changed["a1"]["Email"] != "e2" || ev.Changed["a1"]["Mailbox"] != "m3" {
		t.Fatalf("changed = %v", ev.Changed)
	}
	if sub.State() != StateStreaming {
		t.Fatalf("state = %v, want streaming", sub.State())
	}

	// A payload that is not a StateChange object still reaches the
	// handler, just without a parsed changed map.
	stream.events <- "data: 42\n\n"
	ev = recvEvent(t, events)
	if ev.Type != "message" || ev.Data != "42" || ev.Changed != nil {
		t.Fatalf("event = %+v", ev)
	}

	close(stream.events)
	waitDone(t, sub)
	if sub.State() != StateClosed {
		t.Fatalf("state = %v, want closed", sub.State())
	}
}

func TestSubscribeSingleSlot(t *testing.T) {
	srv, streams := newSSEServer(t)
	c := newStreamClient(t, srv.URL)

	nop := func(StateEvent) {}
	sub1, err := c.Subscribe(context.Background(), nop, SubscribeOptions{})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	recvStream(t, streams)

	if _, err := c.Subscribe(context.Background(), nop, SubscribeOptions{}); err != ErrAlreadySubscribed {
		t.Fatalf("second Subscribe err = %v, want ErrAlreadySubscribed", err)
	}

	if err := sub1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	waitDone(t, sub1)
	if sub1.State() != StateCancelled {
		t.Fatalf("state = %v, want cancelled", sub1.State())
	}

	sub2, err := c.Subscribe(context.Background(), nop, SubscribeOptions{})
	if err != nil {
		t.Fatalf("Subscribe after Close: %v", err)
	}
	recvStream(t, streams)
	sub2.Close()
}

func TestSubscribeContextCancel(t *testing.T) {
	srv, streams := newSSEServer(t)
	c := newStreamClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := c.Subscribe(ctx, func(StateEvent) {}, SubscribeOptions{})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	recvStream(t, streams)

	cancel()
	waitDone(t, sub)
	if sub.State() != StateCancelled {
		t.Fatalf("state = %v, want cancelled", sub.State())
	}
}

func TestSubscribeRejectedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := newStreamClient(t, srv.URL)

	sub, err := c.Subscribe(context.Background(), func(StateEvent) {}, SubscribeOptions{})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	waitDone(t, sub)
	if sub.State() != StateFailed {
		t.Fatalf("state = %v, want failed", sub.State())
	}

	// The failed stream released the push slot.
	sub2, err := c.Subscribe(context.Background(), func(StateEvent) {}, SubscribeOptions{})
	if err != nil {
		t.Fatalf("Subscribe after failure: %v", err)
	}
	waitDone(t, sub2)
}

func TestSubscribeRequiresEventSourceURL(t *testing.T) {
	srv, _ := newSSEServer(t)
	c := newStreamClient(t, srv.URL)
	c.session.Store(&Session{APIURL: srv.URL + "/api", State: "s1"})

	_, err := c.Subscribe(context.Background(), func(StateEvent) {}, SubscribeOptions{})
	if err == nil {
		t.Fatal("Subscribe succeeded without an event source url")
	}
	// The slot is free again after the early failure.
	if _, err2 := c.Subscribe(context.Background(), func(StateEvent) {}, SubscribeOptions{}); err2 == ErrAlreadySubscribed {
		t.Fatal("failed Subscribe kept the push slot")
	}
}
