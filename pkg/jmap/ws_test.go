package jmap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// wsStream is one accepted push socket. enable is the
// WebSocketPushEnable message the client opened with; payloads written
// to send are pushed to the client, closing send performs a normal
// closure, and any further client messages land on recv.
type wsStream struct {
	enable map[string]any
	send   chan any
	recv   chan map[string]any
}

func newWSServer(t *testing.T) (*httptest.Server, chan *wsStream) {
	streams := make(chan *wsStream, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols: []string{"jmap"},
		})
		if err != nil {
			t.Errorf("websocket accept: %v", err)
			return
		}
		defer conn.CloseNow()

		var enable map[string]any
		if err := wsjson.Read(r.Context(), conn, &enable); err != nil {
			t.Errorf("read push enable: %v", err)
			return
		}
		st := &wsStream{
			enable: enable,
			send:   make(chan any),
			recv:   make(chan map[string]any, 4),
		}
		streams <- st

		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			for {
				var m map[string]any
				if err := wsjson.Read(context.Background(), conn, &m); err != nil {
					return
				}
				select {
				case st.recv <- m:
				default:
				}
			}
		}()
		for {
			select {
			case payload, open := <-st.send:
				if !open {
					conn.Close(websocket.StatusNormalClosure, "")
					<-readDone
					return
				}
				if err := wsjson.Write(context.Background(), conn, payload); err != nil {
					<-readDone
					return
				}
			case <-readDone:
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, streams
}

// newWSClient injects a session advertising the websocket capability.
func newWSClient(t *testing.T, baseURL string, supportsPush bool) *Client {
	c, err := NewClient(Config{Domain: baseURL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http")
	c.session.Store(&Session{
		Capabilities: map[string]any{
			CapabilityCore: map[string]any{},
			CapabilityWebSocket: map[string]any{
				"url":          wsURL,
				"supportsPush": supportsPush,
			},
		},
		APIURL: baseURL + "/api",
		State:  "s1",
	})
	return c
}

func recvWS(t *testing.T, ch <-chan *wsStream) *wsStream {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the server to accept a socket")
		return nil
	}
}

func TestSubscribeWebSocketDeliversEvents(t *testing.T) {
	srv, streams := newWSServer(t)
	c := newWSClient(t, srv.URL, true)

	events := make(chan StateEvent, 8)
	sub, err := c.SubscribeWebSocket(context.Background(), func(ev StateEvent) { events <- ev }, SubscribeOptions{
		Types: []string{"Email"},
	})
	if err != nil {
		t.Fatalf("SubscribeWebSocket: %v", err)
	}

	stream := recvWS(t, streams)
	if stream.enable["@type"] != "WebSocketPushEnable" {
		t.Fatalf("enable = %v", stream.enable)
	}
	types, ok := stream.enable["dataTypes"].([]any)
	if !ok || len(types) != 1 || types[0] != "Email" {
		t.Fatalf("dataTypes = %v", stream.enable["dataTypes"])
	}

	stream.send <- map[string]any{
		"@type":   "StateChange",
		"changed": map[string]any{"a1": map[string]any{"Email": "e5"}},
	}
	ev := recvEvent(t, events)
	if ev.Type != "state" {
		t.Fatalf("event type = %q", ev.Type)
	}
	if ev.Changed["a1"]["Email"] != "e5" {
		t.Fatalf("changed = %v", ev.Changed)
	}
	if sub.State() != StateStreaming {
		t.Fatalf("state = %v, want streaming", sub.State())
	}

	// Objects of another @type still reach the handler unparsed.
	stream.send <- map[string]any{"@type": "RequestError", "detail": "nope"}
	ev = recvEvent(t, events)
	if ev.Changed != nil {
		t.Fatalf("changed = %v, want nil for a non-StateChange payload", ev.Changed)
	}

	close(stream.send)
	waitDone(t, sub)
	if sub.State() != StateClosed {
		t.Fatalf("state = %v, want closed", sub.State())
	}
}

func TestSubscribeWebSocketAllTypes(t *testing.T) {
	srv, streams := newWSServer(t)
	c := newWSClient(t, srv.URL, true)

	sub, err := c.SubscribeWebSocket(context.Background(), func(StateEvent) {}, SubscribeOptions{})
	if err != nil {
		t.Fatalf("SubscribeWebSocket: %v", err)
	}
	stream := recvWS(t, streams)
	if v, present := stream.enable["dataTypes"]; !present || v != nil {
		t.Fatalf("dataTypes = %v, want explicit null", v)
	}

	sub.Close()
	waitDone(t, sub)
	if sub.State() != StateCancelled {
		t.Fatalf("state = %v, want cancelled", sub.State())
	}

	// A client-initiated close announces itself before disconnecting.
	select {
	case m := <-stream.recv:
		if m["@type"] != "WebSocketPushDisable" {
			t.Fatalf("client sent %v, want WebSocketPushDisable", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the push disable message")
	}
}

func TestSubscribeWebSocketSharesPushSlot(t *testing.T) {
	srv, streams := newWSServer(t)
	c := newWSClient(t, srv.URL, true)

	nop := func(StateEvent) {}
	sub, err := c.SubscribeWebSocket(context.Background(), nop, SubscribeOptions{})
	if err != nil {
		t.Fatalf("SubscribeWebSocket: %v", err)
	}
	recvWS(t, streams)

	if _, err := c.SubscribeWebSocket(context.Background(), nop, SubscribeOptions{}); err != ErrAlreadySubscribed {
		t.Fatalf("second socket err = %v, want ErrAlreadySubscribed", err)
	}
	if _, err := c.Subscribe(context.Background(), nop, SubscribeOptions{}); err != ErrAlreadySubscribed {
		t.Fatalf("event-source err = %v, want ErrAlreadySubscribed", err)
	}

	sub.Close()
	waitDone(t, sub)
}

func TestSubscribeWebSocketUnsupported(t *testing.T) {
	srv, _ := newWSServer(t)

	c := newWSClient(t, srv.URL, false)
	_, err := c.SubscribeWebSocket(context.Background(), func(StateEvent) {}, SubscribeOptions{})
	if !errors.Is(err, ErrWebSocketUnsupported) {
		t.Fatalf("err = %v, want ErrWebSocketUnsupported", err)
	}

	c.session.Store(&Session{
		Capabilities: map[string]any{CapabilityCore: map[string]any{}},
		APIURL:       srv.URL + "/api",
		State:        "s1",
	})
	_, err = c.SubscribeWebSocket(context.Background(), func(StateEvent) {}, SubscribeOptions{})
	if !errors.Is(err, ErrWebSocketUnsupported) {
		t.Fatalf("err = %v, want ErrWebSocketUnsupported", err)
	}
}
