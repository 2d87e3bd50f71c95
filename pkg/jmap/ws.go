package jmap

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// WebSocketCapability mirrors the urn:ietf:params:jmap:websocket session
// capability from RFC 8887.
type WebSocketCapability struct {
	URL          string
	SupportsPush bool
}

var webSocketCapabilityType = wire.NewRecordType("WebSocketCapability",
	func() wire.Record { return new(WebSocketCapability) },
	wire.F("url", wire.TString,
		func(r *WebSocketCapability) any { return r.URL },
		func(r *WebSocketCapability, v any) { r.URL = wire.As[string](v) }),
	wire.F("supports_push", wire.TBool,
		func(r *WebSocketCapability) any { return r.SupportsPush },
		func(r *WebSocketCapability, v any) { r.SupportsPush = wire.As[bool](v) }),
)

func (*WebSocketCapability) RecordType() *wire.RecordType { return webSocketCapabilityType }

// WebSocket decodes the websocket capability from the session.
func (s *Session) WebSocket() (*WebSocketCapability, error) {
	raw, ok := s.Capabilities[CapabilityWebSocket]
	if !ok {
		return nil, ErrWebSocketUnsupported
	}
	rec, err := wire.DecodeRecord(raw, webSocketCapabilityType)
	if err != nil {
		return nil, fmt.Errorf("jmap: invalid websocket capability: %w", err)
	}
	return rec.(*WebSocketCapability), nil
}

// SubscribeWebSocket opens an RFC 8887 push channel instead of the
// event-source stream. It shares the single-subscription slot with
// Subscribe. Only Types from opts applies; the socket has no ping or
// closeafter parameters.
func (c *Client) SubscribeWebSocket(ctx context.Context, handler EventHandler, opts SubscribeOptions) (*Subscription, error) {
	session, sub, err := c.reservePushSlot(ctx)
	if err != nil {
		return nil, err
	}
	wsCap, err := session.WebSocket()
	if err != nil {
		c.releasePushSlot(sub)
		return nil, err
	}
	if !wsCap.SupportsPush {
		c.releasePushSlot(sub)
		return nil, fmt.Errorf("%w: push not enabled", ErrWebSocketUnsupported)
	}

	c.wg.Add(1)
	go c.runWebSocketStream(sub, wsCap.URL, opts.Types, handler)
	return sub, nil
}

func (c *Client) runWebSocketStream(sub *Subscription, wsURL string, dataTypes []string, handler EventHandler) {
	ctx := sub.ctx
	defer c.wg.Done()
	defer close(sub.done)

	header := http.Header{}
	c.creds.authorize(header)
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		Subprotocols: []string{"jmap"},
		HTTPHeader:   header,
	})
	if err != nil {
		if ctx.Err() != nil {
			sub.setState(StateCancelled)
			return
		}
		sub.setState(StateFailed)
		c.log.Error().Err(err).Msg("WebSocket connect failed")
		return
	}
	defer conn.CloseNow()

	enable := map[string]any{"@type": "WebSocketPushEnable"}
	if len(dataTypes) > 0 {
		enable["dataTypes"] = dataTypes
	} else {
		enable["dataTypes"] = nil
	}
	if err := wsjson.Write(ctx, conn, enable); err != nil {
		if ctx.Err() != nil {
			sub.setState(StateCancelled)
			return
		}
		sub.setState(StateFailed)
		c.log.Error().Err(err).Msg("WebSocket push enable failed")
		return
	}

	sub.setState(StateStreaming)
	c.log.Debug().Str("url", wsURL).Msg("WebSocket push connected")

	// Reads happen on their own goroutine with an uncancelled context so
	// the socket stays healthy when the subscription is cancelled; the
	// driver can then still deliver the push disable before closing.
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.Read(context.Background())
			if err != nil {
				readErr <- err
				return
			}
			if ctx.Err() != nil {
				readErr <- ctx.Err()
				return
			}
			handler(buildStateEvent("state", string(data)))
			runtime.Gosched()
		}
	}()

	select {
	case <-ctx.Done():
		sub.setState(StateCancelled)
		c.disablePush(conn)
		conn.Close(websocket.StatusNormalClosure, "")
		<-readErr
	case err := <-readErr:
		switch {
		case ctx.Err() != nil:
			sub.setState(StateCancelled)
		case websocket.CloseStatus(err) == websocket.StatusNormalClosure:
			sub.setState(StateClosed)
			c.log.Debug().Msg("WebSocket closed by server")
		default:
			sub.setState(StateFailed)
			c.log.Error().Err(err).Msg("WebSocket read failed")
		}
	}
}

// disablePush is the RFC 8887 courtesy notice sent on a client-initiated
// close. The subscription context is already cancelled here, so the write
// gets its own short deadline.
func (c *Client) disablePush(conn *websocket.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	disable := map[string]any{"@type": "WebSocketPushDisable"}
	if err := wsjson.Write(ctx, conn, disable); err != nil {
		c.log.Debug().Err(err).Msg("WebSocket push disable failed")
	}
}
