package jmap

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// SubscriptionState tracks a push subscription's lifecycle. Idle means
// connecting, Streaming means events flow. The terminal states record
// how the stream ended: Closed by the server, Cancelled by the caller,
// Failed on error.
type SubscriptionState int32

const (
	StateIdle SubscriptionState = iota
	StateStreaming
	StateClosed
	StateCancelled
	StateFailed
)

var subscriptionStateNames = map[SubscriptionState]string{
	StateIdle:      "idle",
	StateStreaming: "streaming",
	StateClosed:    "closed",
	StateCancelled: "cancelled",
	StateFailed:    "failed",
}

func (s SubscriptionState) String() string {
	if name, ok := subscriptionStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SubscriptionState(%d)", int32(s))
}

// StateEvent is one push notification. Data carries the raw payload.
// Changed is non-nil when the payload parses as a StateChange object,
// mapping account id to per-type state strings.
type StateEvent struct {
	Type    string
	Data    string
	Changed map[wire.ID]map[string]string
}

// EventHandler receives push events on the driver goroutine. The driver
// yields between dispatches so a busy stream cannot starve other
// goroutines.
type EventHandler func(StateEvent)

// SubscribeOptions tune the push stream.
type SubscribeOptions struct {
	// Types filters which record types trigger events. Empty means all.
	Types []string
	// Ping is the server keep-alive interval. Zero means 30 seconds.
	Ping time.Duration
	// CloseAfter sets the event-source closeafter mode. Empty means
	// "state".
	CloseAfter string
}

// Subscription is the owned handle on one push stream. The goroutine
// behind it is cancelled through Close and reports its exit via Done.
type Subscription struct {
	state  atomic.Int32
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	log    zerolog.Logger
}

// State returns the current lifecycle state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// Active reports whether the subscription still owns the client's push
// slot.
func (s *Subscription) Active() bool {
	st := s.State()
	return st == StateIdle || st == StateStreaming
}

// Done closes when the driver goroutine has fully stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close cancels the stream and waits a bounded time for the driver to
// stop.
func (s *Subscription) Close() error {
	s.cancel()
	select {
	case <-s.done:
	case <-time.After(closeGrace):
		s.log.Warn().Msg("Timed out waiting for push driver to stop")
	}
	return nil
}

func (s *Subscription) setState(st SubscriptionState) {
	s.state.Store(int32(st))
}

// Subscribe opens the event-source stream and dispatches push events to
// handler. Only one subscription may be active per client; a second call
// without closing the first returns ErrAlreadySubscribed.
func (c *Client) Subscribe(ctx context.Context, handler EventHandler, opts SubscribeOptions) (*Subscription, error) {
	session, sub, err := c.reservePushSlot(ctx)
	if err != nil {
		return nil, err
	}
	if session.EventSourceURL == "" {
		c.releasePushSlot(sub)
		return nil, fmt.Errorf("jmap: session has no event source url")
	}

	query := url.Values{}
	types := "*"
	if len(opts.Types) > 0 {
		types = strings.Join(opts.Types, ",")
	}
	query.Set("types", types)
	closeAfter := opts.CloseAfter
	if closeAfter == "" {
		closeAfter = "state"
	}
	query.Set("closeafter", closeAfter)
	ping := opts.Ping
	if ping <= 0 {
		ping = 30 * time.Second
	}
	query.Set("ping", strconv.Itoa(int(ping/time.Second)))

	c.wg.Add(1)
	go c.runEventStream(sub, session.EventSourceURL, query, handler)
	return sub, nil
}

// reservePushSlot enforces the single-subscription invariant and builds
// the owned handle. The caller context bounds the stream; Close cancels
// it independently.
func (c *Client) reservePushSlot(ctx context.Context) (*Session, *Subscription, error) {
	if c.closed.Load() {
		return nil, nil, ErrClosed
	}
	session := c.session.Load()
	if session == nil {
		return nil, nil, ErrNoSession
	}
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.sub != nil && c.sub.Active() {
		return nil, nil, ErrAlreadySubscribed
	}
	runCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ctx:    runCtx,
		cancel: cancel,
		done:   make(chan struct{}),
		log:    c.log,
	}
	c.sub = sub
	return session, sub, nil
}

func (c *Client) releasePushSlot(sub *Subscription) {
	sub.cancel()
	close(sub.done)
	sub.setState(StateFailed)
	c.subMu.Lock()
	if c.sub == sub {
		c.sub = nil
	}
	c.subMu.Unlock()
}

func (c *Client) runEventStream(sub *Subscription, rawURL string, query url.Values, handler EventHandler) {
	ctx := sub.ctx
	defer c.wg.Done()
	defer close(sub.done)

	status, body, err := c.transport.Get(ctx, rawURL, query)
	if err != nil {
		if ctx.Err() != nil {
			sub.setState(StateCancelled)
			return
		}
		sub.setState(StateFailed)
		c.log.Error().Err(err).Msg("Event stream connect failed")
		return
	}
	defer body.Close()
	if status < 200 || status >= 300 {
		data, _ := io.ReadAll(io.LimitReader(body, 4096))
		sub.setState(StateFailed)
		c.log.Error().Int("status", status).Str("body", string(data)).Msg("Event stream rejected")
		return
	}

	sub.setState(StateStreaming)
	c.log.Debug().Str("url", rawURL).Msg("Event stream connected")

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var eventType string
	var dataLines []string
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			sub.setState(StateCancelled)
			return
		default:
		}
		line := scanner.Text()
		switch {
		case line == "":
			if len(dataLines) > 0 {
				handler(buildStateEvent(eventType, strings.Join(dataLines, "\n")))
				runtime.Gosched()
			}
			eventType = ""
			dataLines = dataLines[:0]
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		}
	}

	if ctx.Err() != nil {
		sub.setState(StateCancelled)
		return
	}
	if err := scanner.Err(); err != nil {
		sub.setState(StateFailed)
		c.log.Error().Err(err).Msg("Event stream read failed")
		return
	}
	sub.setState(StateClosed)
	c.log.Debug().Msg("Event stream closed by server")
}

func buildStateEvent(eventType, data string) StateEvent {
	if eventType == "" {
		eventType = "message"
	}
	ev := StateEvent{Type: eventType, Data: data}
	var tree any
	if err := json.Unmarshal([]byte(data), &tree); err == nil {
		if m, ok := tree.(map[string]any); ok {
			ev.Changed = parseStateChange(m)
		}
	}
	return ev
}

// parseStateChange extracts the changed map from a StateChange payload.
// Event-source payloads omit @type; websocket payloads carry it.
func parseStateChange(m map[string]any) map[wire.ID]map[string]string {
	if t, ok := m["@type"].(string); ok && t != "StateChange" {
		return nil
	}
	raw, _ := m["changed"].(map[string]any)
	if raw == nil {
		return nil
	}
	out := make(map[wire.ID]map[string]string, len(raw))
	for account, v := range raw {
		types, _ := v.(map[string]any)
		if types == nil {
			continue
		}
		states := make(map[string]string, len(types))
		for typ, st := range types {
			if s, ok := st.(string); ok {
				states[typ] = s
			}
		}
		out[wire.ID(account)] = states
	}
	return out
}
