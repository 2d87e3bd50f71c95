package jmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

const (
	defaultMaxConcurrent = 4
	refreshTimeout       = 30 * time.Second
	closeGrace           = 2 * time.Second
)

// Config assembles a Client.
type Config struct {
	// Domain is a hostname or explicit http(s) origin used for session
	// discovery.
	Domain string

	Credentials Credentials

	// Transport overrides the default HTTP transport. Tests use this to
	// fake servers without a network.
	Transport Transport

	// RequestTimeout bounds API posts on the default transport. Zero
	// means 60 seconds.
	RequestTimeout time.Duration

	// MaxConcurrent caps in-flight API requests until discovery installs
	// the server's own limit. Zero means 4.
	MaxConcurrent int

	// Logger defaults to a disabled logger when nil.
	Logger *zerolog.Logger
}

// Client is a JMAP client engine: session discovery, batched method
// calls with back-references, and push subscriptions.
type Client struct {
	domain    string
	creds     Credentials
	transport Transport
	log       zerolog.Logger

	session    atomic.Pointer[Session]
	refreshing atomic.Bool

	semMu sync.Mutex
	sem   chan struct{}

	subMu sync.Mutex
	sub   *Subscription

	runCtx    context.Context
	runCancel context.CancelFunc
	wg        sync.WaitGroup
	closed    atomic.Bool
}

// NewClient builds a client. No network traffic happens until Discover.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Domain == "" {
		return nil, fmt.Errorf("jmap: domain is required")
	}
	transport := cfg.Transport
	if transport == nil {
		transport = newHTTPTransport(cfg.Credentials, cfg.RequestTimeout)
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		domain:    cfg.Domain,
		creds:     cfg.Credentials,
		transport: transport,
		log:       log.With().Str("component", "jmap").Logger(),
		sem:       make(chan struct{}, maxConcurrent),
		runCtx:    ctx,
		runCancel: cancel,
	}, nil
}

// Session returns the installed session, or nil before discovery.
func (c *Client) Session() *Session {
	return c.session.Load()
}

// Discover fetches the well-known session object, validates it, and
// installs it as the client's current session.
func (c *Client) Discover(ctx context.Context) (*Session, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	urlStr := DiscoveryURL(c.domain)
	status, body, err := c.transport.Get(ctx, urlStr, nil)
	if err != nil {
		return nil, &DiscoveryError{URL: urlStr, Err: err}
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &DiscoveryError{URL: urlStr, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if status < 200 || status >= 300 {
		return nil, &DiscoveryError{URL: urlStr, Status: status, Body: string(data)}
	}
	session, err := parseSession(data)
	if err != nil {
		return nil, &DiscoveryError{URL: urlStr, Err: err}
	}
	c.installSession(session)
	c.log.Debug().
		Str("username", session.Username).
		Str("state", session.State).
		Str("api_url", session.APIURL).
		Msg("Discovered session")
	return session, nil
}

func parseSession(data []byte) (*Session, error) {
	var tree any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("invalid session JSON: %w", err)
	}
	rec, err := wire.DecodeRecord(tree, sessionType)
	if err != nil {
		return nil, fmt.Errorf("invalid session object: %w", err)
	}
	session := rec.(*Session)
	if session.APIURL == "" {
		return nil, fmt.Errorf("session object has empty apiUrl")
	}
	return session, nil
}

// installSession swaps the session snapshot and resizes the request
// semaphore to the server's advertised concurrency limit. In-flight
// requests drain against the semaphore they acquired.
func (c *Client) installSession(s *Session) {
	c.session.Store(s)
	core, err := s.Core()
	if err != nil {
		return
	}
	limit := int(core.MaxConcurrentRequests)
	if limit <= 0 {
		return
	}
	c.semMu.Lock()
	if cap(c.sem) != limit {
		c.sem = make(chan struct{}, limit)
	}
	c.semMu.Unlock()
}

func (c *Client) currentSem() chan struct{} {
	c.semMu.Lock()
	defer c.semMu.Unlock()
	return c.sem
}

// Do executes a batched request against the discovered API endpoint and
// decodes the response envelope.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	session := c.session.Load()
	if session == nil {
		return nil, ErrNoSession
	}
	encoded, err := wire.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("jmap: failed to encode request: %w", err)
	}
	body, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("jmap: failed to marshal request: %w", err)
	}

	log := c.log.With().Str("request_id", uuid.NewString()).Logger()
	log.Trace().Int("calls", len(req.MethodCalls)).Msg("Sending API request")

	sem := c.currentSem()
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	status, respBody, err := c.transport.Post(ctx, session.APIURL, body)
	<-sem
	if err != nil {
		return nil, fmt.Errorf("jmap: request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &RequestError{Status: status, Body: string(respBody)}
	}
	resp, err := parseResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("jmap: invalid response: %w", err)
	}
	if resp.SessionState != "" && resp.SessionState != session.State {
		c.refreshSession(log, session.State, resp.SessionState)
	}
	return resp, nil
}

func parseResponse(data []byte) (*Response, error) {
	var tree any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	rec, err := wire.DecodeRecord(tree, responseType)
	if err != nil {
		return nil, err
	}
	return rec.(*Response), nil
}

// Call sends a single invocation and returns its matched result
// arguments.
func (c *Client) Call(ctx context.Context, using []string, inv Invocation) (map[string]any, error) {
	resp, err := c.Do(ctx, &Request{Using: using, MethodCalls: []Invocation{inv}})
	if err != nil {
		return nil, err
	}
	return resp.ResultFor(inv.CallID, inv.Name)
}

// refreshSession starts one background re-discovery after the server
// reported a session fingerprint different from the cached one.
// Concurrent observers coalesce into a single fetch.
func (c *Client) refreshSession(log zerolog.Logger, oldState, newState string) {
	if !c.refreshing.CompareAndSwap(false, true) {
		return
	}
	log.Debug().
		Str("old_state", oldState).
		Str("new_state", newState).
		Msg("Session state changed, refreshing in background")
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.refreshing.Store(false)
		ctx, cancel := context.WithTimeout(c.runCtx, refreshTimeout)
		defer cancel()
		if _, err := c.Discover(ctx); err != nil {
			log.Warn().Err(err).Msg("Background session refresh failed")
		}
	}()
}

// Close cancels background work and gives it a bounded window to stop.
// The client must not be used afterwards.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.runCancel()
	c.subMu.Lock()
	sub := c.sub
	c.subMu.Unlock()
	if sub != nil {
		sub.cancel()
	}
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(closeGrace):
		c.log.Warn().Msg("Timed out waiting for background goroutines to stop")
	}
	return nil
}

// NewCreationID mints a client-side creation id for */set create maps.
func NewCreationID() wire.ID {
	return wire.ID("c" + xid.New().String())
}
