package jmap

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by operations that need a discovered
	// session before one is installed.
	ErrNoSession = errors.New("jmap: no session discovered yet")
	// ErrAlreadySubscribed is returned when a second push subscription
	// is opened without closing the first.
	ErrAlreadySubscribed = errors.New("jmap: push subscription already active")
	// ErrResultMissing is returned when a response carries no invocation
	// for the requested call id.
	ErrResultMissing = errors.New("jmap: no result for call")
	// ErrClosed is returned by operations on a closed client.
	ErrClosed = errors.New("jmap: client is closed")
	// ErrWebSocketUnsupported is returned when the session does not
	// advertise the websocket capability.
	ErrWebSocketUnsupported = errors.New("jmap: server does not advertise websocket support")
)

// DiscoveryError reports a failed session fetch: an unreachable endpoint,
// a non-2xx status, or an undecodable session object.
type DiscoveryError struct {
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jmap: discovery %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("jmap: discovery %s failed: HTTP %d: %s", e.URL, e.Status, e.Body)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// RequestError reports a non-2xx status on an API exchange.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("jmap: request failed: HTTP %d: %s", e.Status, e.Body)
}

// MethodError reports a method-level failure: the server answered a call
// position with the "error" pseudo-method or an unexpected method name.
type MethodError struct {
	CallID string
	Method string
	Want   string
	Args   map[string]any
}

func (e *MethodError) Error() string {
	if e.Method == "error" {
		return fmt.Sprintf("jmap: call %s failed: %s", e.CallID, e.Type())
	}
	return fmt.Sprintf("jmap: call %s answered with %q, want %q", e.CallID, e.Method, e.Want)
}

// Type returns the error type argument the server sent, if any.
func (e *MethodError) Type() string {
	t, _ := e.Args["type"].(string)
	return t
}

// Description returns the human-readable detail the server sent, if any.
func (e *MethodError) Description() string {
	d, _ := e.Args["description"].(string)
	return d
}
