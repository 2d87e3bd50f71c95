package jmap

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Credentials carry the authentication material attached to every
// exchange. Token selects bearer auth and wins over basic auth.
type Credentials struct {
	Username string
	Password string
	Token    string
}

func (c Credentials) authorize(h http.Header) {
	switch {
	case c.Token != "":
		h.Set("Authorization", "Bearer "+c.Token)
	case c.Username != "" || c.Password != "":
		raw := c.Username + ":" + c.Password
		h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(raw)))
	}
}

// Transport performs the raw HTTP exchanges for a client. Implementations
// must be safe for concurrent use.
type Transport interface {
	// Get issues a GET and hands back the status and response stream.
	// The caller owns the body and must close it. Get serves both the
	// one-shot discovery fetch and long-lived event streams, so
	// implementations must not enforce a total request timeout here;
	// the context bounds the lifetime instead.
	Get(ctx context.Context, rawURL string, query url.Values) (int, io.ReadCloser, error)

	// Post sends a JSON body and returns the status and full response.
	Post(ctx context.Context, rawURL string, body []byte) (int, []byte, error)
}

const defaultRequestTimeout = 60 * time.Second

// httpTransport is the production Transport. It keeps two HTTP clients:
// a bounded one for API posts and an unbounded one for streaming GETs.
type httpTransport struct {
	creds  Credentials
	http   *http.Client
	stream *http.Client
}

func newHTTPTransport(creds Credentials, timeout time.Duration) *httpTransport {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &httpTransport{
		creds:  creds,
		http:   &http.Client{Timeout: timeout},
		stream: &http.Client{},
	}
}

func (t *httpTransport) Get(ctx context.Context, rawURL string, query url.Values) (int, io.ReadCloser, error) {
	u := rawURL
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		u = rawURL + sep + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/event-stream")
	t.creds.authorize(req.Header)
	resp, err := t.stream.Do(req)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, resp.Body, nil
}

func (t *httpTransport) Post(ctx context.Context, rawURL string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	t.creds.authorize(req.Header)
	resp, err := t.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}
