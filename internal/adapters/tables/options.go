package tables

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/pokerdesk/pkg/logger"
)

// StatusPolicy decides what happens to non-2xx responses.
type StatusPolicy int

const (
	// StatusStrict rejects non-2xx responses with ErrStatus before decoding.
	StatusStrict StatusPolicy = iota
	// StatusIgnore decodes the body regardless of the status code.
	StatusIgnore
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the origin of the tables backend, e.g. "http://localhost:8080".
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a client-wide deadline per call. Zero means none; callers
// can still bound calls through their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAssistEndpoint configures the third-party assist URL and the static
// credential sent in its Authorization header.
func WithAssistEndpoint(url, token string) Option {
	return func(c *Client) {
		c.assistURL = url
		c.assistToken = token
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStatusPolicy selects how non-2xx responses are handled.
func WithStatusPolicy(p StatusPolicy) Option {
	return func(c *Client) {
		c.status = p
	}
}

// WithSeatCountCheck makes table decoding require len(holeCards) == capacity.
func WithSeatCountCheck(enabled bool) Option {
	return func(c *Client) {
		c.seatCheck = enabled
	}
}
