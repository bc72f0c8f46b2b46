// Package roughtime implements the client side of the Roughtime
// secure time-synchronization protocol: a binary tag-value wire codec and
// the four-stage response validation pipeline that checks a server's
// signed timestamp against its long-term public key.
package roughtime

import (
	"crypto/rand"
	"io"

	"github.com/coreclock/roughtime/internal/wire"
)

// Client holds the state of a single Roughtime exchange: a frozen nonce, the
// server's long-term public key, and (after ProcessResponse runs) the
// outcome of validation. A Client is meant for exactly one request/response
// round trip; see ProcessResponse.
type Client struct {
	nonce       [64]byte
	longTermKey [32]byte

	processed bool
	valid     bool
	cause     error
	result    *validationResult
}

// NewClient creates a Client bound to the server identified by
// longTermKey, drawing a fresh 64-byte nonce from entropy. entropy is
// consulted exactly once, during construction; pass nil to use
// crypto/rand.Reader. longTermKey must be exactly 32 bytes.
func NewClient(longTermKey []byte, entropy io.Reader) *Client {
	requirePrecondition(longTermKey != nil, "long-term key must not be nil")
	requirePrecondition(len(longTermKey) == 32, "long-term key must be 32 bytes")

	if entropy == nil {
		entropy = rand.Reader
	}

	c := &Client{}
	copy(c.longTermKey[:], longTermKey)

	if _, err := io.ReadFull(entropy, c.nonce[:]); err != nil {
		panic(&precondition{msg: "entropy source failed: " + err.Error()})
	}

	return c
}

// Nonce returns the 64-byte nonce frozen at construction time. It is always
// available, whether or not a response has been processed.
func (c *Client) Nonce() [64]byte {
	return c.nonce
}

// CreateRequest returns the wire bytes of this client's single request: a
// 1024-byte message containing PAD and NONC, in that sorted order.
func (c *Client) CreateRequest() []byte {
	return buildRequest(c.nonce)
}

// ProcessResponse runs the four validation stages against resp and records
// the outcome. It never returns an error and never panics on malformed
// network input; call IsResponseValid and InvalidResponseCause afterward.
// Calling it a second time on the same Client is a precondition failure:
// a Client validates exactly one response in its lifetime.
func (c *Client) ProcessResponse(resp []byte) {
	requirePrecondition(!c.processed, "ProcessResponse called more than once")
	c.processed = true

	envelope, err := wire.Parse(resp)
	if err != nil {
		c.cause = err
		return
	}

	result, err := validateResponse(envelope, c.longTermKey, c.nonce)
	if err != nil {
		c.cause = err
		return
	}

	c.result = result
	c.valid = true
}

// IsResponseValid reports whether ProcessResponse has been called and the
// response passed all four validation stages.
func (c *Client) IsResponseValid() bool {
	return c.valid
}

// Midpoint returns the server's asserted time in microseconds since the
// Unix epoch, or 0 if the response is not valid.
func (c *Client) Midpoint() uint64 {
	if !c.valid {
		return 0
	}
	return c.result.midpoint
}

// Radius returns the uncertainty radius in microseconds around Midpoint, or
// 0 if the response is not valid.
func (c *Client) Radius() uint32 {
	if !c.valid {
		return 0
	}
	return c.result.radius
}

// InvalidResponseCause returns the error that made the response invalid, or
// nil if the response validated successfully or has not yet been processed.
func (c *Client) InvalidResponseCause() error {
	if c.valid {
		return nil
	}
	return c.cause
}
