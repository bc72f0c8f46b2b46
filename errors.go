package roughtime

import (
	"fmt"
	"time"
)

// ParseFieldError reports a malformed or missing field inside a response
// message (the envelope, its CERT, or a CERT.DELE or SREP submessage). It is distinct from
// wire.ParseError, which reports container-level wire invariant violations;
// this one reports semantic problems with an otherwise well-formed message.
type ParseFieldError struct {
	Tag    string
	Reason string
}

func (e *ParseFieldError) Error() string {
	return fmt.Sprintf("roughtime: field %s: %s", e.Tag, e.Reason)
}

// SignatureInvalid reports that an Ed25519 signature failed to verify,
// including the case where the signature has the wrong length.
type SignatureInvalid struct {
	Stage string // "delegation" or "response"
	Msg   string
}

func (e *SignatureInvalid) Error() string {
	return fmt.Sprintf("roughtime: %s signature invalid: %s", e.Stage, e.Msg)
}

// MerkleTreeInvalid reports that the Merkle inclusion proof did not
// establish that the client's nonce was included in the signed batch.
type MerkleTreeInvalid struct {
	Msg string
}

func (e *MerkleTreeInvalid) Error() string {
	return fmt.Sprintf("roughtime: merkle tree invalid: %s", e.Msg)
}

// MidpointInvalid reports that the signed midpoint falls outside the
// delegation's validity window.
type MidpointInvalid struct {
	Midpoint, MinT, MaxT uint64
}

func (e *MidpointInvalid) Error() string {
	return fmt.Sprintf(
		"roughtime: midpoint %s outside delegation window [%s, %s]",
		formatMicros(e.Midpoint), formatMicros(e.MinT), formatMicros(e.MaxT),
	)
}

func formatMicros(us uint64) string {
	// Render as a calendar timestamp for operator diagnosis. us is
	// unsigned microseconds since the Unix epoch; us/1e6 is at most about
	// 1.8e13 seconds, so the conversion to int64 seconds never overflows.
	sec := int64(us / 1e6)
	nsec := int64(us%1e6) * 1e3
	return time.Unix(sec, nsec).UTC().Format(time.RFC3339Nano)
}

// Precondition panics report programmer error: misuse of the API that is
// never a property of untrusted network input, and so is never recoverable
// the way a protocol error is.
type precondition struct {
	msg string
}

func (p *precondition) Error() string { return "roughtime: precondition failed: " + p.msg }

func requirePrecondition(ok bool, msg string) {
	if !ok {
		panic(&precondition{msg: msg})
	}
}
