package roughtime

import "github.com/coreclock/roughtime/internal/wire"

// buildRequest produces a nonce-bearing request, padded so its serialized
// form is exactly wire.MinRequestSize bytes: a PAD tag plus NONC, in that
// sorted order.
func buildRequest(nonce [64]byte) []byte {
	msg := wire.NewMessage()
	msg.Set(wire.NONC, nonce[:])
	return msg.Build(true)
}
