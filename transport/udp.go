// Package transport provides the network collaborator the protocol core
// deliberately excludes: sending a single Roughtime request over UDP and
// waiting for a response. None of this is part of the protocol
// engine itself; it is ordinary client/server plumbing.
package transport

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/coreclock/roughtime/internal/wire"
)

// MaxResponseSize bounds the buffer used to read a response. Roughtime
// responses are never larger than the request that elicited them (that is
// the entire point of the request's minimum-size padding), so this is
// generous headroom over the 1024-byte request floor.
const MaxResponseSize = 4096

// Exchange sends req to addr over UDP and returns the first datagram
// received, from any sender. If ctx has a deadline it is applied to the
// socket, and expiry surfaces as a wrapped write or read timeout error;
// cancellation of a ctx without a deadline is not observed.
func Exchange(ctx context.Context, log *zap.Logger, addr string, req []byte) ([]byte, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %q: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("transport: listen: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("transport: set deadline: %w", err)
		}
	}

	log.Debug("sending request",
		zap.String("addr", addr), zap.Int("bytes", len(req)), zap.String("hex", wire.Hex(req)))
	if _, err := conn.WriteToUDP(req, raddr); err != nil {
		return nil, fmt.Errorf("transport: write: %w", err)
	}

	buf := make([]byte, MaxResponseSize)
	n, from, err := conn.ReadFromUDP(buf)
	if err != nil {
		return nil, fmt.Errorf("transport: read: %w", err)
	}
	log.Debug("received response",
		zap.String("from", from.String()), zap.Int("bytes", n), zap.String("hex", wire.Hex(buf[:n])))

	return buf[:n], nil
}
