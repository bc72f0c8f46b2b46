package roughtime

import (
	"github.com/coreclock/roughtime/internal/wire"
)

// signedResponse is the parsed form of an envelope's SREP submessage: the
// server's assertion of the current time and the Merkle root binding it to
// the batch of nonces it signed for.
type signedResponse struct {
	root   [64]byte
	midp   uint64
	radius uint32
}

func parseSignedResponse(raw []byte) (signedResponse, error) {
	msg, err := wire.Parse(raw)
	if err != nil {
		return signedResponse{}, err
	}

	var s signedResponse

	root, ok := msg.Get(wire.ROOT)
	if !ok {
		return signedResponse{}, &ParseFieldError{Tag: "ROOT", Reason: "missing"}
	}
	if len(root) != 64 {
		return signedResponse{}, &ParseFieldError{Tag: "ROOT", Reason: "must be 64 bytes"}
	}
	copy(s.root[:], root)

	midp, ok := msg.Get(wire.MIDP)
	if !ok {
		return signedResponse{}, &ParseFieldError{Tag: "MIDP", Reason: "missing"}
	}
	if len(midp) != 8 {
		return signedResponse{}, &ParseFieldError{Tag: "MIDP", Reason: "must be 8 bytes"}
	}
	s.midp = wire.Uint64(midp)

	radi, ok := msg.Get(wire.RADI)
	if !ok {
		return signedResponse{}, &ParseFieldError{Tag: "RADI", Reason: "missing"}
	}
	if len(radi) != 4 {
		return signedResponse{}, &ParseFieldError{Tag: "RADI", Reason: "must be 4 bytes"}
	}
	s.radius = wire.Uint32(radi)

	return s, nil
}
