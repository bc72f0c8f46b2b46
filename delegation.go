package roughtime

import (
	"github.com/coreclock/roughtime/internal/wire"
)

// delegation is the parsed form of a CERT.DELE submessage: a short-lived
// public key the server's long-term key has authorized to sign responses
// during [minT, maxT] (microseconds since the Unix epoch).
type delegation struct {
	publicKey [32]byte
	minT      uint64
	maxT      uint64
}

func parseDelegation(raw []byte) (delegation, error) {
	msg, err := wire.Parse(raw)
	if err != nil {
		return delegation{}, err
	}

	var d delegation

	pubk, ok := msg.Get(wire.PUBK)
	if !ok {
		return delegation{}, &ParseFieldError{Tag: "PUBK", Reason: "missing"}
	}
	if len(pubk) != 32 {
		return delegation{}, &ParseFieldError{Tag: "PUBK", Reason: "must be 32 bytes"}
	}
	copy(d.publicKey[:], pubk)

	mint, ok := msg.Get(wire.MINT)
	if !ok {
		return delegation{}, &ParseFieldError{Tag: "MINT", Reason: "missing"}
	}
	if len(mint) != 8 {
		return delegation{}, &ParseFieldError{Tag: "MINT", Reason: "must be 8 bytes"}
	}
	d.minT = wire.Uint64(mint)

	maxt, ok := msg.Get(wire.MAXT)
	if !ok {
		return delegation{}, &ParseFieldError{Tag: "MAXT", Reason: "missing"}
	}
	if len(maxt) != 8 {
		return delegation{}, &ParseFieldError{Tag: "MAXT", Reason: "must be 8 bytes"}
	}
	d.maxT = wire.Uint64(maxt)

	return d, nil
}
