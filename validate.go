package roughtime

import (
	"github.com/coreclock/roughtime/internal/wire"
)

var (
	certificateContext    = []byte("RoughTime v1 delegation signature--\x00")
	signedResponseContext = []byte("RoughTime v1 response signature\x00")
)

// validationResult holds everything stage 1-4 produce on success.
type validationResult struct {
	delegatedKey   [32]byte
	delegationMinT uint64
	delegationMaxT uint64
	midpoint       uint64
	radius         uint32
}

// validateResponse runs the four-stage pipeline against a parsed response
// envelope, the client's long-term key, and the nonce the client sent. It
// never panics on protocol input; every failure is returned as an error of
// one of the categorized types in errors.go, or as the unwrapped
// *wire.ParseError when a nested message (CERT, DELE, SREP) fails to parse.
func validateResponse(envelope *wire.Message, longTermKey [32]byte, nonce [64]byte) (*validationResult, error) {
	delegatedKey, delegationMinT, delegationMaxT, err := verifyDelegation(envelope, longTermKey)
	if err != nil {
		return nil, err
	}

	srepRaw, err := verifyTopLevelSignature(envelope, delegatedKey)
	if err != nil {
		return nil, err
	}

	srep, err := parseSignedResponse(srepRaw)
	if err != nil {
		return nil, err
	}

	if err := verifyMerkleInclusion(envelope, nonce, srep.root); err != nil {
		return nil, err
	}

	if err := checkMidpointBounds(srep.midp, delegationMinT, delegationMaxT); err != nil {
		return nil, err
	}

	return &validationResult{
		delegatedKey:   delegatedKey,
		delegationMinT: delegationMinT,
		delegationMaxT: delegationMaxT,
		midpoint:       srep.midp,
		radius:         srep.radius,
	}, nil
}

// verifyDelegation is stage 1: the server's long-term key must have signed
// the delegation certificate handing signing authority to a short-term key.
func verifyDelegation(envelope *wire.Message, longTermKey [32]byte) (delegatedKey [32]byte, minT, maxT uint64, err error) {
	certRaw, ok := envelope.Get(wire.CERT)
	if !ok {
		return delegatedKey, 0, 0, &ParseFieldError{Tag: "CERT", Reason: "missing from envelope"}
	}
	cert, err := wire.Parse(certRaw)
	if err != nil {
		return delegatedKey, 0, 0, err
	}

	deleRaw, ok := cert.Get(wire.DELE)
	if !ok {
		return delegatedKey, 0, 0, &ParseFieldError{Tag: "DELE", Reason: "missing from CERT"}
	}
	sig, ok := cert.Get(wire.SIG)
	if !ok {
		return delegatedKey, 0, 0, &ParseFieldError{Tag: "SIG", Reason: "missing from CERT"}
	}
	if len(sig) != 64 {
		return delegatedKey, 0, 0, &SignatureInvalid{Stage: "delegation", Msg: "signature must be 64 bytes"}
	}

	if !wire.Verify(longTermKey[:], certificateContext, deleRaw, sig) {
		return delegatedKey, 0, 0, &SignatureInvalid{Stage: "delegation", Msg: "long-term key did not sign DELE"}
	}

	d, err := parseDelegation(deleRaw)
	if err != nil {
		return delegatedKey, 0, 0, err
	}
	return d.publicKey, d.minT, d.maxT, nil
}

// verifyTopLevelSignature is stage 2: the delegated key, authorized by
// stage 1, must have signed the batch response. Returns the raw SREP bytes
// so the caller can parse them for the Merkle root and midpoint.
func verifyTopLevelSignature(envelope *wire.Message, delegatedKey [32]byte) ([]byte, error) {
	srepRaw, ok := envelope.Get(wire.SREP)
	if !ok {
		return nil, &ParseFieldError{Tag: "SREP", Reason: "missing from envelope"}
	}
	sig, ok := envelope.Get(wire.SIG)
	if !ok {
		return nil, &ParseFieldError{Tag: "SIG", Reason: "missing from envelope"}
	}
	if len(sig) != 64 {
		return nil, &SignatureInvalid{Stage: "response", Msg: "signature must be 64 bytes"}
	}

	if !wire.Verify(delegatedKey[:], signedResponseContext, srepRaw, sig) {
		return nil, &SignatureInvalid{Stage: "response", Msg: "delegated key did not sign SREP"}
	}
	return srepRaw, nil
}

// verifyMerkleInclusion is stage 3: the client's nonce must be one of the
// leaves that hash up to the signed root, via the inclusion path the server
// returned.
func verifyMerkleInclusion(envelope *wire.Message, nonce [64]byte, root [64]byte) error {
	pathRaw, ok := envelope.Get(wire.PATH)
	if !ok {
		return &ParseFieldError{Tag: "PATH", Reason: "missing from envelope"}
	}
	if len(pathRaw)%64 != 0 {
		return &MerkleTreeInvalid{Msg: "PATH length not a multiple of 64"}
	}
	var indx uint32
	indxRaw, ok := envelope.Get(wire.INDX)
	if !ok {
		return &ParseFieldError{Tag: "INDX", Reason: "missing from envelope"}
	}
	if len(indxRaw) != 4 {
		return &ParseFieldError{Tag: "INDX", Reason: "must be 4 bytes"}
	}
	indx = wire.Uint32(indxRaw)

	pathEmpty := len(pathRaw) == 0
	indxZero := indx == 0

	if pathEmpty != indxZero {
		return &MerkleTreeInvalid{Msg: "exactly one of PATH empty / INDX zero"}
	}

	hash := wire.HashLeaf(nonce[:])

	if pathEmpty {
		if hash != root {
			return &MerkleTreeInvalid{Msg: "nonce not found at root of singleton batch"}
		}
		return nil
	}

	k := indx
	for off := 0; off < len(pathRaw); off += 64 {
		var sibling [64]byte
		copy(sibling[:], pathRaw[off:off+64])
		if k&1 == 0 {
			hash = wire.HashNode(hash, sibling)
		} else {
			hash = wire.HashNode(sibling, hash)
		}
		k >>= 1
	}
	if k != 0 {
		return &MerkleTreeInvalid{Msg: "PATH length does not match tree depth implied by INDX"}
	}
	if hash != root {
		return &MerkleTreeInvalid{Msg: "nonce not found via inclusion path"}
	}
	return nil
}

// checkMidpointBounds is stage 4: the signed midpoint must fall within the
// delegation's validity window, compared as unsigned 64-bit integers so a
// midpoint with the high bit set (past roughly year 294,247 AD, the first
// microsecond timestamp that overflows int64) is never sign-extended into a
// spurious failure.
func checkMidpointBounds(midpoint, minT, maxT uint64) error {
	if midpoint < minT || midpoint > maxT {
		return &MidpointInvalid{Midpoint: midpoint, MinT: minT, MaxT: maxT}
	}
	return nil
}
