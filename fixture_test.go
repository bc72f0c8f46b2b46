package roughtime

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	"github.com/coreclock/roughtime/internal/wire"
)

// testFixture holds a complete, internally-consistent Roughtime exchange:
// a long-term key pair, a delegated key pair, a client nonce, and the
// resulting signed envelope bytes. It exists purely to give the validator
// tests something realistic to chew on, the way a real server response
// would look on the wire.
type testFixture struct {
	longTermPub  ed25519.PublicKey
	longTermPriv ed25519.PrivateKey
	delegatedPub ed25519.PublicKey
	nonce        [64]byte
	midp         uint64
	minT         uint64
	maxT         uint64
	radius       uint32
	envelope     []byte
}

// buildFixture signs a fresh delegation and a singleton-batch response
// (the client's nonce hashes directly to ROOT) over a nonce of the caller's
// choosing, at midpoint mid within [minT, maxT].
func buildFixture(nonce [64]byte, minT, mid, maxT uint64, radius uint32) *testFixture {
	longTermPub, longTermPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	delegatedPub, delegatedPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}

	dele := wire.NewMessage()
	dele.Set(wire.MINT, leUint64Bytes(minT))
	dele.Set(wire.MAXT, leUint64Bytes(maxT))
	dele.Set(wire.PUBK, []byte(delegatedPub))
	deleBytes := dele.Build(false)

	deleSig := ed25519.Sign(longTermPriv, append(append([]byte(nil), certificateContext...), deleBytes...))

	cert := wire.NewMessage()
	cert.Set(wire.SIG, deleSig)
	cert.Set(wire.DELE, deleBytes)
	certBytes := cert.Build(false)

	root := wire.HashLeaf(nonce[:])

	srep := wire.NewMessage()
	srep.Set(wire.ROOT, root[:])
	srep.Set(wire.MIDP, leUint64Bytes(mid))
	srep.Set(wire.RADI, leUint32Bytes(radius))
	srepBytes := srep.Build(false)

	srepSig := ed25519.Sign(delegatedPriv, append(append([]byte(nil), signedResponseContext...), srepBytes...))

	envelope := wire.NewMessage()
	envelope.Set(wire.SIG, srepSig)
	envelope.Set(wire.PATH, nil)
	envelope.Set(wire.SREP, srepBytes)
	envelope.Set(wire.CERT, certBytes)
	envelope.Set(wire.INDX, leUint32Bytes(0))

	return &testFixture{
		longTermPub:  longTermPub,
		longTermPriv: longTermPriv,
		delegatedPub: delegatedPub,
		nonce:        nonce,
		midp:         mid,
		minT:         minT,
		maxT:         maxT,
		radius:       radius,
		envelope:     envelope.Build(false),
	}
}

func leUint32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	wire.PutUint32(b, v)
	return b
}

func leUint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	wire.PutUint64(b, v)
	return b
}
