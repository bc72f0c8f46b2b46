package roughtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreclock/roughtime/internal/wire"
)

func testNonce() [64]byte {
	var n [64]byte
	for i := range n {
		n[i] = byte(i)
	}
	return n
}

func TestValidateResponseValid(t *testing.T) {
	nonce := testNonce()
	f := buildFixture(nonce, 1_000_000, 1_500_000, 2_000_000, 1000)

	envelope, err := wire.Parse(f.envelope)
	require.NoError(t, err)

	var longTermKey [32]byte
	copy(longTermKey[:], f.longTermPub)

	result, err := validateResponse(envelope, longTermKey, nonce)
	require.NoError(t, err)
	require.Equal(t, f.midp, result.midpoint)
	require.Equal(t, f.radius, result.radius)
}

func TestValidateTamperedDelegationFailsStage1(t *testing.T) {
	nonce := testNonce()
	f := buildFixture(nonce, 1_000_000, 1_500_000, 2_000_000, 1000)

	tampered := append([]byte(nil), f.envelope...)
	flipFirstByteOfCertField(t, tampered, wire.DELE)

	envelope, err := wire.Parse(tampered)
	require.NoError(t, err)

	var longTermKey [32]byte
	copy(longTermKey[:], f.longTermPub)

	_, err = validateResponse(envelope, longTermKey, nonce)
	require.Error(t, err)
	var sigErr *SignatureInvalid
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, "delegation", sigErr.Stage)
}

func TestValidateTamperedSREPFailsStage2(t *testing.T) {
	nonce := testNonce()
	f := buildFixture(nonce, 1_000_000, 1_500_000, 2_000_000, 1000)

	envelope, err := wire.Parse(f.envelope)
	require.NoError(t, err)
	srep, ok := envelope.Get(wire.SREP)
	require.True(t, ok)
	tampered := append([]byte(nil), srep...)
	tampered[0] ^= 0xFF

	rebuilt := wire.NewMessage()
	for _, tag := range envelope.Tags() {
		v, _ := envelope.Get(tag)
		if tag == wire.SREP {
			v = tampered
		}
		rebuilt.Set(tag, v)
	}

	var longTermKey [32]byte
	copy(longTermKey[:], f.longTermPub)

	_, err = validateResponse(rebuilt, longTermKey, nonce)
	require.Error(t, err)
	var sigErr *SignatureInvalid
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, "response", sigErr.Stage)
}

func TestValidateBadSignatureLength(t *testing.T) {
	nonce := testNonce()
	f := buildFixture(nonce, 1_000_000, 1_500_000, 2_000_000, 1000)

	envelope, err := wire.Parse(f.envelope)
	require.NoError(t, err)
	cert, ok := envelope.Get(wire.CERT)
	require.True(t, ok)
	certMsg, err := wire.Parse(cert)
	require.NoError(t, err)
	dele, ok := certMsg.Get(wire.DELE)
	require.True(t, ok)

	badCert := wire.NewMessage()
	badCert.Set(wire.SIG, make([]byte, 12)) // wrong length, still 4-aligned
	badCert.Set(wire.DELE, dele)
	badCertBytes := badCert.Build(false)

	rebuilt := wire.NewMessage()
	for _, tag := range envelope.Tags() {
		v, _ := envelope.Get(tag)
		if tag == wire.CERT {
			v = badCertBytes
		}
		rebuilt.Set(tag, v)
	}

	var longTermKey [32]byte
	copy(longTermKey[:], f.longTermPub)

	_, err = validateResponse(rebuilt, longTermKey, nonce)
	require.Error(t, err)
	var sigErr *SignatureInvalid
	require.ErrorAs(t, err, &sigErr)
	require.Contains(t, sigErr.Msg, "64 bytes")
}

func TestVerifyMerkleSingletonMismatch(t *testing.T) {
	var root [64]byte
	err := verifyMerkleInclusion(envelopeWithPathIndx(t, nil, 0), testNonce(), root)
	require.Error(t, err)
	var merr *MerkleTreeInvalid
	require.ErrorAs(t, err, &merr)
}

func TestVerifyMerkleSingletonMatch(t *testing.T) {
	nonce := testNonce()
	root := wire.HashLeaf(nonce[:])
	err := verifyMerkleInclusion(envelopeWithPathIndx(t, nil, 0), nonce, root)
	require.NoError(t, err)
}

func TestVerifyMerkleIllegalCombination(t *testing.T) {
	var root [64]byte
	sibling := make([]byte, 64)
	err := verifyMerkleInclusion(envelopeWithPathIndx(t, sibling, 0), testNonce(), root)
	require.Error(t, err)
	var merr *MerkleTreeInvalid
	require.ErrorAs(t, err, &merr)
}

func TestVerifyMerkleMultiNonce(t *testing.T) {
	nonce := testNonce()
	leaf := wire.HashLeaf(nonce[:])
	var sibling0, sibling1 [64]byte
	for i := range sibling0 {
		sibling0[i] = byte(i + 1)
	}
	for i := range sibling1 {
		sibling1[i] = byte(i + 2)
	}

	// index 2 (binary 10): bit 0 is even (leaf is the left child of level 1),
	// bit 1 is odd (level 1 is the right child of the root).
	level1 := wire.HashNode(leaf, sibling0)
	root := wire.HashNode(sibling1, level1)

	path := append(append([]byte(nil), sibling0[:]...), sibling1[:]...)
	err := verifyMerkleInclusion(envelopeWithPathIndx(t, path, 2), nonce, root)
	require.NoError(t, err)
}

func TestMidpointBounds(t *testing.T) {
	require.NoError(t, checkMidpointBounds(150, 100, 200))
	require.NoError(t, checkMidpointBounds(100, 100, 200))
	require.NoError(t, checkMidpointBounds(200, 100, 200))
	require.Error(t, checkMidpointBounds(99, 100, 200))
	require.Error(t, checkMidpointBounds(201, 100, 200))
}

// High-bit midpoint must still validate correctly under unsigned comparison;
// a signed comparison would reject this as a negative number.
func TestMidpointBoundsHighBit(t *testing.T) {
	const highBit = uint64(1) << 63
	minT := highBit - 10
	midp := highBit + 5
	maxT := highBit + 100
	require.NoError(t, checkMidpointBounds(midp, minT, maxT))
}

// flipFirstByteOfCertField flips the first byte of one field of CERT (DELE
// or SIG) in place, leaving CERT's own header intact so that it still parses.
func flipFirstByteOfCertField(t *testing.T, envelope []byte, field wire.Tag) {
	t.Helper()
	msg, err := wire.Parse(envelope)
	require.NoError(t, err)
	cert, ok := msg.Get(wire.CERT)
	require.True(t, ok)
	certMsg, err := wire.Parse(cert)
	require.NoError(t, err)
	val, ok := certMsg.Get(field)
	require.True(t, ok)
	// The field's bytes alias into envelope; find and flip its first byte there.
	for i := 0; i+len(val) <= len(envelope); i++ {
		if &envelope[i] == &val[0] {
			envelope[i] ^= 0xFF
			return
		}
	}
	t.Fatal("could not locate CERT field bytes within envelope")
}

func envelopeWithPathIndx(t *testing.T, path []byte, indx uint32) *wire.Message {
	t.Helper()
	envelope := wire.NewMessage()
	envelope.Set(wire.PATH, path)
	envelope.Set(wire.INDX, leUint32Bytes(indx))
	return envelope
}
