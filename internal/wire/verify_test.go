package wire

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

func TestVerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	context := []byte("test context\x00")
	payload := []byte("hello roughtime")
	sig := ed25519.Sign(priv, append(append([]byte(nil), context...), payload...))

	require.True(t, Verify(pub, context, payload, sig))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	context := []byte("test context\x00")
	payload := []byte("hello roughtime")
	sig := ed25519.Sign(priv, append(append([]byte(nil), context...), payload...))

	require.False(t, Verify(pub, context, []byte("goodbye roughtime"), sig))
}

func TestVerifyRejectsWrongSignatureLength(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	require.False(t, Verify(pub, []byte("ctx"), []byte("payload"), make([]byte, 10)))
}

func TestVerifyRejectsWrongKeyLength(t *testing.T) {
	require.False(t, Verify(make([]byte, 10), []byte("ctx"), []byte("payload"), make([]byte, 64)))
}
