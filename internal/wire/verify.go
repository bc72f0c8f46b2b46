package wire

import "golang.org/x/crypto/ed25519"

// Verify checks an Ed25519 signature over context||payload. It fails closed:
// a public key or signature of the wrong length is rejected before the
// primitive is ever invoked, and any decoding failure inside the primitive
// itself is reported as a verification failure rather than propagated.
func Verify(publicKey []byte, context, payload []byte, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	msg := make([]byte, 0, len(context)+len(payload))
	msg = append(msg, context...)
	msg = append(msg, payload...)
	return ed25519.Verify(ed25519.PublicKey(publicKey), msg, signature)
}
