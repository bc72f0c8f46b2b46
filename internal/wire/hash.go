package wire

import "crypto/sha512"

// HashLeaf computes the Merkle leaf hash for a nonce: SHA-512(0x00 || nonce).
// The leading domain-separation byte keeps a leaf hash from ever colliding
// with an interior node hash for the same bytes.
func HashLeaf(nonce []byte) [64]byte {
	h := sha512.New()
	h.Write([]byte{0x00})
	h.Write(nonce)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HashNode computes a Merkle interior node hash: SHA-512(0x01 || left || right).
func HashNode(left, right [64]byte) [64]byte {
	h := sha512.New()
	h.Write([]byte{0x01})
	h.Write(left[:])
	h.Write(right[:])
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}
