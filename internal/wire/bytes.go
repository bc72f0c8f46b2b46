package wire

import (
	"encoding/binary"
	"encoding/hex"
)

// Hex renders b as a lowercase hex string for diagnostics and log fields.
// It is never used in wire parsing or building, only in diagnostic output
// such as the transport's debug log fields.
func Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// Uint32 decodes a little-endian uint32 from the start of b.
func Uint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// PutUint32 encodes v as little-endian into the start of b.
func PutUint32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// Uint64 decodes a little-endian uint64 from the start of b.
func Uint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// PutUint64 encodes v as little-endian into the start of b.
func PutUint64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}
