// Package wire implements the Roughtime tag-value message container: the
// binary codec shared by every request and response PDU, independent of
// what any particular tag means to the protocol layer above it.
package wire

import (
	"encoding/binary"
	"strconv"
)

// Tag is a four-byte wire identifier. Its numeric value is the little-endian
// interpretation of its four ASCII mnemonic bytes, which is also the order
// used to sort tags within a message.
type Tag uint32

// Known tag values, named by their four-byte ASCII mnemonic. PAD's mnemonic
// is "PAD\xff" (the trailing byte is 0xFF, not an ASCII padding character)
// so that it sorts after every other known tag.
const (
	SIG  Tag = 0x00474953 // "SIG\x00"
	NONC Tag = 0x434e4f4e // "NONC"
	DELE Tag = 0x454c4544 // "DELE"
	PATH Tag = 0x48544150 // "PATH"
	RADI Tag = 0x49444152 // "RADI"
	PUBK Tag = 0x4b425550 // "PUBK"
	MIDP Tag = 0x5044494d // "MIDP"
	SREP Tag = 0x50455253 // "SREP"
	MAXT Tag = 0x5458414d // "MAXT"
	ROOT Tag = 0x544f4f52 // "ROOT"
	CERT Tag = 0x54524543 // "CERT"
	MINT Tag = 0x544e494d // "MINT"
	INDX Tag = 0x58444e49 // "INDX"
	PAD  Tag = 0xff444150 // "PAD\xff"
)

var knownTags = map[Tag]bool{
	SIG: true, NONC: true, DELE: true, PATH: true, RADI: true, PUBK: true,
	MIDP: true, SREP: true, MAXT: true, ROOT: true, CERT: true, MINT: true,
	INDX: true, PAD: true,
}

// Known reports whether t is one of the tags this implementation assigns
// semantics to. Unknown tags still parse and round-trip; they just carry no
// meaning to any layer above the codec.
func (t Tag) Known() bool {
	return knownTags[t]
}

// String renders the tag's four wire bytes, quoted the way fmt would quote
// any other byte string. Unknown tags render the same way as known ones.
func (t Tag) String() string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(t))
	s := strconv.Quote(string(b[:]))
	return s[1 : len(s)-1]
}
