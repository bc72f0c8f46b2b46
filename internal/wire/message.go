package wire

import "sort"

// MaxTags is the cap this implementation places on the number of tags a
// message may declare, stricter than the 32-bit header field allows.
const MaxTags = 65535

// MinRequestSize is the minimum serialized size of a client request,
// enforced by padding with a PAD tag. Requests this large guarantee a
// server's response can never be used to amplify traffic against a victim
// that did not send the request.
const MinRequestSize = 1024

// entry is one (tag, value) pair inside a Message, kept in wire order.
type entry struct {
	tag Tag
	val []byte
}

// Message is an ordered tag-value map, the container shared by every
// Roughtime request and response PDU.
type Message struct {
	entries []entry
	index   map[Tag]int
}

// NewMessage returns an empty Message ready to accept tags via Set.
func NewMessage() *Message {
	return &Message{index: make(map[Tag]int)}
}

// Set adds a tag-value pair. It panics if tag is already present; Message
// is not a multimap, and the wire format forbids duplicate tags.
func (m *Message) Set(tag Tag, val []byte) {
	if m.index == nil {
		m.index = make(map[Tag]int)
	}
	if _, ok := m.index[tag]; ok {
		panic("wire: duplicate tag " + tag.String())
	}
	m.index[tag] = len(m.entries)
	m.entries = append(m.entries, entry{tag: tag, val: val})
}

// Get returns the value for tag and whether it was present.
func (m *Message) Get(tag Tag) ([]byte, bool) {
	i, ok := m.index[tag]
	if !ok {
		return nil, false
	}
	return m.entries[i].val, true
}

// Len returns the number of tags in the message.
func (m *Message) Len() int {
	return len(m.entries)
}

// Tags returns the message's tags in the order they were parsed or Set. For a
// parsed message with two or more tags that is ascending wire order; a Message
// filled via Set is only sorted when Build serializes it.
func (m *Message) Tags() []Tag {
	tags := make([]Tag, len(m.entries))
	for i, e := range m.entries {
		tags[i] = e.tag
	}
	return tags
}

// Parse decodes b into a Message, validating every wire invariant in the
// process. Reading past the end of the buffer at any step is reported as
// TooShort.
func Parse(b []byte) (*Message, error) {
	if len(b) < 4 {
		return nil, errTooShort("buffer smaller than header")
	}
	if len(b)%4 != 0 {
		return nil, errUnaligned("message length not a multiple of 4")
	}

	n := Uint32(b)
	if n > MaxTags {
		return nil, errInvalidNumTags("declared tag count exceeds cap")
	}

	m := &Message{index: make(map[Tag]int, n)}

	if n == 0 {
		return m, nil
	}

	if n == 1 {
		if len(b) < 8 {
			return nil, errTooShort("single-tag message missing tag word")
		}
		tag := Tag(Uint32(b[4:8]))
		m.entries = append(m.entries, entry{tag: tag, val: b[8:]})
		m.index[tag] = 0
		return m, nil
	}

	headerLen := 8 * int(n)
	if len(b) < headerLen {
		return nil, errTooShort("header shorter than offsets+tags require")
	}
	offsetBytes := b[4 : 4+4*(n-1)]
	tagBytes := b[4*n : 4*n+4*n]
	valueRegion := b[headerLen:]
	valueRegionLen := uint32(len(valueRegion))

	offsets := make([]uint32, n)
	offsets[0] = 0
	prevOffset := uint32(0)
	for i := uint32(0); i < n-1; i++ {
		o := Uint32(offsetBytes[4*i:])
		if o%4 != 0 {
			return nil, errOffsetUnaligned("value offset not a multiple of 4")
		}
		if o > valueRegionLen {
			return nil, errOffsetOverflow("value offset exceeds value region")
		}
		if o < prevOffset {
			return nil, errOffsetOverflow("value offsets not non-decreasing")
		}
		offsets[i+1] = o
		prevOffset = o
	}

	var prevTag Tag
	for i := uint32(0); i < n; i++ {
		tag := Tag(Uint32(tagBytes[4*i:]))
		if i > 0 && tag <= prevTag {
			return nil, errTagsNotIncreasing(prevTag, tag)
		}
		prevTag = tag

		start := offsets[i]
		var end uint32
		if i+1 < n {
			end = offsets[i+1]
		} else {
			end = valueRegionLen
		}
		m.entries = append(m.entries, entry{tag: tag, val: valueRegion[start:end]})
		m.index[tag] = int(i)
	}

	return m, nil
}

// Build serializes m, sorting its entries by ascending tag. If addPadding is
// true, a PAD entry is inserted (PAD sorts last among known tags, so this
// never disturbs ordering). When the message including an empty PAD entry
// would be shorter than MinRequestSize, the PAD value is sized to bring the
// total to exactly MinRequestSize; otherwise the PAD value is empty and the
// total is whatever the entries plus the PAD header come to.
//
// Every value's length must be a multiple of 4, so that the offset of the
// value following it stays 4-aligned; Build panics otherwise rather than
// producing bytes Parse will reject as OffsetUnaligned.
func (m *Message) Build(addPadding bool) []byte {
	entries := append([]entry(nil), m.entries...)
	for _, e := range entries {
		if len(e.val)%4 != 0 {
			panic("wire: length of field " + e.tag.String() + " not multiple of 4")
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	if addPadding {
		withEmptyPad := append(append([]entry(nil), entries...), entry{tag: PAD})
		baseLen := messageLen(withEmptyPad)
		padLen := MinRequestSize - baseLen
		if padLen < 0 {
			padLen = 0
		}
		entries = append(entries, entry{tag: PAD, val: make([]byte, padLen)})
		sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })
	}

	return serialize(entries)
}

func messageLen(entries []entry) int {
	n := len(entries)
	if n == 0 {
		return 4
	}
	if n == 1 {
		return 8 + len(entries[0].val)
	}
	total := 8 * n
	for _, e := range entries {
		total += len(e.val)
	}
	return total
}

func serialize(entries []entry) []byte {
	n := len(entries)
	if n == 0 {
		b := make([]byte, 4)
		return b
	}

	out := make([]byte, messageLen(entries))
	PutUint32(out, uint32(n))

	if n == 1 {
		PutUint32(out[4:], uint32(entries[0].tag))
		copy(out[8:], entries[0].val)
		return out
	}

	offsetBytes := out[4 : 4+4*(n-1)]
	tagBytes := out[4*n : 8*n]
	valueRegion := out[8*n:]

	offset := uint32(0)
	for i, e := range entries {
		if i > 0 {
			PutUint32(offsetBytes[4*(i-1):], offset)
		}
		PutUint32(tagBytes[4*i:], uint32(e.tag))
		copy(valueRegion[offset:], e.val)
		offset += uint32(len(e.val))
	}
	return out
}
