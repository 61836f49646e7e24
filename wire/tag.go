package wire

// WireType selects how a field's value is encoded on the wire. It is the
// low 3 bits of the tag varint.
type WireType int32

const (
	WireVarint     WireType = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	WireFixed64    WireType = 1 // fixed64, sfixed64, double
	WireChunk      WireType = 2 // string, bytes, embedded messages, packed repeated fields
	WireStartGroup WireType = 3 // group start marker (deprecated encoding)
	WireEndGroup   WireType = 4 // group end marker
	WireFixed32    WireType = 5 // fixed32, sfixed32, float
)

// Valid reports whether wt is one of the six defined wire types.
func (wt WireType) Valid() bool {
	return wt >= WireVarint && wt <= WireFixed32
}

// String returns the short display name used by the inspector output.
func (wt WireType) String() string {
	switch wt {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "64bit"
	case WireChunk:
		return "chunk"
	case WireStartGroup:
		return "startgroup"
	case WireEndGroup:
		return "endgroup"
	case WireFixed32:
		return "32bit"
	}
	return "invalid"
}

// FieldNumber represents a protobuf field number.
type FieldNumber int32

// Field number limits. Numbers in the reserved range belong to the protobuf
// implementation itself; seeing one in a payload means the bytes are not a
// message.
const (
	MaxFieldNumber      FieldNumber = 1<<29 - 1
	FirstReservedNumber FieldNumber = 19000
	LastReservedNumber  FieldNumber = 19999
)

// Valid reports whether n is usable as a field number: non-zero, within 29
// bits and outside the reserved range.
func (n FieldNumber) Valid() bool {
	if n <= 0 || n > MaxFieldNumber {
		return false
	}
	return n < FirstReservedNumber || n > LastReservedNumber
}

// Tag is a decoded field tag.
type Tag struct {
	Number FieldNumber
	Type   WireType
}

// MakeTag returns the varint value encoding the given tag.
func MakeTag(number FieldNumber, wt WireType) uint64 {
	return uint64(number)<<3 | uint64(wt)
}

// AppendTag appends the varint encoding of a tag to dst.
func AppendTag(dst []byte, number FieldNumber, wt WireType) []byte {
	return AppendVarint(dst, MakeTag(number, wt))
}

// ReadTag reads one tag varint and splits it into field number and wire
// type. Invalid wire types and field numbers violating FieldNumber.Valid
// are unrecoverable and reported as ErrCorrupt.
func ReadTag(c *Cursor) (Tag, error) {
	v, err := ReadVarint(c)
	if err != nil {
		return Tag{}, err
	}
	if v>>3 > uint64(MaxFieldNumber) {
		return Tag{}, ErrCorrupt
	}
	tag := Tag{Number: FieldNumber(v >> 3), Type: WireType(v & 0x7)}
	if !tag.Type.Valid() || !tag.Number.Valid() {
		return Tag{}, ErrCorrupt
	}
	return tag, nil
}

// TaggedValue is the result of consuming one wire-format field. For every
// wire type except WireChunk the value has been fully consumed as a side
// effect of reading it. For WireChunk only the length varint has been read:
// ChunkLength bytes of body follow at the cursor, and the caller decides
// how to consume them.
type TaggedValue struct {
	Tag         Tag
	ChunkLength uint64
}

// IsChunk reports whether the value is a length-delimited chunk header.
func (v TaggedValue) IsChunk() bool {
	return v.Tag.Type == WireChunk
}

// ReadTaggedValue reads a tag and consumes its value per the wire type.
// Varints are decoded and discarded; fixed 32/64-bit values are skipped,
// failing with *TruncatedError carrying the bytes still owed when the slice
// ends early; group markers consume nothing; chunk headers read the length
// varint only.
func ReadTaggedValue(c *Cursor) (TaggedValue, error) {
	tag, err := ReadTag(c)
	if err != nil {
		return TaggedValue{}, err
	}
	switch tag.Type {
	case WireStartGroup, WireEndGroup:
		// Structural markers carry no payload.
	case WireVarint:
		if _, err := ReadVarint(c); err != nil {
			return TaggedValue{}, err
		}
	case WireFixed32:
		if err := c.Skip(4); err != nil {
			return TaggedValue{}, err
		}
	case WireFixed64:
		if err := c.Skip(8); err != nil {
			return TaggedValue{}, err
		}
	case WireChunk:
		length, err := ReadVarint(c)
		if err != nil {
			return TaggedValue{}, err
		}
		return TaggedValue{Tag: tag, ChunkLength: length}, nil
	}
	return TaggedValue{Tag: tag}, nil
}
