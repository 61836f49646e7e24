package wire

// MaxVarintLen is the maximum number of bytes in an encoded 64-bit varint.
const MaxVarintLen = 10

// ReadVarint decodes a base-128 varint from the cursor: little-endian 7-bit
// groups, high bit set on every byte but the last. It fails with
// ErrTruncatedVarint when the slice ends mid-sequence (including on the
// first byte) and with ErrCorrupt when ten groups pass without a
// terminating byte.
func ReadVarint(c *Cursor) (uint64, error) {
	var result uint64
	for i := 0; i < MaxVarintLen; i++ {
		b, err := c.ReadByte()
		if err != nil {
			return 0, ErrTruncatedVarint
		}
		result |= uint64(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, ErrCorrupt
}

// AppendVarint appends the minimal-length varint encoding of v to dst.
func AppendVarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// VarintSize returns the number of bytes AppendVarint would write for v.
func VarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeZigZag32 decodes a zigzag-encoded 32-bit integer.
func DecodeZigZag32(encoded uint64) int32 {
	return int32((uint32(encoded) >> 1) ^ uint32(-int32(encoded&1)))
}

// DecodeZigZag64 decodes a zigzag-encoded 64-bit integer.
func DecodeZigZag64(encoded uint64) int64 {
	return int64((encoded >> 1) ^ uint64(-int64(encoded&1)))
}
