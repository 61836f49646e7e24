package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestReadVarint(t *testing.T) {
	tests := []struct {
		input []byte
		want  uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x96, 0x01}, 150},
		{[]byte{0xb5, 0x81, 0xd5, 0xc8, 0x06}, 1763000501},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, math.MaxUint64},
	}
	for _, tt := range tests {
		c := NewCursor(tt.input)
		got, err := ReadVarint(c)
		if err != nil {
			t.Errorf("ReadVarint(%x): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadVarint(%x) = %d, want %d", tt.input, got, tt.want)
		}
		if !c.AtEnd() {
			t.Errorf("ReadVarint(%x) left %d unread bytes", tt.input, c.Remaining())
		}
	}
}

func TestReadVarintTruncated(t *testing.T) {
	for _, input := range [][]byte{
		{},
		{0x96},
		{0xb5, 0x81, 0xd5},
	} {
		if _, err := ReadVarint(NewCursor(input)); !errors.Is(err, ErrTruncatedVarint) {
			t.Errorf("ReadVarint(%x) err = %v, want ErrTruncatedVarint", input, err)
		}
	}
}

func TestReadVarintTooWide(t *testing.T) {
	// Ten continuation bytes with no terminator.
	input := bytes.Repeat([]byte{0xff}, 10)
	if _, err := ReadVarint(NewCursor(input)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestAppendVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 150, 300, 16383, 16384, 1763000501, math.MaxUint64}
	for _, v := range values {
		enc := AppendVarint(nil, v)
		if len(enc) != VarintSize(v) {
			t.Errorf("VarintSize(%d) = %d, encoded %d bytes", v, VarintSize(v), len(enc))
		}
		// The encoding must match the canonical one.
		if want := protowire.AppendVarint(nil, v); !bytes.Equal(enc, want) {
			t.Errorf("AppendVarint(%d) = %x, protowire = %x", v, enc, want)
		}
		got, err := ReadVarint(NewCursor(enc))
		if err != nil || got != v {
			t.Errorf("round trip %d: got %d, %v", v, got, err)
		}
	}
}

func TestDecodeZigZag(t *testing.T) {
	tests := []struct {
		encoded uint64
		want    int64
	}{
		{0, 0},
		{1, -1},
		{2, 1},
		{3, -2},
		{4294967294, 2147483647},
		{4294967295, -2147483648},
	}
	for _, tt := range tests {
		if got := DecodeZigZag64(tt.encoded); got != tt.want {
			t.Errorf("DecodeZigZag64(%d) = %d, want %d", tt.encoded, got, tt.want)
		}
	}
	if got := DecodeZigZag32(3); got != -2 {
		t.Errorf("DecodeZigZag32(3) = %d, want -2", got)
	}
}
