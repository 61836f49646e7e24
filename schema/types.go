// Package schema holds the display type model consulted when rendering
// payloads whose message types are (partially) known. Nothing here affects
// tokenization: the streaming core is schema-less by design.
package schema

import (
	"github.com/protosift/protosift/wire"
)

// Kind identifies how a known field's payload is rendered. The set is
// closed — protobuf's scalar kinds are fixed — with KindMessage doubling as
// the "unknown, fall back to heuristics" default.
type Kind string

const (
	KindVarint   Kind = "varint"
	KindInt32    Kind = "int32"
	KindInt64    Kind = "int64"
	KindUint32   Kind = "uint32"
	KindUint64   Kind = "uint64"
	KindSint32   Kind = "sint32"
	KindSint64   Kind = "sint64"
	KindBool     Kind = "bool"
	KindEnum     Kind = "enum"
	KindBit32    Kind = "32bit"
	KindFixed32  Kind = "fixed32"
	KindSfixed32 Kind = "sfixed32"
	KindFloat    Kind = "float"
	KindBit64    Kind = "64bit"
	KindFixed64  Kind = "fixed64"
	KindSfixed64 Kind = "sfixed64"
	KindDouble   Kind = "double"
	KindChunk    Kind = "chunk"
	KindBytes    Kind = "bytes"
	KindString   Kind = "string"
	KindPacked   Kind = "packed"
	KindMessage  Kind = "message"
)

var kinds = map[Kind]struct{}{
	KindVarint: {}, KindInt32: {}, KindInt64: {}, KindUint32: {},
	KindUint64: {}, KindSint32: {}, KindSint64: {}, KindBool: {},
	KindEnum: {}, KindBit32: {}, KindFixed32: {}, KindSfixed32: {},
	KindFloat: {}, KindBit64: {}, KindFixed64: {}, KindSfixed64: {},
	KindDouble: {}, KindChunk: {}, KindBytes: {}, KindString: {},
	KindPacked: {}, KindMessage: {},
}

// KindFromName maps a typedef or .proto type name onto a Kind.
func KindFromName(name string) (Kind, bool) {
	k := Kind(name)
	_, ok := kinds[k]
	return k, ok
}

// KindForWireType returns the untyped display kind for a wire type, used
// when no schema entry exists for a field.
func KindForWireType(wt wire.WireType) Kind {
	switch wt {
	case wire.WireVarint:
		return KindVarint
	case wire.WireFixed64:
		return KindBit64
	case wire.WireFixed32:
		return KindBit32
	case wire.WireChunk:
		return KindChunk
	}
	return KindMessage
}

// WireType returns the wire type a field of this kind is expected to use,
// for consistency tracking. Message-like kinds ride on chunks.
func (k Kind) WireType() wire.WireType {
	switch k {
	case KindVarint, KindInt32, KindInt64, KindUint32, KindUint64,
		KindSint32, KindSint64, KindBool, KindEnum:
		return wire.WireVarint
	case KindBit32, KindFixed32, KindSfixed32, KindFloat:
		return wire.WireFixed32
	case KindBit64, KindFixed64, KindSfixed64, KindDouble:
		return wire.WireFixed64
	}
	return wire.WireChunk
}

// Field describes one known field of a message type.
type Field struct {
	Name string
	Kind Kind

	// TypeName is the registry key to recurse with for message and enum
	// kinds.
	TypeName string
}

// Message is the set of known fields of one message type, keyed by field
// number. Numbers absent from the map fall back to wire-type heuristics.
type Message struct {
	Name   string
	Fields map[int32]Field
}

// NewMessage creates an empty message definition.
func NewMessage(name string) *Message {
	return &Message{Name: name, Fields: make(map[int32]Field)}
}
