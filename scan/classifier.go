// Package scan implements the schema-less streaming tokenizer: a heuristic
// classifier that decides whether a byte range is plausibly a nested
// protobuf message, and an incremental tokenizer that extracts opaque leaf
// values from a stream supplied as successive slices.
package scan

import (
	"github.com/protosift/protosift/wire"
)

// probeFieldLimit bounds how many leading fields the classifier inspects.
const probeFieldLimit = 3

// probeWindow is how many bytes ahead of each probed tag are scanned for
// control characters.
const probeWindow = 4

// Preset tunes LooksLikeMessage. The tokenizer and the display layer share
// the classifier but need different strictness: descending into a chunk
// mid-stream is expensive to undo, so the tokenizer demands more evidence
// than the display-only guesser.
type Preset struct {
	// MaxChunkLength is the largest nested chunk length the probe accepts
	// without counting it as a weird value.
	MaxChunkLength uint64

	// RequireControlByte makes a control character (byte < 0x20 other than
	// '\n') in the probed window a precondition for a positive verdict.
	// Plausible message payloads carry small tag/length bytes; pure text
	// does not.
	RequireControlByte bool
}

// The two deployment presets.
var (
	// TokenizerPreset is the strict preset used by the streaming tokenizer.
	TokenizerPreset = Preset{MaxChunkLength: 100, RequireControlByte: true}

	// DisplayPreset is the relaxed preset used by the display-only guesser:
	// any probe that finds at least one valid field with at most one weird
	// value passes.
	DisplayPreset = Preset{MaxChunkLength: 500, RequireControlByte: false}
)

// LooksLikeMessage reports whether data plausibly encodes a protobuf
// message body. It reads up to three leading fields, stopping early at the
// end of the range, and scores them: 64-bit values whose last byte is
// neither 0x00 nor 0xFF and chunks that are empty or longer than the preset
// cap count as weird; group markers and varints carry no penalty. A range
// that fails even loose structural parsing returns an error, which callers
// treat as "not a message".
//
// The verdict is a heuristic, not a proof: byte sequences are inherently
// ambiguous between raw bytes and valid sub-messages.
func LooksLikeMessage(data []byte, preset Preset) (bool, error) {
	cur := wire.NewCursor(data)
	ctrlSeen := false
	weird := 0
	fields := 0

	for i := 0; i < probeFieldLimit; i++ {
		window, err := cur.Peek(min(probeWindow, cur.Remaining()))
		if err != nil {
			return false, wire.ErrCorrupt
		}
		for _, b := range window {
			if b < 0x20 && b != '\n' {
				ctrlSeen = true
			}
		}

		tag, err := wire.ReadTag(cur)
		if err != nil {
			return false, err
		}
		fields++

		switch tag.Type {
		case wire.WireStartGroup, wire.WireEndGroup:
			// No payload, no penalty.
		case wire.WireFixed32:
			if err := cur.Skip(4); err != nil {
				return false, wire.ErrCorrupt
			}
		case wire.WireFixed64:
			value, err := cur.Read(8)
			if err != nil {
				return false, wire.ErrCorrupt
			}
			// Plausible floating-point values end in an exponent/sign byte
			// of 0x00 or 0xFF.
			if last := value[7]; last != 0x00 && last != 0xFF {
				weird++
			}
		case wire.WireChunk:
			length, err := wire.ReadVarint(cur)
			if err != nil {
				return false, err
			}
			if length == 0 || length > preset.MaxChunkLength {
				weird++
			}
			if length > uint64(cur.Len()) {
				return false, wire.ErrCorrupt
			}
			if err := cur.Skip(int(length)); err != nil {
				return false, wire.ErrCorrupt
			}
		case wire.WireVarint:
			if _, err := wire.ReadVarint(cur); err != nil {
				return false, err
			}
		}

		if cur.AtEnd() {
			break
		}
	}

	if preset.RequireControlByte {
		return ctrlSeen && weird <= 1, nil
	}
	return fields > 0 && weird <= 1, nil
}
