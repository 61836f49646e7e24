package scan

import (
	"errors"
	"math"

	"github.com/protosift/protosift/wire"
)

// Tokenizer pulls opaque byte-string tokens out of a logical stream that
// may be protobuf wire format, without a schema. The stream arrives as
// successive slices via Feed; NextToken yields one candidate leaf value per
// call, descending speculatively into chunks the classifier accepts and
// backtracking out of chunks that later prove not to parse. Enough state is
// persisted between slices to resume an interrupted read without re-parsing
// consumed bytes.
//
// A Tokenizer is owned by a single stream and must not be shared between
// goroutines; independent streams get independent Tokenizers.
type Tokenizer struct {
	cur     *wire.Cursor
	stack   *contextStack
	pending error
	rebased bool
}

// NewTokenizer creates a tokenizer with an empty root context and no input.
// Call Feed before NextToken.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		cur:   wire.NewCursor(nil),
		stack: newContextStack(),
	}
}

// Feed installs the next slice of the stream. It must only be called once
// NextToken has returned ok=false for the previous slice; the context stack
// was rebased against the new slice at that point.
func (t *Tokenizer) Feed(slice []byte) {
	t.cur = wire.NewCursor(slice)
	t.rebased = false
}

// Pending returns the persisted resumption state: nil, ErrTruncatedVarint,
// *wire.TruncatedError, or ErrCorrupt. Callers use it to tell "needs more
// input" from "stream ended or poisoned" after NextToken returns ok=false.
func (t *Tokenizer) Pending() error {
	return t.pending
}

// Corrupt reports whether root-level corruption has permanently poisoned
// the stream.
func (t *Tokenizer) Corrupt() bool {
	return errors.Is(t.pending, wire.ErrCorrupt)
}

// NextToken extracts the next opaque token from the current slice. The
// returned slice aliases the slice most recently fed; callers that outlive
// the slice must copy. ok=false means no token is available: either more
// bytes are needed, or the stream ended, or it is poisoned — Pending
// carries the distinction.
func (t *Tokenizer) NextToken() (token []byte, ok bool) {
	if !t.resume() {
		return nil, false
	}

	for !t.cur.AtEnd() {
		frame := t.stack.peek()
		length, found, err := t.findNextChunk(frame)
		switch {
		case err == nil && found:
			body, perr := t.cur.Peek(length)
			if perr != nil {
				// The chunk body runs past this slice. Tokens never span
				// slices: consume the remainder, record the exact shortfall
				// and let the resumed skip drop the rest.
				missing := length - t.cur.Remaining()
				_ = t.cur.Skip(t.cur.Remaining())
				t.save(&wire.TruncatedError{Remaining: missing})
				return nil, false
			}
			if yes, _ := LooksLikeMessage(body, TokenizerPreset); yes {
				// Descend without consuming: the chunk's fields are parsed
				// in place under a new bounded context.
				t.stack.push(t.cur.Position(), length)
				continue
			}
			_ = t.cur.Skip(length)
			return body, true

		case err == nil:
			// No chunk left in the active context.
			if frame.Bounded {
				// A completed nested message yields no token of its own.
				if _, perr := t.stack.pop(); perr != nil {
					t.save(wire.ErrCorrupt)
					return nil, false
				}
				continue
			}
			// Root context at end of input: logical end of the stream.
			t.save(nil)
			return nil, false

		case errors.Is(err, wire.ErrCorrupt):
			if frame.Bounded {
				// The speculative descent failed: the chunk was not a
				// message after all. Recover it as one opaque token.
				if token, ok := t.backtrack(); ok {
					return token, true
				}
			}
			// Corruption at the root (or an unrecoverable backtrack)
			// poisons the remainder of the stream.
			t.save(wire.ErrCorrupt)
			return nil, false

		default:
			// Truncation mid-field: save and wait for the next slice.
			t.save(err)
			return nil, false
		}
	}

	t.save(nil)
	return nil, false
}

// resume finishes whatever operation the previous slice ended inside of. It
// reports whether normal extraction may proceed.
func (t *Tokenizer) resume() bool {
	switch {
	case t.pending == nil:
		return true

	case errors.Is(t.pending, wire.ErrCorrupt):
		// Poisoned stream: never touch the stack again.
		return false

	case errors.Is(t.pending, wire.ErrTruncatedVarint):
		t.pending = nil
		// The value is a discriminant only; its bytes just need consuming.
		if _, err := wire.ReadVarint(t.cur); err != nil {
			if errors.Is(err, wire.ErrTruncatedVarint) {
				t.save(err)
			} else {
				t.save(wire.ErrCorrupt)
			}
			return false
		}
		return true

	default:
		var te *wire.TruncatedError
		if !errors.As(t.pending, &te) {
			t.save(wire.ErrCorrupt)
			return false
		}
		t.pending = nil
		if err := t.cur.Skip(te.Remaining); err != nil {
			// Still short: Skip consumed the slice and reports what is
			// left owed.
			var short *wire.TruncatedError
			if errors.As(err, &short) {
				t.save(short)
			} else {
				t.save(wire.ErrCorrupt)
			}
			return false
		}
		return true
	}
}

// findNextChunk consumes fields of the active context until it finds a
// chunk header, the context is exhausted (found=false), or an error occurs.
// Exceeding a bounded context's declared length is a framing violation.
func (t *Tokenizer) findNextChunk(frame *MessageContext) (length int, found bool, err error) {
	for !t.cur.AtEnd() {
		if frame.Bounded {
			consumed := t.cur.Position() - frame.Start
			if consumed == frame.Length {
				return 0, false, nil
			}
			if consumed > frame.Length {
				return 0, false, wire.ErrCorrupt
			}
		}
		tv, err := wire.ReadTaggedValue(t.cur)
		if err != nil {
			return 0, false, err
		}
		if tv.IsChunk() {
			if tv.ChunkLength > math.MaxInt32 {
				return 0, false, wire.ErrCorrupt
			}
			return int(tv.ChunkLength), true, nil
		}
	}
	return 0, false, nil
}

// backtrack abandons the active speculative context: it seeks back to the
// context's start, re-reads its declared length as one opaque token and
// pops the context. The saved start/length are the only state needed, so no
// copy of the bytes is ever kept.
func (t *Tokenizer) backtrack() ([]byte, bool) {
	frame := t.stack.peek()
	if err := t.cur.Seek(frame.Start); err != nil {
		return nil, false
	}
	token, err := t.cur.Read(frame.Length)
	if err != nil {
		return nil, false
	}
	if _, err := t.stack.pop(); err != nil {
		return nil, false
	}
	return token, true
}

// save records the resumption state for the next slice. The first save per
// slice rebases the context stack; corruption is sticky and never
// overwritten.
func (t *Tokenizer) save(state error) {
	if errors.Is(t.pending, wire.ErrCorrupt) {
		return
	}
	if !t.rebased {
		t.stack.rebase(t.cur.Len())
		t.rebased = true
	}
	t.pending = state
}
