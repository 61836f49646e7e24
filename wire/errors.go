package wire

import (
	"errors"
	"fmt"
)

// Decoding errors. ErrTruncatedVarint and *TruncatedError are recoverable by
// resumption: they mean the current slice ended mid-operation and the parse
// can continue once more bytes arrive. ErrCorrupt is not recoverable for the
// context it occurred in.
var (
	ErrTruncatedVarint = errors.New("wire: slice ended inside a varint")
	ErrCorrupt         = errors.New("wire: malformed wire data")
	ErrUnexpectedEOF   = errors.New("wire: unexpected end of slice")
)

// TruncatedError reports a fixed-size read or skip that ran off the end of
// the current slice. Remaining is the exact number of bytes still owed to
// the interrupted operation; supplying them in the next slice completes it.
type TruncatedError struct {
	Remaining int
}

// Error implements the error interface.
func (e *TruncatedError) Error() string {
	return fmt.Sprintf("wire: slice ended inside a fixed-size field, %d bytes still owed", e.Remaining)
}

// IsResumable reports whether err indicates an incomplete rather than
// invalid stream, i.e. whether feeding more bytes can clear it.
func IsResumable(err error) bool {
	if errors.Is(err, ErrTruncatedVarint) {
		return true
	}
	var te *TruncatedError
	return errors.As(err, &te)
}
