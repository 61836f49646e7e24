package wire

// Cursor provides bounds-checked sequential and random access over a single
// byte slice. A Cursor is scoped to one slice of a logical stream; callers
// that parse across slices create a fresh Cursor per slice and carry their
// own bookkeeping between them.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor positioned at the start of data. The cursor
// does not copy data; slices returned by Read and Peek alias it.
func NewCursor(data []byte) *Cursor {
	return &Cursor{buf: data}
}

// Position returns the offset of the next byte to be read.
func (c *Cursor) Position() int {
	return c.pos
}

// Len returns the total length of the underlying slice.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// AtEnd reports whether the cursor has consumed the whole slice.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.buf)
}

// ReadByte reads and consumes one byte, or fails with ErrUnexpectedEOF.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrUnexpectedEOF
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// Read consumes exactly n bytes and returns them without copying. It fails
// atomically: when fewer than n bytes remain the cursor does not advance.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrUnexpectedEOF
	}
	data := c.buf[c.pos : c.pos+n]
	c.pos += n
	return data, nil
}

// Peek returns the next n bytes without consuming them. Like Read it fails
// atomically when fewer than n bytes remain.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrUnexpectedEOF
	}
	return c.buf[c.pos : c.pos+n], nil
}

// Skip advances past n bytes. When fewer than n remain it advances to the
// end of the slice and fails with a *TruncatedError whose Remaining is the
// exact shortfall n - skipped.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return ErrUnexpectedEOF
	}
	if rem := c.Remaining(); n > rem {
		c.pos = len(c.buf)
		return &TruncatedError{Remaining: n - rem}
	}
	c.pos += n
	return nil
}

// Seek moves the cursor to an absolute offset within the slice.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return ErrUnexpectedEOF
	}
	c.pos = pos
	return nil
}
