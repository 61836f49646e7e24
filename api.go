// Package protosift inspects protobuf wire-format payloads without their
// schemas. It tokenizes raw streams into message-level chunks, heuristically
// recognizes nested messages, and pretty-prints payloads as field trees,
// optionally enriched by partial type definitions.
package protosift

import (
	"fmt"
	"io"

	"github.com/protosift/protosift/inspect"
	"github.com/protosift/protosift/registry"
	"github.com/protosift/protosift/scan"
	"github.com/protosift/protosift/wire"
)

// ===== INSPECTOR API =====

// Inspector ties the registry and the tree printer together behind one
// handle.
type Inspector struct {
	registry *registry.Registry
	printer  *inspect.Printer
}

// New creates an Inspector with an empty registry and colored output.
func New() *Inspector {
	reg := registry.NewRegistry()
	return &Inspector{
		registry: reg,
		printer:  inspect.NewPrinter(reg),
	}
}

// LoadSchema loads message definitions from a .proto file or a directory
// tree of .proto files.
func (p *Inspector) LoadSchema(path string) error {
	return p.registry.LoadSchema(path)
}

// LoadTypedefs loads message definitions from a TOML typedef file.
func (p *Inspector) LoadTypedefs(path string) error {
	return p.registry.LoadTypedefs(path)
}

// SetStyles switches the output styling, e.g. to inspect.PlainStyles for
// piped output.
func (p *Inspector) SetStyles(s inspect.Styles) {
	p.printer.Styles = s
}

// Inspect renders data as a tree of the named root type. Unregistered
// types are rendered purely heuristically.
func (p *Inspector) Inspect(data []byte, rootType string) (string, error) {
	out, err := p.printer.Message(data, rootType)
	if err != nil {
		return "", fmt.Errorf("payload does not parse as %s: %w", rootType, err)
	}
	return out, nil
}

// WireTypeMismatch reports whether any inspected payload used a field
// under conflicting wire types.
func (p *Inspector) WireTypeMismatch() bool {
	return p.printer.WireTypeMismatch()
}

// Tokens splits a complete payload into its message-level tokens.
func (p *Inspector) Tokens(data []byte) ([][]byte, error) {
	tok := scan.NewTokenizer()
	tok.Feed(data)

	var tokens [][]byte
	for {
		token, ok := tok.NextToken()
		if !ok {
			break
		}
		tokens = append(tokens, append([]byte(nil), token...))
	}
	if tok.Corrupt() {
		return tokens, wire.ErrCorrupt
	}
	if err := tok.Pending(); err != nil {
		return tokens, fmt.Errorf("payload ends mid-field: %w", err)
	}
	return tokens, nil
}

// ===== STREAMING API =====

const defaultStreamBuffer = 32 * 1024

// Stream pulls message tokens out of an io.Reader incrementally, carrying
// tokenizer state across read buffers.
type Stream struct {
	r    io.Reader
	tok  *scan.Tokenizer
	buf  []byte
	done bool
}

// NewStream wraps r with the default read buffer size.
func NewStream(r io.Reader) *Stream {
	return NewStreamSize(r, defaultStreamBuffer)
}

// NewStreamSize wraps r reading size bytes at a time.
func NewStreamSize(r io.Reader, size int) *Stream {
	if size <= 0 {
		size = defaultStreamBuffer
	}
	return &Stream{
		r:   r,
		tok: scan.NewTokenizer(),
		buf: make([]byte, size),
	}
}

// Next returns the next token. It returns io.EOF at a clean end of the
// stream, io.ErrUnexpectedEOF when the stream ends mid-field, and
// wire.ErrCorrupt when the root level stops being parseable. The returned
// slice is owned by the caller.
func (s *Stream) Next() ([]byte, error) {
	for {
		if token, ok := s.tok.NextToken(); ok {
			// Tokens alias the read buffer, which the next fill overwrites.
			return append([]byte(nil), token...), nil
		}
		if s.tok.Corrupt() {
			return nil, wire.ErrCorrupt
		}
		if s.done {
			if s.tok.Pending() != nil {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, io.EOF
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			s.tok.Feed(s.buf[:n])
		}
		if err == io.EOF {
			s.done = true
		} else if err != nil {
			return nil, err
		}
	}
}
