package inspect

import (
	"fmt"
	"strings"

	"github.com/protosift/protosift/registry"
	"github.com/protosift/protosift/schema"
	"github.com/protosift/protosift/wire"
)

// Printer renders a payload as an indented tree of fields. It is not safe
// for concurrent use: the wire-type mismatch flag accumulates across calls.
type Printer struct {
	reg    *registry.Registry
	Styles Styles

	// MaxDepth bounds nested message recursion.
	MaxDepth int

	wireTypeMismatch bool
}

// NewPrinter creates a printer with terminal colors enabled.
func NewPrinter(reg *registry.Registry) *Printer {
	return &Printer{
		reg:      reg,
		Styles:   DefaultStyles(),
		MaxDepth: 10,
	}
}

// WireTypeMismatch reports whether any field was seen under conflicting
// wire types, or under a wire type disagreeing with its registered kind.
// Either is a strong hint that a payload was rendered with the wrong type.
func (p *Printer) WireTypeMismatch() bool {
	return p.wireTypeMismatch
}

// Message renders data as a message of the named type. Unregistered type
// names render every field heuristically.
func (p *Printer) Message(data []byte, typeName string) (string, error) {
	return p.message(data, typeName, 0)
}

func (p *Printer) message(data []byte, typeName string, depth int) (string, error) {
	if depth > p.MaxDepth {
		return "recursion depth exceeded", nil
	}

	cur := wire.NewCursor(data)
	var lines []string
	seen := make(map[wire.FieldNumber]wire.WireType)

	for !cur.AtEnd() {
		tag, err := wire.ReadTag(cur)
		if err != nil {
			return "", err
		}

		if tag.Type == wire.WireStartGroup || tag.Type == wire.WireEndGroup {
			number := p.Styles.FieldNumber.Render(fmt.Sprintf("%d", tag.Number))
			lines = append(lines, fmt.Sprintf("%s <%s> = group (end %s)", number, tag.Type, number))
			continue
		}

		raw, err := p.readValue(cur, tag.Type)
		if err != nil {
			return "", err
		}

		if prev, ok := seen[tag.Number]; ok && prev != tag.Type {
			p.wireTypeMismatch = true
		}
		seen[tag.Number] = tag.Type

		lines = append(lines, p.renderField(tag, raw, typeName, depth))
	}

	if len(lines) == 0 {
		lines = append(lines, "empty")
	}
	header := p.Styles.TypeName.Render(typeName)
	return header + ":\n" + indent(strings.Join(lines, "\n")), nil
}

// readValue consumes one value of the given wire type and returns its raw
// bytes. Varint values keep their wire encoding so typed handlers can
// decode them their own way.
func (p *Printer) readValue(cur *wire.Cursor, wt wire.WireType) ([]byte, error) {
	switch wt {
	case wire.WireVarint:
		start := cur.Position()
		if _, err := wire.ReadVarint(cur); err != nil {
			return nil, err
		}
		end := cur.Position()
		if err := cur.Seek(start); err != nil {
			return nil, err
		}
		return cur.Read(end - start)
	case wire.WireFixed32:
		return cur.Read(4)
	case wire.WireFixed64:
		return cur.Read(8)
	case wire.WireChunk:
		length, err := wire.ReadVarint(cur)
		if err != nil {
			return nil, err
		}
		if length > uint64(cur.Remaining()) {
			return nil, wire.ErrCorrupt
		}
		return cur.Read(int(length))
	}
	return nil, wire.ErrCorrupt
}

// renderField formats one "number name = value" line.
func (p *Printer) renderField(tag wire.Tag, raw []byte, typeName string, depth int) string {
	field, known := p.reg.Lookup(typeName, int32(tag.Number))

	kind := field.Kind
	if !known || kind == "" {
		kind = schema.KindForWireType(tag.Type)
	} else if kind != schema.KindMessage && kind.WireType() != tag.Type {
		// The payload disagrees with the registered kind. Render what is
		// actually on the wire and flag the document.
		p.wireTypeMismatch = true
		kind = schema.KindForWireType(tag.Type)
		field = schema.Field{}
	}
	if kind == schema.KindMessage && tag.Type != wire.WireChunk {
		kind = schema.KindForWireType(tag.Type)
	}

	name := field.Name
	if name == "" {
		name = fmt.Sprintf("<%s>", kind)
	}
	number := p.Styles.FieldNumber.Render(fmt.Sprintf("%d", tag.Number))
	return fmt.Sprintf("%s %s = %s", number, name, p.renderValue(kind, field, raw, depth))
}
