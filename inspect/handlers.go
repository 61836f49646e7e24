package inspect

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/protosift/protosift/scan"
	"github.com/protosift/protosift/schema"
	"github.com/protosift/protosift/wire"
)

// renderValue formats the raw wire bytes of one field according to its
// display kind. Rendering never fails: undecodable values degrade to an
// inline error or a hex dump.
func (p *Printer) renderValue(kind schema.Kind, field schema.Field, raw []byte, depth int) string {
	switch kind {
	case schema.KindVarint, schema.KindUint32, schema.KindUint64, schema.KindBool:
		v, err := decodeVarint(raw)
		if err != nil {
			return p.errText(err)
		}
		return p.Styles.Number.Render(fmt.Sprintf("%d", v))

	case schema.KindInt32, schema.KindInt64:
		v, err := decodeVarint(raw)
		if err != nil {
			return p.errText(err)
		}
		return p.Styles.Number.Render(fmt.Sprintf("%d", int64(v)))

	case schema.KindSint32:
		v, err := decodeVarint(raw)
		if err != nil {
			return p.errText(err)
		}
		return p.Styles.Number.Render(fmt.Sprintf("%d", wire.DecodeZigZag32(v)))

	case schema.KindSint64:
		v, err := decodeVarint(raw)
		if err != nil {
			return p.errText(err)
		}
		return p.Styles.Number.Render(fmt.Sprintf("%d", wire.DecodeZigZag64(v)))

	case schema.KindEnum:
		v, err := decodeVarint(raw)
		if err != nil {
			return p.errText(err)
		}
		if label, ok := p.reg.EnumLabel(field.TypeName, int32(v)); ok {
			return fmt.Sprintf("%s (%s)", label, p.Styles.Number.Render(fmt.Sprintf("%d", v)))
		}
		return p.Styles.Number.Render(fmt.Sprintf("%d", v))

	case schema.KindBit32:
		u := binary.LittleEndian.Uint32(raw)
		return fmt.Sprintf("0x%08X / %d / %g", u, int32(u), math.Float32frombits(u))

	case schema.KindBit64:
		u := binary.LittleEndian.Uint64(raw)
		return fmt.Sprintf("0x%016X / %d / %g", u, int64(u), math.Float64frombits(u))

	case schema.KindFixed32:
		return p.Styles.Number.Render(fmt.Sprintf("%d", binary.LittleEndian.Uint32(raw)))

	case schema.KindSfixed32:
		return p.Styles.Number.Render(fmt.Sprintf("%d", int32(binary.LittleEndian.Uint32(raw))))

	case schema.KindFixed64:
		return p.Styles.Number.Render(fmt.Sprintf("%d", binary.LittleEndian.Uint64(raw)))

	case schema.KindSfixed64:
		return p.Styles.Number.Render(fmt.Sprintf("%d", int64(binary.LittleEndian.Uint64(raw))))

	case schema.KindFloat:
		return p.Styles.Number.Render(fmt.Sprintf("%g", math.Float32frombits(binary.LittleEndian.Uint32(raw))))

	case schema.KindDouble:
		return p.Styles.Number.Render(fmt.Sprintf("%g", math.Float64frombits(binary.LittleEndian.Uint64(raw))))

	case schema.KindString:
		if !utf8.Valid(raw) {
			return p.renderBytes(raw)
		}
		return p.Styles.Str.Render(fmt.Sprintf("%q", raw))

	case schema.KindBytes:
		return p.renderBytes(raw)

	case schema.KindPacked:
		return p.renderPacked(raw)

	case schema.KindMessage:
		if field.TypeName != "" {
			if tree, err := p.message(raw, field.TypeName, depth+1); err == nil {
				return tree
			}
		}
		return p.renderChunk(raw, depth)

	case schema.KindChunk:
		return p.renderChunk(raw, depth)
	}
	return p.renderBytes(raw)
}

// renderChunk decides how to show an untyped chunk: probable text is
// quoted, probable messages are rendered recursively, everything else hex
// dumps.
func (p *Printer) renderChunk(raw []byte, depth int) string {
	if len(raw) == 0 {
		return "empty chunk"
	}
	if probableString(raw) {
		return p.Styles.Str.Render(fmt.Sprintf("%q", raw))
	}
	if looks, err := scan.LooksLikeMessage(raw, scan.DisplayPreset); err == nil && looks {
		if tree, err := p.message(raw, "message", depth+1); err == nil {
			return tree
		}
	}
	return p.renderBytes(raw)
}

func (p *Printer) renderBytes(raw []byte) string {
	if len(raw) == 0 {
		return "bytes (0)"
	}
	return fmt.Sprintf("bytes (%d)\n%s", len(raw), indent(hexDump(raw)))
}

// renderPacked decodes the chunk body as consecutive varints. Bodies that
// do not decode cleanly fall back to a hex dump.
func (p *Printer) renderPacked(raw []byte) string {
	cur := wire.NewCursor(raw)
	var values []string
	for !cur.AtEnd() {
		v, err := wire.ReadVarint(cur)
		if err != nil {
			return p.renderBytes(raw)
		}
		values = append(values, p.Styles.Number.Render(fmt.Sprintf("%d", v)))
	}
	return "packed [" + strings.Join(values, " ") + "]"
}

func (p *Printer) errText(err error) string {
	return p.Styles.Err.Render("ERROR: " + err.Error())
}

func decodeVarint(raw []byte) (uint64, error) {
	cur := wire.NewCursor(raw)
	v, err := wire.ReadVarint(cur)
	if err != nil {
		return 0, err
	}
	if !cur.AtEnd() {
		return 0, wire.ErrCorrupt
	}
	return v, nil
}

// probableString reports whether raw reads as human text: valid UTF-8 with
// at most 5% control characters and at least 80% printable runes.
func probableString(raw []byte) bool {
	if len(raw) == 0 || !utf8.Valid(raw) {
		return false
	}

	var total, control, printable int
	for _, r := range string(raw) {
		total++
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' || r == 0x7f {
			control++
		}
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	if float64(control)/float64(total) > 0.05 {
		return false
	}
	return float64(printable)/float64(total) >= 0.8
}
