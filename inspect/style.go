// Package inspect renders tokenized payloads as an indented field tree,
// consulting the registry for known types and falling back to wire-type
// heuristics everywhere else.
package inspect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles applied to tree output. Zero-value
// styles render plain text, so PlainStyles doubles as the machine-readable
// mode.
type Styles struct {
	FieldNumber lipgloss.Style
	Number      lipgloss.Style
	Str         lipgloss.Style
	TypeName    lipgloss.Style
	Err         lipgloss.Style
}

// DefaultStyles is the color scheme for terminal output.
func DefaultStyles() Styles {
	return Styles{
		FieldNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		Number:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Str:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		TypeName:    lipgloss.NewStyle().Bold(true),
		Err:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// PlainStyles renders without any escape sequences.
func PlainStyles() Styles {
	return Styles{}
}

// indent prefixes every non-empty line of text with four spaces.
func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}

const hexBytesPerLine = 24

// hexDump formats data as offset-prefixed hex lines with a printable-ASCII
// gutter, 24 bytes per line.
func hexDump(data []byte) string {
	var lines []string
	for offset := 0; offset < len(data); offset += hexBytesPerLine {
		chunk := data[offset:]
		if len(chunk) > hexBytesPerLine {
			chunk = chunk[:hexBytesPerLine]
		}

		var hex strings.Builder
		var printable strings.Builder
		for i, b := range chunk {
			if i > 0 {
				hex.WriteByte(' ')
			}
			fmt.Fprintf(&hex, "%02X", b)
			if b >= 0x20 && b < 0x7f {
				printable.WriteByte(b)
			} else {
				printable.WriteByte('.')
			}
		}
		pad := strings.Repeat("   ", hexBytesPerLine-len(chunk))
		lines = append(lines, fmt.Sprintf("%04x   %s%s  %s", offset, hex.String(), pad, printable.String()))
	}
	return strings.Join(lines, "\n")
}
