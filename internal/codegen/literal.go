// Package codegen renders word lists as Rust constant arrays.
package codegen

import (
	"fmt"
	"strings"
	"unicode"
)

// QuoteLiteral encodes word as a double-quoted Rust string literal.
// Plain words are emitted unchanged between the quotes.
func QuoteLiteral(word string) string {
	var b strings.Builder
	b.Grow(len(word) + 2)
	b.WriteByte('"')
	writeEscaped(&b, word)
	b.WriteByte('"')
	return b.String()
}

func writeEscaped(b *strings.Builder, word string) {
	for _, r := range word {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
}

// IsIdentifier reports whether name can be used as a Rust constant name.
func IsIdentifier(name string) bool {
	if name == "" || name == "_" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
