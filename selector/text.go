package selector

import (
	"strconv"
	"strings"

	"github.com/npillmayer/stypro/ns"
)

// Format controls how a selector is turned into text.
type Format struct {
	// NSAlias returns the alias for a namespace definition. If nil, the
	// preferred alias of the definition is used.
	NSAlias func(*ns.Def) string
	// Qualify formats a single qualifier. If nil, qualifiers are omitted.
	Qualify func(q string) string
}

// Text renders a selector as CSS selector text. A nil format is legal.
// Classes and qualifiers are rendered in sorted order.
func Text(s Selector, format *Format) string {
	if format == nil {
		format = &Format{}
	}
	var b strings.Builder
	for i, p := range s {
		if i > 0 {
			if p.Combinator == Descendant {
				b.WriteByte(' ')
			} else {
				b.WriteString(string(p.Combinator))
			}
		}
		p.write(&b, format)
	}
	return b.String()
}

// KeyText renders a selector as text including its qualifiers, each
// prefixed by '@'. It serves as a unique key for a rule.
func KeyText(s Selector) string {
	return Text(s, &Format{Qualify: func(q string) string {
		return "@" + Escape(q)
	}})
}

func (p Part) write(b *strings.Builder, format *Format) {
	if p.Raw != "" {
		b.WriteString(p.Raw)
		return
	}
	alias := p.NS
	if p.NSDef != nil {
		if format.NSAlias != nil {
			alias = format.NSAlias(p.NSDef)
		} else {
			alias = p.NSDef.Alias
		}
	}
	start := b.Len()
	if alias != "" {
		b.WriteString(Escape(alias))
		b.WriteByte('|')
		if p.E == "" {
			b.WriteByte('*')
		}
	}
	if p.E != "" {
		b.WriteString(Escape(p.E))
	}
	if p.I != "" {
		b.WriteByte('#')
		b.WriteString(Escape(p.I))
	}
	for _, c := range sorted(p.C) {
		b.WriteByte('.')
		b.WriteString(Escape(c))
	}
	b.WriteString(p.S)
	if b.Len() == start {
		b.WriteByte('*')
	}
	if format.Qualify != nil {
		for _, q := range sorted(p.Q) {
			b.WriteString(format.Qualify(q))
		}
	}
}

// Escape escapes a string for use as a CSS identifier.
func Escape(ident string) string {
	var b strings.Builder
	for i, r := range ident {
		switch {
		case r == 0:
			b.WriteRune('�')
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case i == 0 && r >= '0' && r <= '9':
			b.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case r >= 0x80 || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
