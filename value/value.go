package value

import (
	"sort"
	"strconv"
	"strings"
)

// Type is the type tag of a CSS property value.
type Type uint8

// Value types.
const (
	TextType Type = iota
	NumberType
	DimensionType
	ZeroType
	URLType
)

func (t Type) String() string {
	switch t {
	case TextType:
		return "text"
	case NumberType:
		return "number"
	case DimensionType:
		return "dimension"
	case ZeroType:
		return "0"
	case URLType:
		return "url"
	}
	return "?"
}

// IsScalar is true for opaque scalar values without unit semantics.
func (t Type) IsScalar() bool {
	return t == TextType || t == NumberType
}

// Value is a CSS property value. String returns the CSS text of the value.
type Value interface {
	Type() Type
	String() string
}

// Text is a scalar string value, e.g. a keyword like "block".
type Text string

// Type is part of interface Value.
func (t Text) Type() Type { return TextType }

func (t Text) String() string { return string(t) }

// Number is a scalar numeric value without a unit.
type Number float64

// Type is part of interface Value.
func (n Number) Type() Type { return NumberType }

func (n Number) String() string {
	return formatNumber(float64(n))
}

// URL is a structured value rendered as `url("…")`.
type URL string

// Type is part of interface Value.
func (u URL) Type() Type { return URLType }

func (u URL) String() string {
	return `url("` + escapeQuoted(string(u)) + `")`
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func escapeQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`+"\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\A `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// --- Property bags ---------------------------------------------------------

// Properties is a property bag: CSS property values by key. A nil bag is a
// legal empty bag.
type Properties map[string]Value

// Clone returns a shallow copy of a property bag. It never returns nil.
func (p Properties) Clone() Properties {
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Keys returns the keys of a property bag in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal compares two property bags value by value (see func Equal).
func (p Properties) Equal(other Properties) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		w, ok := other[k]
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}

func (p Properties) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		if p[k] == nil {
			b.WriteString("<nil>")
		} else {
			b.WriteString(p[k].String())
		}
	}
	b.WriteByte('}')
	return b.String()
}
