package selector

import (
	"sort"
	"strings"

	"github.com/npillmayer/stypro/ns"
)

// Combinator connects a selector part to its predecessor.
type Combinator string

// Combinators. An empty combinator denotes the descendant combinator.
const (
	Descendant Combinator = ""
	Child      Combinator = ">"
	Adjacent   Combinator = "+"
	Sibling    Combinator = "~"
)

// Part is a single compound selector.
type Part struct {
	Combinator Combinator // combinator to the preceding part
	Raw        string     // raw selector text; other fields except Combinator are ignored
	NS         string     // namespace alias
	NSDef      *ns.Def    // namespace definition; takes precedence over NS
	E          string     // element name
	I          string     // id
	C          []string   // classes
	S          string     // pseudo classes, pseudo elements, attribute selectors
	Q          []string   // qualifiers
}

// Selector is a sequence of selector parts. The empty selector denotes the
// root rule.
type Selector []Part

// Of creates a selector from parts.
func Of(parts ...Part) Selector {
	return Selector(parts)
}

// Raw creates a selector from raw selector text.
func Raw(text string) Selector {
	text = strings.TrimSpace(text)
	if text == "" {
		return Selector{}
	}
	return Selector{{Raw: text}}
}

// IsRoot is true for the empty selector.
func (s Selector) IsRoot() bool {
	return len(s) == 0
}

// Append returns a new selector with parts appended to s. s is left
// unchanged.
func (s Selector) Append(parts ...Part) Selector {
	sel := make(Selector, 0, len(s)+len(parts))
	sel = append(sel, s...)
	return append(sel, parts...)
}

// Namespaces returns the namespace definitions referenced by s, in order of
// occurrence and without duplicates.
func (s Selector) Namespaces() []*ns.Def {
	var defs []*ns.Def
	seen := make(map[string]bool) // by URL
	for _, p := range s {
		if p.Raw == "" && p.NSDef != nil && !seen[p.NSDef.URL] {
			seen[p.NSDef.URL] = true
			defs = append(defs, p.NSDef)
		}
	}
	return defs
}

// Equal compares two selectors part by part. Classes and qualifiers are
// compared as sets, namespace definitions by URL.
func (s Selector) Equal(other Selector) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].equal(other[i]) {
			return false
		}
	}
	return true
}

func (p Part) equal(o Part) bool {
	return p.Combinator == o.Combinator && p.Raw == o.Raw &&
		p.NS == o.NS && ns.Same(p.NSDef, o.NSDef) && p.E == o.E && p.I == o.I && p.S == o.S &&
		equalSets(p.C, o.C) && equalSets(p.Q, o.Q)
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = sorted(a), sorted(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sorted(s []string) []string {
	if len(s) < 2 {
		return s
	}
	c := make([]string, len(s))
	copy(c, s)
	sort.Strings(c)
	return c
}

func (s Selector) String() string {
	return KeyText(s)
}
