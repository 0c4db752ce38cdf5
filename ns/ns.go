package ns

import (
	"strconv"
	"strings"
)

// Def is an XML namespace definition: a namespace URL together with the
// alias preferred for it.
type Def struct {
	URL   string
	Alias string // preferred alias
}

// New creates a namespace definition. An empty alias is replaced by "ns".
func New(url, alias string) *Def {
	if alias == "" {
		alias = "ns"
	}
	return &Def{URL: url, Alias: alias}
}

func (d *Def) String() string {
	return d.Alias + "=" + d.URL
}

// Well-known namespaces.
var (
	XHTML  = New("http://www.w3.org/1999/xhtml", "html")
	SVG    = New("http://www.w3.org/2000/svg", "svg")
	MathML = New("http://www.w3.org/1998/Math/MathML", "math")
)

var wellKnown = map[string]*Def{
	XHTML.Alias:  XHTML,
	SVG.Alias:    SVG,
	MathML.Alias: MathML,
}

// Known returns the well-known namespace for an alias ("html", "svg" or
// "math").
func Known(alias string) (*Def, bool) {
	d, ok := wellKnown[alias]
	return d, ok
}

// Same is true if a and b denote the same namespace, i.e. both are nil or
// have equal URLs.
func Same(a, b *Def) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.URL == b.URL
}

// Aliaser assigns unique aliases to namespaces. The first namespace asking
// for an alias gets its preferred one; subsequent namespaces with the same
// preferred alias but a different URL get a numbered variant ("svg2", …).
// The zero value is not usable, create one with NewAliaser.
//
// An Aliaser is not safe for concurrent use.
type Aliaser struct {
	byURL   map[string]string
	byAlias map[string]string
}

// NewAliaser creates an empty alias registry.
func NewAliaser() *Aliaser {
	return &Aliaser{
		byURL:   make(map[string]string),
		byAlias: make(map[string]string),
	}
}

// Alias returns the alias for namespace d, registering a new one if
// necessary. Definitions with equal URLs share one alias.
func (a *Aliaser) Alias(d *Def) string {
	if alias, ok := a.byURL[d.URL]; ok {
		return alias
	}
	preferred := strings.TrimSpace(d.Alias)
	if preferred == "" {
		preferred = "ns"
	}
	alias := preferred
	for n := 2; ; n++ {
		if _, taken := a.byAlias[alias]; !taken {
			break
		}
		alias = preferred + strconv.Itoa(n)
	}
	a.byURL[d.URL] = alias
	a.byAlias[alias] = d.URL
	tracer().Debugf("namespace %s registered as '%s'", d.URL, alias)
	return alias
}

// Aliases returns all registered aliases mapped to their namespace URLs.
func (a *Aliaser) Aliases() map[string]string {
	m := make(map[string]string, len(a.byAlias))
	for k, v := range a.byAlias {
		m[k] = v
	}
	return m
}
