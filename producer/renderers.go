package producer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/cssom"
	"github.com/npillmayer/stypro/ns"
	"github.com/npillmayer/stypro/value"
)

// Property keys with special meaning.
const (
	TextKey         = "$$css"       // raw CSS text
	ImportPrefix    = "@import:"    // "@import:<url>", value is an optional media query
	NamespacePrefix = "@namespace:" // "@namespace:<alias>", value is the namespace URL
)

// DefaultRenderers are used by a production if no renderers are configured.
var DefaultRenderers = Renderers{XMLNSRenderer, TextRenderer}

// PropertiesRenderer renders CSS properties. It is included in every
// render chain.
//
// Property keys are expected in camel case and are converted to CSS
// property names ("fontSize" → "font-size"). Keys starting with '$' or
// '@' are not rendered. A text value ending with "!important" is rendered
// as an important declaration.
var PropertiesRenderer = &Descriptor{
	Render: renderProperties,
}

func renderProperties(p *Producer, props value.Properties) error {
	var decls []cssom.Declaration
	for _, k := range props.Keys() {
		if strings.HasPrefix(k, "$") || strings.HasPrefix(k, "@") || props[k] == nil {
			continue
		}
		val, important := priority(props[k].String())
		decls = append(decls, cssom.Declaration{
			Property:  PropertyName(k),
			Value:     val,
			Important: important,
		})
	}
	if len(decls) > 0 {
		p.Apply(p.Target(), p.SelectorText(), cssom.Output{Declarations: decls})
	}
	return p.Render(props)
}

func priority(v string) (string, bool) {
	t := strings.TrimSpace(v)
	const imp = "!important"
	if len(t) >= len(imp) && strings.EqualFold(t[len(t)-len(imp):], imp) {
		return strings.TrimSpace(t[:len(t)-len(imp)]), true
	}
	return t, false
}

// PropertyName converts a camel case property key to a CSS property name,
// e.g. "backgroundColor" to "background-color" or "WebkitTransition" to
// "-webkit-transition". Keys already in kebab case are kept.
func PropertyName(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TextRenderer renders raw CSS text given by property TextKey. The text
// is rendered before other properties, which therefore override
// declarations of the text.
var TextRenderer = &Descriptor{
	Order:  -1,
	Render: renderText,
}

func renderText(p *Producer, props value.Properties) error {
	if v, ok := props[TextKey]; ok && v != nil {
		if text := strings.TrimSpace(v.String()); text != "" {
			p.Apply(p.Target(), p.SelectorText(), cssom.Output{Text: text})
		}
	}
	return p.Render(props)
}

// GlobalsRenderer renders global statements of the style sheet, i.e.
// `@import` and `@namespace` statements given by properties with keys
// prefixed by ImportPrefix and NamespacePrefix.
var GlobalsRenderer = &Descriptor{
	Order:  FirstRenderOrder,
	Render: renderGlobals,
}

func renderGlobals(p *Producer, props value.Properties) error {
	for _, k := range props.Keys() {
		v := props[k]
		switch {
		case strings.HasPrefix(k, ImportPrefix):
			url := strings.TrimPrefix(k, ImportPrefix)
			stmt := "@import " + value.URL(url).String()
			if v != nil {
				if media := strings.TrimSpace(v.String()); media != "" {
					stmt += " " + media
				}
			}
			p.Apply(p.StyleSheet(), stmt, cssom.Output{})
		case strings.HasPrefix(k, NamespacePrefix) && v != nil:
			alias := strings.TrimPrefix(k, NamespacePrefix)
			u, ok := v.(value.URL)
			if !ok {
				u = value.URL(v.String())
			}
			url := u.String()
			stmt := "@namespace " + url
			if alias != "" {
				stmt = "@namespace " + alias + " " + url
			}
			p.Apply(p.StyleSheet(), stmt, cssom.Output{})
		}
	}
	return p.Render(props)
}

// XMLNSRenderer declares the XML namespaces referenced by the selector of
// a rule. It adds a property NamespacePrefix + alias for every namespace,
// to be rendered by GlobalsRenderer.
var XMLNSRenderer = &Factory{
	Order:  FirstRenderOrder,
	Needs:  GlobalsRenderer,
	Create: newXMLNSRenderer,
}

func newXMLNSRenderer(rule stypro.Rule) Renderer {
	declared := make(map[*ns.Def]string) // alias per namespace
	return RenderFunc(func(p *Producer, props value.Properties) error {
		defs := p.Selector().Namespaces()
		if len(defs) == 0 {
			return p.Render(props)
		}
		sort.SliceStable(defs, func(i, j int) bool { return defs[i].URL < defs[j].URL })
		result := props.Clone()
		for _, d := range defs {
			alias, ok := declared[d]
			if !ok {
				alias = p.NSAlias(d)
				declared[d] = alias
			}
			result[NamespacePrefix+alias] = value.URL(d.URL)
		}
		return p.Render(result)
	})
}

// PointsRenderer converts absolute lengths (px, cm, in, …) to points before
// properties are rendered, e.g. for style sheets targeting print media.
// It is not part of DefaultRenderers.
var PointsRenderer = &Descriptor{
	Order:  -2,
	Render: renderPoints,
}

func renderPoints(p *Producer, props value.Properties) error {
	var converted value.Properties
	for k, v := range props {
		if strings.HasPrefix(k, "$") || strings.HasPrefix(k, "@") {
			continue
		}
		pt, ok := value.ToPoints(v)
		if !ok || pt.String() == v.String() {
			continue
		}
		if converted == nil {
			converted = props.Clone()
		}
		converted[k] = pt
	}
	if converted == nil {
		return p.Render(props)
	}
	return p.Render(converted)
}
