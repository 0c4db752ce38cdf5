package rules

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/npillmayer/stypro/ns"
	"github.com/npillmayer/stypro/selector"
	"github.com/npillmayer/stypro/value"
	yaml "gopkg.in/yaml.v3"
)

// ErrInvalidDocument is flagged when a YAML rule document has a structure
// other than expected.
var ErrInvalidDocument = errors.New("invalid rule document")

/*
Rule documents are YAML documents of the form

	properties:
	  fontFamily: serif
	rules:
	  - selector: ".menu"             # raw selector text
	    properties:
	      display: block
	      margin: { kind: Length, val: 1, unit: em }
	    rules:
	      - selector:                 # structured selector
	          - combinator: ">"
	            e: li
	            c: [ item ]
	        properties:
	          background: { url: "img/bullet.png" }
	  - selector:
	      - { ns: svg, e: circle }    # well-known namespace
	      - { ns: my, nsurl: "urn:my", e: shape }

Strings are loaded as text values and numbers as number values, without
further interpretation. Dimensions and URLs have to be given as mappings.
*/

type yamlRule struct {
	Selector   yamlSelector         `yaml:"selector,omitempty"`
	Properties map[string]yamlValue `yaml:"properties,omitempty"`
	Rules      []yamlRule           `yaml:"rules,omitempty"`
}

type yamlPart struct {
	Combinator string   `yaml:"combinator,omitempty"`
	Raw        string   `yaml:"raw,omitempty"`
	NS         string   `yaml:"ns,omitempty"`
	NSURL      string   `yaml:"nsurl,omitempty"`
	E          string   `yaml:"e,omitempty"`
	I          string   `yaml:"i,omitempty"`
	C          []string `yaml:"c,omitempty"`
	S          string   `yaml:"s,omitempty"`
	Q          []string `yaml:"q,omitempty"`
}

type yamlDimension struct {
	Kind string  `yaml:"kind,omitempty"`
	Val  float64 `yaml:"val,omitempty"`
	Unit string  `yaml:"unit,omitempty"`
	URL  string  `yaml:"url,omitempty"`
}

// LoadYAML reads a rule document and builds a new rule tree from it.
func LoadYAML(r io.Reader) (*Rule, error) {
	var doc yamlRule
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to decode rule document: %w", err)
	}
	if len(doc.Selector) > 0 {
		return nil, fmt.Errorf("%w: root rule must not have a selector", ErrInvalidDocument)
	}
	root := New()
	if err := root.build(doc); err != nil {
		return nil, err
	}
	tracer().Debugf("loaded rule tree with %d rules", root.Rules().Len())
	return root, nil
}

func (r *Rule) build(doc yamlRule) error {
	props := make(value.Properties, len(doc.Properties))
	for k, v := range doc.Properties {
		props[k] = v.v
	}
	if len(props) > 0 {
		if err := r.Set(props); err != nil {
			return err
		}
	}
	for _, ch := range doc.Rules {
		nested := r.Add(selector.Selector(ch.Selector), nil)
		if err := nested.build(ch); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML writes r and its nested rules as a rule document, which may be
// read by LoadYAML.
func WriteYAML(w io.Writer, r *Rule) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(r)); err != nil {
		return fmt.Errorf("failed to encode rule document: %w", err)
	}
	return enc.Close()
}

func toYAML(r *Rule) yamlRule {
	doc := yamlRule{Selector: yamlSelector(r.sel)}
	if len(r.props) > 0 {
		doc.Properties = make(map[string]yamlValue, len(r.props))
		for k, v := range r.props {
			doc.Properties[k] = yamlValue{v: v}
		}
	}
	for _, ch := range r.children {
		doc.Rules = append(doc.Rules, toYAML(ch))
	}
	return doc
}

// --- Selectors -------------------------------------------------------------

type yamlSelector selector.Selector

func (s *yamlSelector) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = yamlSelector(selector.Raw(node.Value))
		return nil
	case yaml.SequenceNode:
		var parts []yamlPart
		if err := node.Decode(&parts); err != nil {
			return err
		}
		sel := make(selector.Selector, 0, len(parts))
		for _, p := range parts {
			c := selector.Combinator(p.Combinator)
			switch c {
			case selector.Descendant, selector.Child, selector.Adjacent, selector.Sibling:
			default:
				return fmt.Errorf("%w: line %d: unknown combinator %q", ErrInvalidDocument, node.Line, p.Combinator)
			}
			part := selector.Part{
				Combinator: c,
				Raw:        p.Raw,
				E:          p.E,
				I:          p.I,
				C:          p.C,
				S:          p.S,
				Q:          p.Q,
			}
			part.NS, part.NSDef = namespaceOf(p)
			sel = append(sel, part)
		}
		*s = yamlSelector(sel)
		return nil
	}
	return fmt.Errorf("%w: line %d: selector must be a string or a list of parts", ErrInvalidDocument, node.Line)
}

// namespaceOf resolves the namespace of a selector part. A namespace URL
// defines a namespace with the given alias. An alias without a URL denotes
// a well-known namespace ("html", "svg", "math"), if there is one; other
// aliases are taken as they are and have to be declared elsewhere.
func namespaceOf(p yamlPart) (string, *ns.Def) {
	if p.NSURL != "" {
		return "", ns.New(p.NSURL, p.NS)
	}
	if d, ok := ns.Known(p.NS); ok {
		return "", d
	}
	return p.NS, nil
}

func (s yamlSelector) MarshalYAML() (interface{}, error) {
	if len(s) == 1 && s[0].Raw != "" {
		return s[0].Raw, nil
	}
	parts := make([]yamlPart, 0, len(s))
	for _, p := range s {
		alias, url := p.NS, ""
		if p.NSDef != nil {
			alias, url = p.NSDef.Alias, p.NSDef.URL
		}
		parts = append(parts, yamlPart{
			Combinator: string(p.Combinator),
			Raw:        p.Raw,
			NS:         alias,
			NSURL:      url,
			E:          p.E,
			I:          p.I,
			C:          p.C,
			S:          p.S,
			Q:          p.Q,
		})
	}
	return parts, nil
}

// --- Values ----------------------------------------------------------------

type yamlValue struct {
	v value.Value
}

func (v *yamlValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			var x float64
			if err := node.Decode(&x); err != nil {
				return err
			}
			v.v = value.Number(x)
		default:
			v.v = value.Text(node.Value)
		}
		return nil
	case yaml.MappingNode:
		var d yamlDimension
		if err := node.Decode(&d); err != nil {
			return err
		}
		if d.URL != "" {
			v.v = value.URL(d.URL)
			return nil
		}
		k, ok := value.KindByName(d.Kind)
		if !ok {
			return fmt.Errorf("%w: line %d: unknown dimension kind %q", ErrInvalidDocument, node.Line, d.Kind)
		}
		dim, err := k.New(d.Val, d.Unit)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidDocument, node.Line, err)
		}
		v.v = dim
		return nil
	}
	return fmt.Errorf("%w: line %d: property value must be a scalar or a mapping", ErrInvalidDocument, node.Line)
}

func (v yamlValue) MarshalYAML() (interface{}, error) {
	switch x := v.v.(type) {
	case value.Text:
		return string(x), nil
	case value.Number:
		if f := float64(x); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return float64(x), nil
	case value.URL:
		return yamlDimension{URL: string(x)}, nil
	case value.Dimension:
		return yamlDimension{Kind: x.Kind.String(), Val: x.Val, Unit: x.Unit}, nil
	}
	if v.v != nil && v.v.Type() == value.ZeroType {
		if k := value.ZeroKind(v.v); k != nil {
			return yamlDimension{Kind: k.String(), Unit: k.Units()[0]}, nil
		}
		return 0, nil
	}
	return nil, fmt.Errorf("cannot encode property value %v", v.v)
}
