/*
Package htmladapter implements interface cssom.StyleSheet on top of an HTML
document. Every rule is written to a <style> element of its own in the
document's <head>, which makes updating and removing single rules cheap.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package htmladapter

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stypro/cssom"
	"github.com/npillmayer/stypro/cssom/douceuradapter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'stypro.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("stypro.cssom")
}

// KeyAttr is the attribute marking <style> elements owned by a Document.
const KeyAttr = "data-stypro"

const emptyDocument = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is an adapter for interface cssom.StyleSheet, writing rules to
// an HTML document.
type Document struct {
	root *html.Node
	head *html.Node
	wrap []string // enclosing grouping at-rules
}

// New creates a style sheet for a new, empty HTML document.
func New() *Document {
	root, err := html.Parse(strings.NewReader(emptyDocument))
	if err != nil {
		panic(err) // cannot happen for a constant document
	}
	d, _ := Wrap(root)
	return d
}

// Wrap creates a style sheet for an existing HTML document. A missing
// <head> element is created.
func Wrap(root *html.Node) (*Document, error) {
	if root == nil {
		return nil, fmt.Errorf("cannot wrap nil HTML document")
	}
	head := findElement(atom.Head, root)
	if head == nil {
		h := findElement(atom.Html, root)
		if h == nil {
			return nil, fmt.Errorf("HTML document without <html> element")
		}
		head = &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
		h.InsertBefore(head, h.FirstChild)
	}
	return &Document{root: root, head: head}, nil
}

// Node returns the HTML document.
func (d *Document) Node() *html.Node {
	return d.root
}

// Render writes the HTML document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) key(selector string) string {
	return strings.Join(append(append([]string{}, d.wrap...), strings.TrimSpace(selector)), " / ")
}

func (d *Document) owns(n *html.Node) (string, bool) {
	if n.Type != html.ElementNode || n.DataAtom != atom.Style {
		return "", false
	}
	prefix := ""
	if len(d.wrap) > 0 {
		prefix = strings.Join(d.wrap, " / ") + " / "
	}
	for _, a := range n.Attr {
		if a.Key == KeyAttr && strings.HasPrefix(a.Val, prefix) {
			// nested documents must not claim rules of deeper nesting
			if !strings.Contains(a.Val[len(prefix):], " / ") {
				return a.Val, true
			}
		}
	}
	return "", false
}

func (d *Document) styleElements() []*html.Node {
	var elems []*html.Node
	for ch := d.head.FirstChild; ch != nil; ch = ch.NextSibling {
		if _, ok := d.owns(ch); ok {
			elems = append(elems, ch)
		}
	}
	return elems
}

func (d *Document) find(key string) *html.Node {
	for _, n := range d.styleElements() {
		if k, _ := d.owns(n); k == key {
			return n
		}
	}
	return nil
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (d *Document) Empty() bool {
	return len(d.styleElements()) == 0
}

// AppendRules appends rules from another stylesheet.
//
// Interface cssom.StyleSheet
func (d *Document) AppendRules(other cssom.StyleSheet) {
	for _, r := range other.Rules() {
		decls := make([]cssom.Declaration, 0, len(r.Properties()))
		for _, p := range r.Properties() {
			decls = append(decls, cssom.Declaration{Property: p, Value: r.Value(p), Important: r.IsImportant(p)})
		}
		if err := d.ApplyOutput(r.Selector(), cssom.Output{Declarations: decls}); err != nil {
			tracer().Errorf("cannot append rule %s: %v", r.Selector(), err)
		}
	}
}

// Rules returns all the rules of a stylesheet, parsed from the text of the
// <style> elements.
//
// Interface cssom.StyleSheet
func (d *Document) Rules() []cssom.Rule {
	var rules []cssom.Rule
	for _, n := range d.styleElements() {
		sheet, err := douceuradapter.Parse(text(n))
		if err != nil {
			tracer().Errorf("cannot parse style element: %v", err)
			continue
		}
		var s cssom.StyleSheet = sheet
		for _, prelude := range d.wrap {
			if s, err = s.Nested(prelude); err != nil {
				break
			}
		}
		if err == nil {
			rules = append(rules, s.Rules()...)
		}
	}
	return rules
}

// ApplyOutput writes a <style> element for a selector.
//
// Interface cssom.StyleSheet
func (d *Document) ApplyOutput(selector string, out cssom.Output) error {
	decls, err := out.Declared()
	if err != nil {
		return err
	}
	key := d.key(selector)
	if !cssom.IsAtRule(selector) && len(decls) == 0 {
		return d.RemoveOutput(selector)
	}
	r := css.NewRule(css.QualifiedRule)
	if cssom.IsAtRule(selector) {
		r.Kind = css.AtRule
		r.Name, r.Prelude = cssom.SplitAtRule(selector)
	} else {
		r.Prelude = strings.TrimSpace(selector)
		r.Selectors = []string{r.Prelude}
	}
	r.Declarations = cssom.ToDouceur(decls)
	r.EmbedLevel = len(d.wrap)
	for i := len(d.wrap) - 1; i >= 0; i-- {
		block := css.NewRule(css.AtRule)
		block.Name, block.Prelude = cssom.SplitAtRule(d.wrap[i])
		block.EmbedLevel = i
		block.Rules = []*css.Rule{r}
		r = block
	}
	n := d.find(key)
	if n == nil {
		n = &html.Node{
			Type:     html.ElementNode,
			Data:     "style",
			DataAtom: atom.Style,
			Attr:     []html.Attribute{{Key: KeyAttr, Val: key}},
		}
		d.head.AppendChild(n)
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: r.String()})
	tracer().Debugf("applied <style> for %s", key)
	return nil
}

// RemoveOutput removes the <style> element for a selector.
//
// Interface cssom.StyleSheet
func (d *Document) RemoveOutput(selector string) error {
	if n := d.find(d.key(selector)); n != nil {
		d.head.RemoveChild(n)
		tracer().Debugf("removed <style> for %s", d.key(selector))
	}
	return nil
}

// Nested returns a style sheet for rules within a grouping at-rule,
// e.g. "@media print".
//
// Interface cssom.StyleSheet
func (d *Document) Nested(prelude string) (cssom.StyleSheet, error) {
	name, p := cssom.SplitAtRule(prelude)
	block := css.Rule{Kind: css.AtRule, Name: name}
	if !cssom.IsAtRule(prelude) || !block.EmbedsRules() {
		return nil, fmt.Errorf("%w: %q", douceuradapter.ErrNotGrouping, prelude)
	}
	if p != "" {
		name += " " + p
	}
	wrap := make([]string, len(d.wrap), len(d.wrap)+1)
	copy(wrap, d.wrap)
	return &Document{root: d.root, head: d.head, wrap: append(wrap, name)}, nil
}

var _ cssom.StyleSheet = &Document{}

// --- Extracting styles -----------------------------------------------------

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the content of
// style-elements as style sheets.
func ExtractStyleElements(htmldoc *html.Node) []*douceuradapter.CSSStyles {
	head := findElement(atom.Head, htmldoc)
	body := findElement(atom.Body, htmldoc)
	css := extractStyles(head)
	css = append(css, extractStyles(body)...)
	return css
}

func extractStyles(h *html.Node) []*douceuradapter.CSSStyles {
	var css []*douceuradapter.CSSStyles
	if h == nil {
		return css
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.DataAtom == atom.Style {
			c, err := douceuradapter.Parse(text(ch))
			if err != nil {
				tracer().Errorf("cannot parse style element: %v", err)
				continue
			}
			css = append(css, c)
		}
	}
	return css
}

func text(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			b.WriteString(ch.Data)
		}
	}
	return b.String()
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	ch := h.FirstChild
	for ch != nil {
		r := findElement(a, ch)
		if r != nil && r.DataAtom == a {
			return r
		}
		ch = ch.NextSibling
	}
	return nil
}
