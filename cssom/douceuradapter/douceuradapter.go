/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet,
keeping rules in memory as a douceur style sheet.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stypro/cssom"
)

// tracer traces with key 'stypro.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("stypro.cssom")
}

// ErrNotGrouping is flagged when asking for the nested style sheet of an
// at-rule which cannot hold rules, e.g. "@page".
var ErrNotGrouping = errors.New("at-rule cannot hold nested rules")

// CSSStyles is an adapter for interface cssom.StyleSheet.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.StyleSheet.
type CSSStyles struct {
	css   *css.Stylesheet
	block *css.Rule // grouping at-rule for nested style sheets, nil for top level
}

// New creates an empty style sheet.
func New() *CSSStyles {
	return Wrap(css.NewStylesheet())
}

// Wrap a douceur.css.Stylesheet into CSSStyles.
// The stylesheet is now managed by the wrapper.
func Wrap(css *css.Stylesheet) *CSSStyles {
	sheet := &CSSStyles{css: css}
	return sheet
}

// Parse creates a style sheet from CSS text.
func Parse(text string) (*CSSStyles, error) {
	c, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cssom.ErrInvalidCSS, err)
	}
	return Wrap(c), nil
}

// Stylesheet returns the underlying douceur style sheet.
func (sheet *CSSStyles) Stylesheet() *css.Stylesheet {
	return sheet.css
}

// String renders the style sheet as CSS text.
func (sheet *CSSStyles) String() string {
	if sheet.block != nil {
		return sheet.block.String()
	}
	return sheet.css.String()
}

func (sheet *CSSStyles) rules() *[]*css.Rule {
	if sheet.block != nil {
		return &sheet.block.Rules
	}
	return &sheet.css.Rules
}

func (sheet *CSSStyles) embedLevel() int {
	if sheet.block != nil {
		return sheet.block.EmbedLevel + 1
	}
	return 0
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Empty() bool {
	return len(*sheet.rules()) == 0
}

// AppendRules appends rules from another stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) AppendRules(other cssom.StyleSheet) {
	rules := sheet.rules()
	if othercss, ok := other.(*CSSStyles); ok {
		*rules = append(*rules, *othercss.rules()...)
		return
	}
	for _, r := range other.Rules() { // convert every rule from other
		decls := make([]cssom.Declaration, 0, len(r.Properties()))
		for _, p := range r.Properties() {
			decls = append(decls, cssom.Declaration{Property: p, Value: r.Value(p), Important: r.IsImportant(p)})
		}
		if err := sheet.ApplyOutput(r.Selector(), cssom.Output{Declarations: decls}); err != nil {
			tracer().Errorf("cannot append rule %s: %v", r.Selector(), err)
		}
	}
}

// Rules returns all the rules of a stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Rules() []cssom.Rule {
	rules := *sheet.rules()
	rr := make([]cssom.Rule, len(rules))
	for i := range rules {
		rr[i] = Rule(*rules[i])
	}
	return rr
}

// ApplyOutput inserts or replaces the rule for a selector. Empty output for
// a qualified rule removes it, empty output for an at-rule creates a
// statement.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) ApplyOutput(selector string, out cssom.Output) error {
	selector = strings.TrimSpace(selector)
	decls, err := out.Declared()
	if err != nil {
		return err
	}
	rules := sheet.rules()
	i := sheet.find(selector)
	if !cssom.IsAtRule(selector) && len(decls) == 0 {
		if i >= 0 {
			*rules = append((*rules)[:i], (*rules)[i+1:]...)
		}
		return nil
	}
	var r *css.Rule
	if i >= 0 {
		r = (*rules)[i]
		if r.EmbedsRules() {
			return fmt.Errorf("cannot apply declarations to grouping rule %s", selector)
		}
	} else {
		r = sheet.newRule(selector)
		*rules = append(*rules, r)
	}
	r.Declarations = cssom.ToDouceur(decls)
	tracer().Debugf("applied %s { %s }", selector, out)
	return nil
}

// RemoveOutput removes the rule for a selector.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) RemoveOutput(selector string) error {
	if i := sheet.find(strings.TrimSpace(selector)); i >= 0 {
		rules := sheet.rules()
		*rules = append((*rules)[:i], (*rules)[i+1:]...)
		tracer().Debugf("removed %s", selector)
	}
	return nil
}

// Nested returns the style sheet of a grouping at-rule, e.g. "@media print".
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Nested(prelude string) (cssom.StyleSheet, error) {
	prelude = strings.TrimSpace(prelude)
	if !cssom.IsAtRule(prelude) {
		return nil, fmt.Errorf("%w: %q", ErrNotGrouping, prelude)
	}
	var block *css.Rule
	if i := sheet.find(prelude); i >= 0 {
		block = (*sheet.rules())[i]
	} else {
		block = sheet.newRule(prelude)
		if !block.EmbedsRules() {
			return nil, fmt.Errorf("%w: %q", ErrNotGrouping, prelude)
		}
		rules := sheet.rules()
		*rules = append(*rules, block)
	}
	if !block.EmbedsRules() {
		return nil, fmt.Errorf("%w: %q", ErrNotGrouping, prelude)
	}
	return &CSSStyles{css: sheet.css, block: block}, nil
}

func (sheet *CSSStyles) newRule(selector string) *css.Rule {
	var r *css.Rule
	if cssom.IsAtRule(selector) {
		r = css.NewRule(css.AtRule)
		r.Name, r.Prelude = cssom.SplitAtRule(selector)
	} else {
		r = css.NewRule(css.QualifiedRule)
		r.Prelude = selector
		r.Selectors = []string{selector}
	}
	r.EmbedLevel = sheet.embedLevel()
	return r
}

func (sheet *CSSStyles) find(selector string) int {
	for i, r := range *sheet.rules() {
		if Rule(*r).Selector() == selector {
			return i
		}
	}
	return -1
}

var _ cssom.StyleSheet = &CSSStyles{}

// Rule is an adapter for interface cssom.Rule.
type Rule css.Rule

// Selector returns the prelude / selectors of the rule. For at-rules it
// includes the name of the at-rule.
func (r Rule) Selector() string {
	if r.Kind == css.AtRule {
		if r.Prelude == "" {
			return r.Name
		}
		return r.Name + " " + r.Prelude
	}
	return r.Prelude
}

// Properties returns the property keys of a rule,
// e.g. "margin-top"
func (r Rule) Properties() []string {
	decl := r.Declarations
	props := make([]string, 0, len(decl))
	seen := make(map[string]bool, len(decl))
	for _, d := range decl {
		if !seen[d.Property] {
			seen[d.Property] = true
			props = append(props, d.Property)
		}
	}
	return props
}

// Value returns the effective property value for given key with this rule,
// e.g. "15px"
func (r Rule) Value(key string) string {
	d, _ := cssom.Winning(r.declarations(), key)
	return d.Value
}

// IsImportant returns true if a style key is marked as important ("!").
func (r Rule) IsImportant(key string) bool {
	d, _ := cssom.Winning(r.declarations(), key)
	return d.Important
}

func (r Rule) declarations() []cssom.Declaration {
	decls := make([]cssom.Declaration, len(r.Declarations))
	for i, d := range r.Declarations {
		decls[i] = cssom.Declaration{Property: d.Property, Value: d.Value, Important: d.Important}
	}
	return decls
}

var _ cssom.Rule = &Rule{}
