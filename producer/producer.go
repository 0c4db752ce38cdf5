package producer

import (
	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/cssom"
	"github.com/npillmayer/stypro/ns"
	"github.com/npillmayer/stypro/selector"
	"github.com/npillmayer/stypro/value"
)

// Producer is handed to every renderer of a render chain. It tells the
// renderer which rule to render, where to render to, and leads on to the
// next renderer.
//
// A producer is valid during a single render pass only.
type Producer struct {
	rule     stypro.Rule
	selector selector.Selector
	target   cssom.StyleSheet
	chain    []RenderFunc
	next     int
	prod     *production
	pass     *pass
}

// Rule returns the rule to render.
func (p *Producer) Rule() stypro.Rule {
	return p.rule
}

// Selector returns the selector to render the rule for. It is the selector
// of the rule, unless overridden by a previous renderer.
func (p *Producer) Selector() selector.Selector {
	return p.selector
}

// SelectorText returns the text of Selector, with namespace aliases
// registered. The root rule is rendered with the root selector of the
// production.
func (p *Producer) SelectorText() string {
	if p.selector.IsRoot() {
		return p.prod.opts.RootSelector
	}
	return selector.Text(p.selector, &selector.Format{NSAlias: p.NSAlias})
}

// Target returns the style sheet to render to. It is the target of the
// production, unless overridden by a previous renderer.
func (p *Producer) Target() cssom.StyleSheet {
	return p.target
}

// StyleSheet returns the top-level style sheet of the production.
func (p *Producer) StyleSheet() cssom.StyleSheet {
	return p.prod.opts.Target
}

// NSAlias returns the alias of an XML namespace, registering it if
// necessary. Aliases are shared between all rules of a production.
func (p *Producer) NSAlias(d *ns.Def) string {
	return p.prod.opts.Aliaser.Alias(d)
}

// RenderOption overrides a setting for the rest of a render chain.
type RenderOption func(*Producer)

// WithSelector overrides the selector for the rest of the render chain.
func WithSelector(sel selector.Selector) RenderOption {
	return func(p *Producer) {
		p.selector = sel
	}
}

// WithTarget overrides the target style sheet for the rest of the render
// chain.
func WithTarget(target cssom.StyleSheet) RenderOption {
	return func(p *Producer) {
		if target != nil {
			p.target = target
		}
	}
}

// Render hands properties to the next renderer of the chain. At the end
// of the chain Render does nothing.
func (p *Producer) Render(props value.Properties, opts ...RenderOption) error {
	if p.next >= len(p.chain) {
		return nil
	}
	np := *p
	np.next = p.next + 1
	for _, opt := range opts {
		opt(&np)
	}
	return p.chain[p.next](&np, props)
}

// Apply writes output for a selector to a target style sheet. Output is
// buffered during a render pass: it reaches the target only after the
// whole chain has completed without error. Output applied more than once
// for the same target and selector is merged.
func (p *Producer) Apply(target cssom.StyleSheet, selectorText string, out cssom.Output) {
	if target == nil {
		target = p.target
	}
	p.pass.apply(outputKey{target: target, selector: selectorText}, out)
}

// --- Render passes ---------------------------------------------------------

type outputKey struct {
	target   cssom.StyleSheet
	selector string
}

type pendingOutput struct {
	key outputKey
	out cssom.Output
}

// pass collects the output of a single render pass.
type pass struct {
	outputs []pendingOutput
}

func (ps *pass) apply(key outputKey, out cssom.Output) {
	for i := range ps.outputs {
		if ps.outputs[i].key == key {
			ps.outputs[i].out = ps.outputs[i].out.Merge(out)
			return
		}
	}
	ps.outputs = append(ps.outputs, pendingOutput{key: key, out: out})
}
