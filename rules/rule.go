package rules

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/selector"
	"github.com/npillmayer/stypro/value"
)

// ErrRemoved is flagged when modifying a rule which has been removed from
// its tree.
var ErrRemoved = errors.New("rule has been removed")

// Rule is the base type our rule tree is built of.
type Rule struct {
	id       uuid.UUID
	parent   *Rule
	children []*Rule
	tree     *tree
	sel      selector.Selector // relative to parent
	full     selector.Selector // including ancestors
	props    value.Properties
	updates  observers[value.Properties]
	removed  bool
}

// tree holds the structural observers shared by all rules of a tree.
type tree struct {
	added   observers[*Rule]
	removed observers[*Rule]
}

// New creates the root rule of a new rule tree. The root rule has an empty
// selector and no properties.
func New() *Rule {
	return &Rule{
		id:    uuid.New(),
		tree:  &tree{},
		sel:   selector.Selector{},
		full:  selector.Selector{},
		props: value.Properties{},
	}
}

func (r *Rule) String() string {
	sel := selector.KeyText(r.full)
	if sel == "" {
		sel = "<root>"
	}
	return fmt.Sprintf("(Rule %s #ch=%d %v)", sel, len(r.children), r.props)
}

// ID returns the unique identity of the rule.
func (r *Rule) ID() uuid.UUID {
	return r.id
}

// Selector returns the full selector of the rule. It is part of interface
// stypro.Rule.
func (r *Rule) Selector() selector.Selector {
	return r.full
}

// RelativeSelector returns the selector of the rule relative to its parent.
func (r *Rule) RelativeSelector() selector.Selector {
	return r.sel
}

// Properties returns the current property bag of the rule. It is part of
// interface stypro.Rule.
func (r *Rule) Properties() value.Properties {
	return r.props
}

// OnUpdate calls fn with the current properties of r and with every
// subsequent change to them. It is part of interface stypro.Rule.
//
// Subscribing to a removed rule does nothing.
func (r *Rule) OnUpdate(fn func(value.Properties)) stypro.Unsubscribe {
	if r.removed {
		return func() {}
	}
	unsubscribe := r.updates.add(fn)
	fn(r.props)
	return unsubscribe
}

// Parent returns the parent rule or nil (for the root of the tree).
func (r *Rule) Parent() *Rule {
	return r.parent
}

// Root returns the root rule of the tree r belongs to.
func (r *Rule) Root() *Rule {
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns a slice with the nested rules of r.
func (r *Rule) Children() []*Rule {
	children := make([]*Rule, len(r.children))
	copy(children, r.children)
	return children
}

// IsRemoved is true if r has been removed from its tree.
func (r *Rule) IsRemoved() bool {
	return r.removed
}

// Add creates a nested rule with a selector relative to r, or updates the
// properties of an existing nested rule with an equal selector. Listeners of
// the tree are notified about a new rule.
func (r *Rule) Add(sel selector.Selector, props value.Properties) *Rule {
	if ch, ok := r.Rule(sel); ok {
		if props != nil {
			ch.Set(props)
		}
		return ch
	}
	ch := &Rule{
		id:     uuid.New(),
		parent: r,
		tree:   r.tree,
		sel:    sel,
		full:   r.full.Append(sel...),
		props:  props.Clone(),
	}
	r.children = append(r.children, ch)
	tracer().Debugf("rule %s added", selector.KeyText(ch.full))
	if !r.removed {
		r.tree.added.notify(ch)
	}
	return ch
}

// Rule finds a nested rule by its relative selector.
func (r *Rule) Rule(sel selector.Selector) (*Rule, bool) {
	for _, ch := range r.children {
		if ch.sel.Equal(sel) {
			return ch, true
		}
	}
	return nil, false
}

// Set replaces the properties of r and notifies subscribers. Setting
// properties equal to the current ones, and rendering to the same CSS text,
// does not notify anybody.
func (r *Rule) Set(props value.Properties) error {
	if r.removed {
		return ErrRemoved
	}
	if unchanged(r.props, props) {
		return nil
	}
	r.props = props.Clone()
	r.updates.notify(r.props)
	return nil
}

// unchanged is true if both bags hold equal values with equal CSS text.
// Zeros of different kinds are equal values but may render differently
// ("0" vs "0s").
func unchanged(a, b value.Properties) bool {
	if !a.Equal(b) {
		return false
	}
	for k, v := range a {
		w := b[k]
		if v == nil || w == nil {
			if v != w {
				return false
			}
			continue
		}
		if v.String() != w.String() {
			return false
		}
	}
	return true
}

// Put sets a single property of r and notifies subscribers. A nil value
// deletes the property.
func (r *Rule) Put(key string, v value.Value) error {
	props := r.props.Clone()
	if v == nil {
		delete(props, key)
	} else {
		props[key] = v
	}
	return r.Set(props)
}

// Remove removes r and all of its nested rules from the tree. Listeners of
// the tree are notified about every removed rule, nested rules first.
// Subscriptions to removed rules are dropped. Removing the root rule only
// removes its nested rules.
func (r *Rule) Remove() {
	if r.removed {
		return
	}
	if r.parent == nil {
		for _, ch := range r.Children() {
			ch.Remove()
		}
		return
	}
	siblings := r.parent.children
	for i, ch := range siblings {
		if ch == r {
			r.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	r.dispose()
}

func (r *Rule) dispose() {
	for _, ch := range r.children {
		ch.dispose()
	}
	r.removed = true
	r.updates.clear()
	tracer().Debugf("rule %s removed", selector.KeyText(r.full))
	r.tree.removed.notify(r)
}

// Walk calls fn for r and all its nested rules, depth first, parents
// before children.
func (r *Rule) Walk(fn func(*Rule)) {
	fn(r)
	for _, ch := range r.Children() {
		ch.Walk(fn)
	}
}

// isWithin is true if r is base or nested within base.
func (r *Rule) isWithin(base *Rule) bool {
	for ; r != nil; r = r.parent {
		if r == base {
			return true
		}
	}
	return false
}

var _ stypro.Rule = &Rule{}
