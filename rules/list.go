package rules

import "github.com/npillmayer/stypro"

// List is the set of a rule and all of its nested rules. It follows changes
// to the tree: rules nested later are part of the list, removed rules are
// not. List implements stypro.RuleSet.
type List struct {
	base *Rule
}

// Rules returns the list of r and its nested rules.
func (r *Rule) Rules() *List {
	return &List{base: r}
}

// Each calls fn for every rule in the list, parents before children.
// It is part of interface stypro.RuleSet.
func (l *List) Each(fn func(stypro.Rule)) {
	if l.base.removed {
		return
	}
	l.base.Walk(func(r *Rule) { fn(r) })
}

// All returns the rules of the list, parents before children.
func (l *List) All() []*Rule {
	var all []*Rule
	if !l.base.removed {
		l.base.Walk(func(r *Rule) { all = append(all, r) })
	}
	return all
}

// Len returns the number of rules in the list.
func (l *List) Len() int {
	n := 0
	if !l.base.removed {
		l.base.Walk(func(*Rule) { n++ })
	}
	return n
}

// OnChange subscribes to rules being added to or removed from the list.
// It is part of interface stypro.RuleSet.
func (l *List) OnChange(added, removed func(stypro.Rule)) stypro.Unsubscribe {
	var unsubAdded, unsubRemoved stypro.Unsubscribe = func() {}, func() {}
	if added != nil {
		unsubAdded = l.base.tree.added.add(func(r *Rule) {
			if r.isWithin(l.base) {
				added(r)
			}
		})
	}
	if removed != nil {
		unsubRemoved = l.base.tree.removed.add(func(r *Rule) {
			if r.isWithin(l.base) {
				removed(r)
			}
		})
	}
	return func() {
		unsubAdded()
		unsubRemoved()
	}
}

var _ stypro.RuleSet = &List{}
