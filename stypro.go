package stypro

import (
	"github.com/npillmayer/stypro/selector"
	"github.com/npillmayer/stypro/value"
)

// Unsubscribe withdraws interest in notifications. Calling it more than
// once is harmless.
type Unsubscribe func()

// Rule is a style rule as seen by a style producer.
type Rule interface {
	// Selector is the full selector of the rule, including the selectors of
	// its ancestors. The root rule has an empty selector.
	Selector() selector.Selector
	// Properties is the current property bag of the rule. Clients must not
	// modify it.
	Properties() value.Properties
	// OnUpdate calls fn with the current property bag, and again on every
	// subsequent change, until unsubscribed.
	OnUpdate(fn func(value.Properties)) Unsubscribe
}

// RuleSet is a set of style rules which may change over time.
type RuleSet interface {
	// Each calls fn for every rule currently in the set.
	Each(fn func(Rule))
	// OnChange calls added for every rule added to the set and removed for
	// every rule removed from it, until unsubscribed. Either callback may be
	// nil.
	OnChange(added, removed func(Rule)) Unsubscribe
}

// Single is a rule set consisting of a single rule, never changing.
type Single struct {
	Rule Rule
}

// Each is part of interface RuleSet.
func (s Single) Each(fn func(Rule)) {
	if s.Rule != nil {
		fn(s.Rule)
	}
}

// OnChange is part of interface RuleSet. A single rule never changes.
func (s Single) OnChange(_, _ func(Rule)) Unsubscribe {
	return func() {}
}
