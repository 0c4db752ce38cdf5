package cssom

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from the
// production of styles, we introduce an interface for CSS stylesheets.
// Clients of a style producer will have to provide a concrete
// implementation of this interface (e.g., see package douceuradapter).
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
	// ApplyOutput inserts a rule for a selector or replaces an existing one.
	ApplyOutput(selector string, out Output) error
	// RemoveOutput removes the rule for a selector. Removing a rule not
	// present is not an error.
	RemoveOutput(selector string) error
	// Nested returns the style sheet of a grouping at-rule,
	// e.g. "@media print", creating the at-rule if necessary.
	Nested(prelude string) (StyleSheet, error)
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string        // the prelude / selectors of the rule
	Properties() []string    // property keys, e.g. "margin-top"
	Value(string) string     // property value for key, e.g. "15px"
	IsImportant(string) bool // is property key marked as important?
}
