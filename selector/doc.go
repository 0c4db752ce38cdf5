/*
Package selector implements structured CSS selectors and their textual form.

A selector is a sequence of parts. A part either is raw selector text or
describes a compound selector: element name with optional namespace, id,
classes, a pseudo suffix, and qualifiers. Qualifiers are not part of CSS;
they distinguish rules with otherwise equal selectors (e.g. rules for
different media) and are rendered only on request.

	sel := selector.Of(
		selector.Part{E: "ul"},
		selector.Part{Combinator: selector.Child, E: "li", C: []string{"item"}},
	)
	fmt.Println(selector.Text(sel, nil)) // ul>li.item
*/
package selector
