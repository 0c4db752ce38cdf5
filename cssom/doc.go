/*
Package cssom abstracts the style sheets a style producer writes to.

CSSOM is the "CSS Object Model", similar to the DOM for HTML. A style
producer does not care about the concrete representation of a style sheet.
It hands over the output for a rule, i.e. a selector together with raw CSS
text and a list of declarations, and later on may retract it again. CSS
handling is de-coupled by introducing the interfaces StyleSheet and Rule.
Concrete implementations may be found in sub-packages: package
douceuradapter keeps an in-memory style sheet, package htmladapter writes
<style> elements into an HTML document.

Selectors starting with '@' denote at-rules. An at-rule with empty output
is a statement, e.g.

	@namespace svg url("http://www.w3.org/2000/svg");

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stypro.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("stypro.cssom")
}
