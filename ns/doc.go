/*
Package ns holds XML namespace definitions and assigns aliases to them.

Selectors may reference elements in XML namespaces other than the document's
default one (e.g. SVG elements embedded in XHTML). CSS refers to such a
namespace through an alias declared by an `@namespace` statement. An Aliaser
hands out one unique alias per namespace URL.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package ns

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stypro.ns'.
func tracer() tracing.Trace {
	return tracing.Select("stypro.ns")
}
