/*
Package rules implements an in-memory tree of reactive style rules.

Every rule has a selector relative to its parent rule and a property bag.
Rules notify subscribers whenever their properties change, and the tree
notifies about rules added to or removed from it. *Rule implements
stypro.Rule, and *List implements stypro.RuleSet.

	root := rules.New()
	list := root.Add(selector.Raw("ul"), value.Properties{"display": value.Text("block")})
	item := list.Add(selector.Of(selector.Part{Combinator: selector.Child, E: "li"}), nil)
	item.Put("margin", value.Length.Of(1, "em"))

Rule trees may be loaded from YAML documents, see LoadYAML.

Rule trees are not safe for concurrent use. Clients have to serialize
access, which usually is the case as notifications are processed
synchronously.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package rules

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stypro.rules'.
func tracer() tracing.Trace {
	return tracing.Select("stypro.rules")
}
