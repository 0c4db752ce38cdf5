/*
Package producer produces CSS style sheets from reactive style rules.

# Rendering

Properties of a style rule are rendered by a chain of renderers. Every
renderer receives a Producer for the rule together with the properties to
render. It may inspect, transform or suppress the properties, write output
to a style sheet, and hand the (possibly changed) properties to the next
renderer by calling Producer.Render. A renderer not calling Render ends the
chain for this pass.

Renderers come in three shapes: a plain RenderFunc, a *Descriptor carrying
a render order and renderers it needs, and a *Factory creating a renderer
per rule. Resolve turns a (possibly nested) set of renderers into a sorted
list of stages, adding all renderers needed and the default
PropertiesRenderer.

# Production

Produce subscribes to every rule of a rule set. Whenever the properties of
a rule change, a render pass is scheduled. Further changes before the pass
runs are coalesced into it; the pass renders the latest properties. Output
written during a pass is committed to the style sheet only if every
renderer succeeds. Removing a rule from the rule set, or withdrawing
interest in the production, removes the rule's output from the style sheet.

	root := rules.New()
	root.Add(selector.Raw(".custom"), value.Properties{"display": value.Text("block")})
	sheet := douceuradapter.New()
	interest := producer.Produce(root.Rules(), producer.Options{Target: sheet})
	defer interest.Off()

Production is single-threaded. Notifications from rules, scheduled
operations and calls to an Interest must not happen concurrently.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package producer

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stypro.producer'.
func tracer() tracing.Trace {
	return tracing.Select("stypro.producer")
}
