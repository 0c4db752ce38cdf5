/*
Package value implements typed CSS property values and a generic property mapper.

# Values

A CSS property value is either an opaque scalar (Text, Number), a structured
value (Dimension, URL) or the unit-independent zero. Dimensions belong to a
dimension kind (Length, Time, Angle, Frequency, Resolution). Most kinds have a
percent-capable sibling kind (e.g. LengthPt), which accepts percentages in
addition to the units of its family.

Zero needs no unit in CSS. Every kind therefore shares a single zero: a length
zero and a time zero are equal, and a zero is compatible with every kind.

# Classification

Classify tells how a value relates to an expected kind:

	switch value.Classify(v, value.LengthPt) {
	case value.SameKind:     // e.g. 12px
	case value.PercentMatch: // e.g. 50%
	case value.ZeroMatch:    // 0
	default:                 // incompatible
	}

No unit arithmetic is done by this package. Compatible values keep their
numeric value and unit unchanged.

# Mapping

Map converts a property bag against a declarative set of per-key rules
(see type Mappings). A rule may read the results of other keys of the same
mapping pass; keys are evaluated lazily and at most once per call.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package value

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stypro.value'.
func tracer() tracing.Trace {
	return tracing.Select("stypro.value")
}
