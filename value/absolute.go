package value

import (
	"math"

	"github.com/npillmayer/tyse/core/dimen"
)

// points per unit for absolute length units
var absoluteLengths = map[string]float64{
	"pt": 1,
	"pc": 12,
	"in": 72,
	"px": 0.75, // CSS reference pixel, 1/96 in
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
	"q":  72 / 101.6,
}

// Absolute converts an absolute length to design units. Relative lengths
// (em, vw, …), percentages and non-lengths are not converted and return
// false. A zero converts to 0.
//
// A CSS point is 1/72 inch, i.e. a big point (dimen.BP).
func Absolute(v Value) (dimen.DU, bool) {
	var d Dimension
	switch m := MatchValue(v); m {
	case m.Zero():
		return 0, true
	case m.Dimension(Length, &d):
		pts, ok := absoluteLengths[d.Unit]
		if !ok {
			return 0, false
		}
		return dimen.DU(math.Round(d.Val * pts * float64(dimen.BP))), true
	}
	return 0, false
}

// ToPoints converts an absolute length to points, rounded to 1/1000 pt.
// The result keeps the kind of v. Other values are returned unchanged,
// together with false.
func ToPoints(v Value) (Value, bool) {
	d, ok := v.(Dimension)
	if !ok {
		return v, false
	}
	du, ok := Absolute(d)
	if !ok {
		return v, false
	}
	pt := math.Round(du.Points()*1000) / 1000
	return d.Kind.Of(pt, "pt"), true
}

// Points is a mapping rule converting absolute lengths to points. Other
// values are kept, absent values are omitted.
var Points Mapping = MapperFunc(func(from Value, _ *Mapped, _ string) (Value, bool) {
	if from == nil {
		return nil, false
	}
	v, _ := ToPoints(from)
	return v, true
})
