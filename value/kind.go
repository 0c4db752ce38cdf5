package value

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownUnit is flagged when a dimension is created with a unit its
// kind does not know.
var ErrUnknownUnit = errors.New("unit not known for dimension kind")

// Kind is a dimension kind (e.g. Length) or its percent-capable sibling
// (e.g. LengthPt). Kinds are compared by pointer identity; clients should
// use the predefined kinds of this package.
type Kind struct {
	name     string
	family   string
	units    map[string]bool // non-percent units of the family
	percent  bool            // accepts '%'
	zeroUnit string          // unit to render a zero with, may be empty
}

// Predefined dimension kinds.
var (
	Length      = newKind("Length", "length", false, "", "px", "em", "rem", "ex", "ch", "vw", "vh", "vmin", "vmax", "cm", "mm", "q", "in", "pt", "pc")
	LengthPt    = newKind("LengthPt", "length", true, "", "px", "em", "rem", "ex", "ch", "vw", "vh", "vmin", "vmax", "cm", "mm", "q", "in", "pt", "pc")
	Angle       = newKind("Angle", "angle", false, "", "deg", "grad", "rad", "turn")
	AnglePt     = newKind("AnglePt", "angle", true, "", "deg", "grad", "rad", "turn")
	Time        = newKind("Time", "time", false, "s", "s", "ms")
	TimePt      = newKind("TimePt", "time", true, "s", "s", "ms")
	Frequency   = newKind("Frequency", "frequency", false, "Hz", "Hz", "kHz")
	FrequencyPt = newKind("FrequencyPt", "frequency", true, "Hz", "Hz", "kHz")
	Resolution  = newKind("Resolution", "resolution", false, "", "dpi", "dpcm", "dppx", "x")
)

func newKind(name, family string, percent bool, zeroUnit string, units ...string) *Kind {
	k := &Kind{
		name:     name,
		family:   family,
		units:    make(map[string]bool, len(units)),
		percent:  percent,
		zeroUnit: zeroUnit,
	}
	for _, u := range units {
		k.units[u] = true
	}
	return k
}

func (k *Kind) String() string { return k.name }

// Family is the name of the dimension family the kind belongs to,
// e.g. "length" for both Length and LengthPt.
func (k *Kind) Family() string { return k.family }

// AcceptsPercent is true for percent-capable kinds.
func (k *Kind) AcceptsPercent() bool { return k.percent }

// Units returns the units of a kind in sorted order, including '%' for
// percent-capable kinds.
func (k *Kind) Units() []string {
	units := make([]string, 0, len(k.units)+1)
	for u := range k.units {
		units = append(units, u)
	}
	if k.percent {
		units = append(units, "%")
	}
	sort.Strings(units)
	return units
}

// Knows is true if unit u is a unit of k.
func (k *Kind) Knows(u string) bool {
	return k.units[u] || (k.percent && u == "%")
}

// New creates a dimension value of kind k. A zero numeric value results in
// Zero, regardless of unit. An unknown unit is an error.
func (k *Kind) New(val float64, unit string) (Value, error) {
	if !k.Knows(unit) {
		return nil, fmt.Errorf("%w: %q for %s", ErrUnknownUnit, unit, k.name)
	}
	if val == 0 {
		return k.Zero(), nil
	}
	return Dimension{Val: val, Unit: unit, Kind: k}, nil
}

// Of is like New, but panics on an unknown unit. It is intended for
// initializing values from constants.
func (k *Kind) Of(val float64, unit string) Value {
	v, err := k.New(val, unit)
	if err != nil {
		panic(err)
	}
	return v
}

// Zero returns the zero of kind k. Zeros of different kinds are equal and
// differ only in how they are rendered.
func (k *Kind) Zero() Value { return zero{kind: k} }

// Map lets a kind act as a mapping rule: the key is accepted if it is
// present and compatible with k. See type Mapping.
func (k *Kind) Map(from Value, _ *Mapped, _ string) (Value, bool) {
	if from == nil {
		return nil, false
	}
	if Compat(from, k) {
		if from.Type() == ZeroType {
			return k.Zero(), true
		}
		return from, true
	}
	tracer().Debugf("value %v incompatible with %s", from, k)
	return nil, false
}

// --- Dimensions ------------------------------------------------------------

// Dimension is a numeric value with a unit, belonging to a dimension kind.
// A Dimension never holds a numeric value of 0; use Kind.New to create one.
type Dimension struct {
	Val  float64
	Unit string
	Kind *Kind
}

// Type is part of interface Value.
func (d Dimension) Type() Type { return DimensionType }

func (d Dimension) String() string {
	return formatNumber(d.Val) + d.Unit
}

// IsPercent is true if d is a percentage.
func (d Dimension) IsPercent() bool {
	return d.Unit == "%"
}

// --- Zero ------------------------------------------------------------------

type zero struct {
	kind *Kind
}

// Zero is the unit-independent zero value, compatible with every kind.
var Zero Value = zero{}

func (z zero) Type() Type { return ZeroType }

// String renders a zero. Time and frequency zeros carry a unit in CSS,
// all others are rendered unitless.
func (z zero) String() string {
	if z.kind == nil {
		return "0"
	}
	return "0" + z.kind.zeroUnit
}

// ZeroKind returns the kind a zero was created for, or nil.
func ZeroKind(v Value) *Kind {
	if z, ok := v.(zero); ok {
		return z.kind
	}
	return nil
}

var kindsByName = map[string]*Kind{}

func init() {
	for _, k := range []*Kind{Length, LengthPt, Angle, AnglePt, Time, TimePt,
		Frequency, FrequencyPt, Resolution} {
		kindsByName[k.name] = k
	}
}

// KindByName finds a predefined kind by its name, e.g. "LengthPt".
func KindByName(name string) (*Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}
