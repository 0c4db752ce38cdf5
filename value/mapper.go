package value

import "sort"

// Mapping is a per-key mapping rule. Map receives the source value for key
// (nil if absent) and the mapping pass in progress, which gives access to
// the mapped values of other keys. It returns the target value and true, or
// false to omit the key from the result.
//
// The package provides three shapes of rules:
//
//	value.Mappings{
//	    "display": value.Default(value.Text("block")),  // default value
//	    "width":   value.LengthPt,                      // kind-only rule
//	    "height":  value.MapperFunc(func(…) …),         // custom function
//	}
type Mapping interface {
	Map(from Value, mapped *Mapped, key string) (Value, bool)
}

// Mappings holds mapping rules by target key.
type Mappings map[string]Mapping

// MapperFunc is an adapter to use ordinary functions as mapping rules.
type MapperFunc func(from Value, mapped *Mapped, key string) (Value, bool)

// Map is part of interface Mapping.
func (f MapperFunc) Map(from Value, mapped *Mapped, key string) (Value, bool) {
	return f(from, mapped, key)
}

// --- Default values --------------------------------------------------------

type defaultValue struct {
	v Value
}

// Default creates a mapping rule with a default value. The rule always
// produces a value:
//
//   - An absent source value results in the default.
//   - For a scalar default, a source of the same scalar type is kept,
//     anything else results in the default.
//   - For a dimension or zero default, a source compatible with the
//     default's kind is kept, anything else results in the default.
//     A compatible zero is turned into the zero of the default's kind.
//   - For a URL default, a URL source is kept.
func Default(v Value) Mapping {
	if v == nil {
		panic("value.Default: default value must not be nil")
	}
	return defaultValue{v: v}
}

func (dv defaultValue) Map(from Value, _ *Mapped, key string) (Value, bool) {
	if from == nil {
		return dv.v, true
	}
	switch dv.v.Type() {
	case TextType, NumberType, URLType:
		if from.Type() == dv.v.Type() {
			return from, true
		}
	case DimensionType, ZeroType:
		k := kindOf(dv.v)
		if k == nil { // zero without a kind accepts zeros only
			if from.Type() == ZeroType {
				return from, true
			}
			break
		}
		switch Classify(from, k) {
		case ZeroMatch:
			return k.Zero(), true
		case SameKind, PercentMatch:
			return from, true
		}
	}
	tracer().Debugf("mapping '%s': %v replaced by default %v", key, from, dv.v)
	return dv.v, true
}

func kindOf(v Value) *Kind {
	if d, ok := v.(Dimension); ok {
		return d.Kind
	}
	return ZeroKind(v)
}

// --- Mapping pass ----------------------------------------------------------

type entryState uint8

const (
	unmapped entryState = iota
	pending
	done
)

type entry struct {
	state entryState
	v     Value
	ok    bool
}

// Mapped is a single mapping pass of a property bag. Mapping rules use it to
// read the results of other keys. Every key is evaluated at most once; a
// key read while its own evaluation is still in progress counts as absent.
type Mapped struct {
	from     Properties
	mappings Mappings
	entries  map[string]*entry
}

// Get returns the mapped value for key, evaluating its rule if necessary.
// Keys without a rule are absent.
func (m *Mapped) Get(key string) (Value, bool) {
	rule, ok := m.mappings[key]
	if !ok || rule == nil {
		return nil, false
	}
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	switch e.state {
	case done:
		return e.v, e.ok
	case pending:
		tracer().Debugf("mapping '%s' read during its own evaluation", key)
		return nil, false
	}
	e.state = pending
	defer func() { e.state = done }()
	e.v, e.ok = rule.Map(m.from[key], m, key)
	if e.v == nil {
		e.ok = false
	}
	return e.v, e.ok
}

// Source returns the unmapped source bag of the pass.
func (m *Mapped) Source() Properties {
	return m.from
}

// Map maps a property bag. The result contains exactly those keys of
// mappings whose rule produced a value. Source keys without a rule are
// dropped. Map never mutates from.
func Map(from Properties, mappings Mappings) Properties {
	m := &Mapped{
		from:     from,
		mappings: mappings,
		entries:  make(map[string]*entry, len(mappings)),
	}
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make(Properties, len(keys))
	for _, k := range keys {
		if v, ok := m.Get(k); ok {
			result[k] = v
		}
	}
	return result
}

// MapBy returns a mapping function for a fixed set of mapping rules.
func MapBy(mappings Mappings) func(Properties) Properties {
	return func(from Properties) Properties {
		return Map(from, mappings)
	}
}
