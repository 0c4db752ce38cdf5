package value

// Match tells how a value relates to an expected dimension kind.
type Match uint8

// Results of Classify.
const (
	Incompatible Match = iota
	SameKind
	PercentMatch
	ZeroMatch
)

func (m Match) String() string {
	switch m {
	case SameKind:
		return "same-kind"
	case PercentMatch:
		return "percent"
	case ZeroMatch:
		return "zero"
	}
	return "incompatible"
}

// Classify checks a value against an expected kind.
//
// A zero matches every kind. A dimension matches if its unit is one of the
// non-percent units of the expected kind's family, even if it has been
// created by the percent sibling of that family. A percentage matches any
// percent-capable kind, whatever family it stems from. Everything else,
// including scalars and a nil value, is incompatible.
func Classify(v Value, expected *Kind) Match {
	if v == nil || expected == nil {
		return Incompatible
	}
	switch v.Type() {
	case ZeroType:
		return ZeroMatch
	case DimensionType:
		d, ok := v.(Dimension)
		if !ok {
			return Incompatible
		}
		if d.IsPercent() {
			if expected.percent {
				return PercentMatch
			}
			return Incompatible
		}
		if expected.units[d.Unit] {
			return SameKind
		}
	}
	return Incompatible
}

// Compat is true if v may be used where a value of kind expected is
// required.
func Compat(v Value, expected *Kind) bool {
	return Classify(v, expected) != Incompatible
}

// Equal compares two values. Zeros are equal to each other independent of
// kind. Dimensions are equal if they share the dimension family, the numeric
// value and the unit; a percent sibling kind counts as the same family.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case ZeroType:
		return true
	case DimensionType:
		da, oka := a.(Dimension)
		db, okb := b.(Dimension)
		if oka && okb {
			return da.Val == db.Val && da.Unit == db.Unit && sameFamily(da.Kind, db.Kind)
		}
	}
	return a == b
}

func sameFamily(a, b *Kind) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.family == b.family
}

// ---------------------------------------------------------------------------

// Matcher is a helper for matching a value against value shapes:
//
//	var d value.Dimension
//	switch m := value.MatchValue(v); m {
//	case m.Zero():
//	case m.Dimension(value.Length, &d):
//	case m.Text(nil):
//	}
//
// Every matching method returns the matcher itself on success and nil
// otherwise.
type Matcher struct {
	v Value
}

// MatchValue creates a matcher for v.
func MatchValue(v Value) *Matcher {
	return &Matcher{v: v}
}

// Absent matches a nil value.
func (m *Matcher) Absent() *Matcher {
	if m.v == nil {
		return m
	}
	return nil
}

// Zero matches a zero of any kind.
func (m *Matcher) Zero() *Matcher {
	if m.v != nil && m.v.Type() == ZeroType {
		return m
	}
	return nil
}

// Dimension matches a non-zero dimension compatible with kind k. If d is
// non-nil, it receives the dimension.
func (m *Matcher) Dimension(k *Kind, d *Dimension) *Matcher {
	dim, ok := m.v.(Dimension)
	if !ok || !Compat(dim, k) {
		return nil
	}
	if d != nil {
		*d = dim
	}
	return m
}

// Text matches a text scalar. If t is non-nil, it receives the text.
func (m *Matcher) Text(t *string) *Matcher {
	txt, ok := m.v.(Text)
	if !ok {
		return nil
	}
	if t != nil {
		*t = string(txt)
	}
	return m
}

// Number matches a number scalar. If n is non-nil, it receives the number.
func (m *Matcher) Number(n *float64) *Matcher {
	num, ok := m.v.(Number)
	if !ok {
		return nil
	}
	if n != nil {
		*n = float64(num)
	}
	return m
}

// URL matches a URL value. If u is non-nil, it receives the URL.
func (m *Matcher) URL(u *string) *Matcher {
	url, ok := m.v.(URL)
	if !ok {
		return nil
	}
	if u != nil {
		*u = string(url)
	}
	return m
}
