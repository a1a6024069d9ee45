// Package attrs implements the attribute algebra used to express archive
// search queries. An attribute is an immutable predicate (a time window, an
// instrument name, a wavelength band) and attributes compose with And, Or,
// and, for interval attributes, Xor. Composition never mutates its operands.
//
// Each conjunction may hold at most one attribute per exclusive kind: two
// time windows cannot simultaneously constrain the same request, so
// And(Time(..), Time(..)) fails with a CollisionError.
//
// Example usage:
//
//	q, err := attrs.And(
//	    attrs.MustTime("2011/1/1", "2011/1/2"),
//	    attrs.Instrument("aia"),
//	)
package attrs

import (
	"github.com/Physolia/sunpy/pkg/errors"
)

// Kind identifies an attribute variant for walker dispatch. The set of kinds
// is closed; walkers reject kinds they carry no handler for.
type Kind string

// Attribute kinds.
const (
	KindTime       Kind = "time"
	KindInstrument Kind = "instrument"
	KindSource     Kind = "source"
	KindProvider   Kind = "provider"
	KindDetector   Kind = "detector"
	KindPhysobs    Kind = "physobs"
	KindLevel      Kind = "level"
	KindSample     Kind = "sample"
	KindWavelength Kind = "wave"
	KindValue      Kind = "value"
	KindAnd        Kind = "and"
	KindOr         Kind = "or"
	KindDummy      Kind = "dummy"
)

// Attr is a search predicate. Implementations are immutable values; the
// interface is sealed so the walker can treat the kind set as closed.
type Attr interface {
	// Kind reports the attribute variant.
	Kind() Kind

	// Collides reports whether this attribute and other cannot share a
	// conjunction.
	Collides(other Attr) bool

	// Equal reports structural equality, independent of construction order
	// within conjunctions and disjunctions.
	Equal(other Attr) bool

	isAttr()
}

// Dummy is the identity attribute: And and Or with a Dummy return the other
// operand. It is a composition sentinel only; walkers refuse to encode it.
type Dummy struct{}

// Kind implements Attr.
func (Dummy) Kind() Kind { return KindDummy }

// Collides implements Attr. A Dummy never collides.
func (Dummy) Collides(Attr) bool { return false }

// Equal implements Attr.
func (Dummy) Equal(other Attr) bool {
	_, ok := other.(Dummy)
	return ok
}

func (Dummy) isAttr() {}

// ValueAttr maps provider parameter paths (dotted, e.g. "time.start") to
// values. It is the lowered form simple attributes convert to before wire
// encoding.
type ValueAttr struct {
	Values map[string]any
}

// NewValueAttr creates a ValueAttr with a copy of the given values.
func NewValueAttr(values map[string]any) ValueAttr {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return ValueAttr{Values: copied}
}

// Kind implements Attr.
func (ValueAttr) Kind() Kind { return KindValue }

// Collides implements Attr. Two ValueAttrs collide when they would write the
// same parameter path.
func (v ValueAttr) Collides(other Attr) bool {
	o, ok := other.(ValueAttr)
	if !ok {
		return false
	}
	for k := range v.Values {
		if _, shared := o.Values[k]; shared {
			return true
		}
	}
	return false
}

// Equal implements Attr.
func (v ValueAttr) Equal(other Attr) bool {
	o, ok := other.(ValueAttr)
	if !ok || len(v.Values) != len(o.Values) {
		return false
	}
	for k, val := range v.Values {
		if oval, present := o.Values[k]; !present || oval != val {
			return false
		}
	}
	return true
}

func (ValueAttr) isAttr() {}

// AttrAnd is a conjunction of attributes that must all hold.
type AttrAnd struct {
	Attrs []Attr
}

// Kind implements Attr.
func (AttrAnd) Kind() Kind { return KindAnd }

// Collides implements Attr.
func (a AttrAnd) Collides(other Attr) bool {
	for _, elem := range a.Attrs {
		if elem.Collides(other) || other.Collides(elem) {
			return true
		}
	}
	return false
}

// Equal implements Attr. Conjunctions compare as multisets.
func (a AttrAnd) Equal(other Attr) bool {
	o, ok := other.(AttrAnd)
	if !ok {
		return false
	}
	return multisetEqual(a.Attrs, o.Attrs)
}

func (AttrAnd) isAttr() {}

// AttrOr is a disjunction of alternatives, any of which satisfies the query.
type AttrOr struct {
	Attrs []Attr
}

// Kind implements Attr.
func (AttrOr) Kind() Kind { return KindOr }

// Collides implements Attr. A disjunction collides when any alternative does.
func (a AttrOr) Collides(other Attr) bool {
	for _, elem := range a.Attrs {
		if elem.Collides(other) || other.Collides(elem) {
			return true
		}
	}
	return false
}

// Equal implements Attr. Disjunctions compare as multisets.
func (a AttrOr) Equal(other Attr) bool {
	o, ok := other.(AttrOr)
	if !ok {
		return false
	}
	return multisetEqual(a.Attrs, o.Attrs)
}

func (AttrOr) isAttr() {}

// multisetEqual compares attribute slices ignoring order.
func multisetEqual(a, b []Attr) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for i, y := range b {
			if !used[i] && x.Equal(y) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// And composes attributes into a conjunction. Disjunction operands
// distribute: And(Or(a, b), c) == Or(And(a, c), And(b, c)). Composing two
// attributes of the same exclusive kind fails with a CollisionError.
func And(operands ...Attr) (Attr, error) {
	result := Attr(Dummy{})
	for _, operand := range operands {
		var err error
		result, err = and2(result, operand)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func and2(a, b Attr) (Attr, error) {
	if _, ok := a.(Dummy); ok {
		return b, nil
	}
	if _, ok := b.(Dummy); ok {
		return a, nil
	}

	// Distribute conjunction over disjunction operands.
	if or, ok := a.(AttrOr); ok {
		return distributeAnd(or, b, false)
	}
	if or, ok := b.(AttrOr); ok {
		return distributeAnd(or, a, true)
	}

	elems := flattenAnd(a)
	for _, candidate := range flattenAnd(b) {
		for _, existing := range elems {
			if existing.Collides(candidate) || candidate.Collides(existing) {
				return nil, errors.NewCollisionError(string(candidate.Kind()))
			}
		}
		elems = append(elems, candidate)
	}
	return AttrAnd{Attrs: elems}, nil
}

func distributeAnd(or AttrOr, other Attr, otherFirst bool) (Attr, error) {
	alternatives := make([]Attr, 0, len(or.Attrs))
	for _, elem := range or.Attrs {
		var conj Attr
		var err error
		if otherFirst {
			conj, err = and2(other, elem)
		} else {
			conj, err = and2(elem, other)
		}
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, conj)
	}
	return Or(alternatives...), nil
}

func flattenAnd(a Attr) []Attr {
	if and, ok := a.(AttrAnd); ok {
		out := make([]Attr, len(and.Attrs))
		copy(out, and.Attrs)
		return out
	}
	return []Attr{a}
}

// Or composes attributes into a disjunction. Or is idempotent and
// commutative up to structural equality, and nested disjunctions flatten.
func Or(operands ...Attr) Attr {
	var elems []Attr
	for _, operand := range operands {
		if _, ok := operand.(Dummy); ok {
			continue
		}
		for _, alt := range flattenOr(operand) {
			if !containsEqual(elems, alt) {
				elems = append(elems, alt)
			}
		}
	}
	switch len(elems) {
	case 0:
		return Dummy{}
	case 1:
		return elems[0]
	default:
		return AttrOr{Attrs: elems}
	}
}

func flattenOr(a Attr) []Attr {
	if or, ok := a.(AttrOr); ok {
		out := make([]Attr, len(or.Attrs))
		copy(out, or.Attrs)
		return out
	}
	return []Attr{a}
}

func containsEqual(elems []Attr, a Attr) bool {
	for _, elem := range elems {
		if elem.Equal(a) {
			return true
		}
	}
	return false
}

// intervalAttr is implemented by attributes that constrain a closed interval
// and can therefore be split by Xor.
type intervalAttr interface {
	Attr
	bounds() (lo, hi float64)
	withBounds(lo, hi float64) Attr
}

// Xor subtracts the interval of b from the interval of a and returns the
// surviving sub-intervals as a disjunction. Operands must be interval
// attributes of the same kind. A disjunction on the left distributes
// elementwise, which repeatedly carves b out of every alternative.
func Xor(a, b Attr) (Attr, error) {
	if or, ok := a.(AttrOr); ok {
		alternatives := make([]Attr, 0, len(or.Attrs))
		for _, elem := range or.Attrs {
			r, err := Xor(elem, b)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, r)
		}
		return Or(alternatives...), nil
	}

	// A disjunction on the right is carved out one alternative at a time,
	// which subtracts the union of its intervals.
	if or, ok := b.(AttrOr); ok {
		result := a
		for _, elem := range or.Attrs {
			var err error
			result, err = Xor(result, elem)
			if err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	// A conjunction operand xors on its single interval member; the
	// remaining predicates carry over onto every surviving sub-interval,
	// which And distributes across the disjunction.
	if _, ok := a.(AttrAnd); ok {
		core, rest, err := splitConjunction(a)
		if err != nil {
			return nil, err
		}
		carved, err := Xor(core, b)
		if err != nil {
			return nil, err
		}
		return And(append([]Attr{carved}, rest...)...)
	}
	if _, ok := b.(AttrAnd); ok {
		core, rest, err := splitConjunction(b)
		if err != nil {
			return nil, err
		}
		carved, err := Xor(a, core)
		if err != nil {
			return nil, err
		}
		return And(append([]Attr{carved}, rest...)...)
	}

	left, ok := a.(intervalAttr)
	if !ok {
		return nil, errors.NewValidationError("attr", a.Kind(), "xor requires an interval attribute")
	}
	right, ok := b.(intervalAttr)
	if !ok || left.Kind() != right.Kind() {
		return nil, errors.NewValidationError("attr", b.Kind(), "xor operands must share an interval kind")
	}

	alo, ahi := left.bounds()
	blo, bhi := right.bounds()

	var parts []Attr
	if alo < blo {
		parts = append(parts, left.withBounds(alo, min(blo, ahi)))
	}
	if bhi < ahi {
		parts = append(parts, left.withBounds(max(bhi, alo), ahi))
	}
	return Or(parts...), nil
}

// splitConjunction separates a conjunction into its single interval member
// and the remaining predicates.
func splitConjunction(a Attr) (Attr, []Attr, error) {
	and, ok := a.(AttrAnd)
	if !ok {
		return a, nil, nil
	}
	var core Attr
	var rest []Attr
	for _, member := range and.Attrs {
		if _, ok := member.(intervalAttr); ok && core == nil {
			core = member
			continue
		}
		rest = append(rest, member)
	}
	if core == nil {
		return nil, nil, errors.NewValidationError("attr", a.Kind(), "xor requires an interval attribute")
	}
	return core, rest, nil
}
