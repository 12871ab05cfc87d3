package filter

import "fmt"

// Kind tags a constraint variant.
type Kind int

// Constraint kinds. The set is closed; storage adapters switch over it exhaustively.
const (
	KindEquals Kind = iota + 1
	KindRange
	KindSubstring
	KindDisjunction
)

func (k Kind) String() string {
	switch k {
	case KindEquals:
		return "equals"
	case KindRange:
		return "range"
	case KindSubstring:
		return "substring"
	case KindDisjunction:
		return "disjunction"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Predicate is a compiled, request-scoped search filter:
// an optional full-text match ANDed with an ordered list of field constraints.
type Predicate struct {
	text        string
	constraints []Constraint
}

// NewPredicate builds a predicate. An empty text means no text match.
func NewPredicate(text string, constraints ...Constraint) Predicate {
	return Predicate{text: text, constraints: constraints}
}

// Text returns the full-text query, or "" when absent.
func (p Predicate) Text() string { return p.text }

// HasText reports whether the predicate carries a text match.
func (p Predicate) HasText() bool { return p.text != "" }

// Constraints returns the field constraints in compile order.
func (p Predicate) Constraints() []Constraint { return p.constraints }

// IsEmpty reports whether the predicate matches every record.
func (p Predicate) IsEmpty() bool { return p.text == "" && len(p.constraints) == 0 }

// Constraint is one field-level clause. Build it with Equals, NewRange, Substring or AnyOf.
type Constraint struct {
	kind      Kind
	field     string
	value     any
	rangeExpr Range
	substr    string
	anyOf     []Constraint
}

// Equals matches a field exactly.
func Equals(field string, value any) Constraint {
	return Constraint{kind: KindEquals, field: field, value: value}
}

// NewRange bounds a numeric field.
func NewRange(field string, r Range) Constraint {
	return Constraint{kind: KindRange, field: field, rangeExpr: r}
}

// Substring matches a case-insensitive, unanchored literal substring.
func Substring(field, needle string) Constraint {
	return Constraint{kind: KindSubstring, field: field, substr: needle}
}

// AnyOf matches when at least one alternative matches.
func AnyOf(alternatives ...Constraint) Constraint {
	return Constraint{kind: KindDisjunction, anyOf: alternatives}
}

// Kind returns the variant tag.
func (c Constraint) Kind() Kind { return c.kind }

// Field returns the field path. Empty for disjunctions.
func (c Constraint) Field() string { return c.field }

// Value returns the equality operand.
func (c Constraint) Value() any { return c.value }

// Range returns the numeric bounds.
func (c Constraint) Range() Range { return c.rangeExpr }

// Needle returns the substring operand, unescaped.
func (c Constraint) Needle() string { return c.substr }

// Alternatives returns the disjunction members.
func (c Constraint) Alternatives() []Constraint { return c.anyOf }

// Range is an inclusive numeric range. Either bound may be open.
type Range struct {
	gte *float64
	lte *float64
}

// Between returns an inclusive range. Either bound may be nil, not both.
func Between(lo, hi *float64) (Range, error) {
	if lo == nil && hi == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	return Range{gte: lo, lte: hi}, nil
}

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
