package aot

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Common filter operators understood by the Array of Things API.
const (
	OpEq             = "eq"
	OpGt             = "gt"
	OpGe             = "ge"
	OpLt             = "lt"
	OpLe             = "le"
	OpIn             = "in"
	OpLike           = "like"
	OpILike          = "ilike"
	OpWithin         = "within"
	OpDistanceWithin = "distance_within"
	OpFirst          = "first"
	OpLast           = "last"
)

// Well-known query fields.
const (
	FieldPage           = "page"
	FieldSize           = "size"
	FieldOrder          = "order"
	FieldIncludeNodes   = "include_nodes"
	FieldIncludeSensors = "include_sensors"
	FieldProject        = "project"
	FieldNode           = "node"
	FieldSensor         = "sensor"
	FieldTimestamp      = "timestamp"
	FieldValue          = "value"
	FieldLocation       = "location"
)

// arrayMarker is appended to a field name when it carries more than one constraint.
const arrayMarker = "[]"

// QueryParam is a single key/value pair of a request query string.
type QueryParam struct {
	Key   string
	Value string
}

// Constraint is one set of positional parts attached to a field, usually an
// operator followed by an operand.
type Constraint struct {
	parts []any
}

// NewConstraint creates a constraint from an operator and its operand.
func NewConstraint(op string, value any) Constraint {
	return Constraint{parts: []any{op, value}}
}

// Parts returns a copy of the constraint's positional parts.
func (c Constraint) Parts() []any {
	out := make([]any, len(c.parts))
	copy(out, c.parts)

	return out
}

// Operator returns the operator part, or "" for a single-value constraint.
func (c Constraint) Operator() string {
	if len(c.parts) < 2 {
		return ""
	}

	return formatPart(c.parts[0])
}

// String renders the parts joined by a colon, e.g. "gt:21".
func (c Constraint) String() string {
	rendered := make([]string, len(c.parts))
	for i, part := range c.parts {
		rendered[i] = formatPart(part)
	}

	return strings.Join(rendered, ":")
}

// Filter is a single field/operator/value triple. It is the single-constraint
// operand accepted by FilterSet.And and FilterSet.Or.
type Filter struct {
	Field string
	Op    string
	Value any
}

// FilterSet accumulates per-field constraints and renders them as query
// parameters. Fields keep their first-insertion order and each field keeps its
// constraints in insertion order.
//
// A FilterSet is not safe for concurrent mutation.
type FilterSet struct {
	order       []string
	constraints map[string][]Constraint
}

// NewFilterSet creates an empty filter set.
func NewFilterSet() *FilterSet {
	return &FilterSet{
		constraints: make(map[string][]Constraint),
	}
}

// NewFilter creates a filter set seeded with one constraint for field.
//
//	aot.NewFilter("age", aot.OpGt, 21)      // age=gt:21
//	aot.NewFilter("include_nodes", true)    // include_nodes=True
//
// Parts render as the API expects: bools as True/False, nil as None, floats
// with a decimal point (2.0) and times as RFC 3339.
func NewFilter(field string, parts ...any) *FilterSet {
	fs := NewFilterSet()
	if field == "" {
		return fs
	}

	stored := make([]any, len(parts))
	copy(stored, parts)
	fs.set(field, []Constraint{{parts: stored}})

	return fs
}

// And merges operand into the set, appending its constraints after any
// existing constraints on the same field. The operand must be a Filter,
// *Filter, FilterSet or *FilterSet.
func (f *FilterSet) And(operand any) (*FilterSet, error) {
	other, err := operandToSet(operand)
	if err != nil {
		return f, err
	}

	f.AndSet(other)

	return f, nil
}

// Or merges operand into the set, replacing the constraint list of every field
// the operand mentions. Other fields are left untouched.
func (f *FilterSet) Or(operand any) (*FilterSet, error) {
	other, err := operandToSet(operand)
	if err != nil {
		return f, err
	}

	f.OrSet(other)

	return f, nil
}

// AndFilter appends a single field/operator/value constraint.
func (f *FilterSet) AndFilter(field, op string, value any) *FilterSet {
	return f.AndSet(NewFilter(field, op, value))
}

// OrFilter replaces the constraints on field with a single constraint.
func (f *FilterSet) OrFilter(field, op string, value any) *FilterSet {
	return f.OrSet(NewFilter(field, op, value))
}

// AndSet appends every constraint of other to the set.
func (f *FilterSet) AndSet(other *FilterSet) *FilterSet {
	if other == nil {
		return f
	}

	for _, field := range other.order {
		incoming := other.constraints[field]

		existing, ok := f.lookup(field)
		if !ok {
			f.set(field, incoming)

			continue
		}

		merged := make([]Constraint, 0, len(existing)+len(incoming))
		merged = append(merged, existing...)
		merged = append(merged, incoming...)
		f.set(field, merged)
	}

	return f
}

// OrSet replaces the constraints of every field present in other.
func (f *FilterSet) OrSet(other *FilterSet) *FilterSet {
	if other == nil {
		return f
	}

	for _, field := range other.order {
		f.set(field, other.constraints[field])
	}

	return f
}

// Fields returns the field names in first-insertion order.
func (f *FilterSet) Fields() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)

	return out
}

// Constraints returns a copy of the constraints stored for field.
func (f *FilterSet) Constraints(field string) []Constraint {
	existing, ok := f.lookup(field)
	if !ok {
		return nil
	}

	out := make([]Constraint, len(existing))
	copy(out, existing)

	return out
}

// Len returns the number of constrained fields.
func (f *FilterSet) Len() int {
	if f == nil {
		return 0
	}

	return len(f.order)
}

// Clone returns an independent copy of the set.
func (f *FilterSet) Clone() *FilterSet {
	return NewFilterSet().AndSet(f)
}

// QueryParams renders the set as ordered query parameters, one pair per
// constraint. A field with a single constraint uses its bare name as key;
// a field with several uses "field[]" for each of them.
func (f *FilterSet) QueryParams() []QueryParam {
	if f == nil {
		return nil
	}

	params := make([]QueryParam, 0, len(f.order))

	for _, field := range f.order {
		list := f.constraints[field]

		key := field
		if len(list) > 1 {
			key = field + arrayMarker
		}

		for _, constraint := range list {
			params = append(params, QueryParam{Key: key, Value: constraint.String()})
		}
	}

	return params
}

// Encode renders the set as a URL-encoded query string, preserving order.
func (f *FilterSet) Encode() string {
	return EncodeQueryParams(f.QueryParams())
}

// String implements fmt.Stringer.
func (f *FilterSet) String() string {
	return f.Encode()
}

// EncodeQueryParams URL-encodes params in the given order.
func EncodeQueryParams(params []QueryParam) string {
	var builder strings.Builder

	for i, param := range params {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(url.QueryEscape(param.Key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(param.Value))
	}

	return builder.String()
}

func (f *FilterSet) lookup(field string) ([]Constraint, bool) {
	if f == nil || f.constraints == nil {
		return nil, false
	}

	list, ok := f.constraints[field]

	return list, ok
}

// set installs a fresh list for field so no slice is shared between sets.
func (f *FilterSet) set(field string, list []Constraint) {
	if f.constraints == nil {
		f.constraints = make(map[string][]Constraint)
	}

	if _, ok := f.constraints[field]; !ok {
		f.order = append(f.order, field)
	}

	owned := make([]Constraint, len(list))
	copy(owned, list)
	f.constraints[field] = owned
}

func operandToSet(operand any) (*FilterSet, error) {
	switch v := operand.(type) {
	case *FilterSet:
		return v, nil
	case FilterSet:
		return &v, nil
	case Filter:
		return NewFilter(v.Field, v.Op, v.Value), nil
	case *Filter:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *aot.Filter", ErrInvalidFilterOperand)
		}

		return NewFilter(v.Field, v.Op, v.Value), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidFilterOperand, operand)
	}
}

func formatPart(part any) string {
	switch v := part.(type) {
	case nil:
		return "None"
	case string:
		return v
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	case bool:
		if v {
			return "True"
		}

		return "False"
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat keeps a decimal point on integral values, so 2.0 stays "2.0".
func formatFloat(v float64, bitSize int) string {
	s := strconv.FormatFloat(v, 'f', -1, bitSize)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.Contains(s, ".") {
		return s
	}

	return s + ".0"
}
