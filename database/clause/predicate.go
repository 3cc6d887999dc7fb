package clause

import (
	"fmt"
	"reflect"
	"strings"
)

// ValueType selects how a predicate value (and field) is rendered.
type ValueType string

const (
	// ValueInt renders field and value verbatim. It is the default, and any
	// unrecognized ValueType behaves the same way.
	ValueInt ValueType = "int"
	// ValueString wraps the value in single quotes.
	ValueString ValueType = "string"
	// ValueDate wraps the value in single quotes and formats the field as a date.
	ValueDate ValueType = "date"
	// ValueDateTime wraps the value in single quotes and formats the field as an ISO-8601 datetime.
	ValueDateTime ValueType = "datetime"
)

// Logic keywords joining consecutive predicates.
const (
	And = "AND"
	Or  = "OR"
)

// Sort directions.
const (
	Ascending  = "ASC"
	Descending = "DESC"
)

const (
	dateFormat     = "DATE_FORMAT(%s, '%%Y-%%m-%%d')"
	dateTimeFormat = "DATE_FORMAT(%s, '%%Y-%%m-%%dT%%TZ')"
)

// Predicate describes one WHERE condition.
type Predicate struct {
	Field    string
	Value    any
	Operator string
	Logic    string
	Type     ValueType
	// Fresh discards previously accumulated predicates before this one is added.
	Fresh bool
}

// PredicateOption customizes a Predicate.
type PredicateOption func(*Predicate)

// NewPredicate returns a Predicate with the defaults applied: operator "=",
// logic AND and ValueInt rendering.
func NewPredicate(field string, value any, opts ...PredicateOption) Predicate {
	p := Predicate{
		Field:    field,
		Value:    value,
		Operator: "=",
		Logic:    And,
		Type:     ValueInt,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Op sets the comparison operator, e.g. ">", "!=", "IN", "NOT IN", "LIKE".
func Op(operator string) PredicateOption {
	return func(p *Predicate) { p.Operator = operator }
}

// Logic sets the keyword joining this predicate to the previous one.
func Logic(logic string) PredicateOption {
	return func(p *Predicate) { p.Logic = logic }
}

// OrWhere joins this predicate to the previous one with OR.
func OrWhere() PredicateOption {
	return Logic(Or)
}

// As sets the value type.
func As(t ValueType) PredicateOption {
	return func(p *Predicate) { p.Type = t }
}

// FreshWhere clears previously accumulated predicates before adding this one.
func FreshWhere() PredicateOption {
	return func(p *Predicate) { p.Fresh = true }
}

// IsList reports whether the operator is IN or NOT IN, compared case-insensitively
// and without trimming, so a padded " in " renders its value as a scalar.
func (p Predicate) IsList() bool {
	op := strings.ToLower(p.Operator)
	return op == "in" || op == "not in"
}

// render returns the field and value text for p.
func (p Predicate) render() (field, value string) {
	switch p.Type {
	case ValueString:
		field, value = p.Field, quote(p.Value)
	case ValueDate:
		field, value = fmt.Sprintf(dateFormat, p.Field), quote(p.Value)
	case ValueDateTime:
		field, value = fmt.Sprintf(dateTimeFormat, p.Field), quote(p.Value)
	default:
		field, value = p.Field, text(p.Value)
	}

	if p.IsList() {
		value = list(p.Value)
	}
	return field, value
}

func quote(v any) string {
	return "'" + text(v) + "'"
}

// text renders v with its default format; nil renders as the empty string.
func text(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// list renders v as ("a","b",...). Slices and arrays contribute one entry per
// element; any other value is a single entry.
func list(v any) string {
	var items []string

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items = make([]string, rv.Len())
		for i := range rv.Len() {
			items[i] = text(rv.Index(i).Interface())
		}
	case reflect.Invalid:
		items = []string{""}
	default:
		items = []string{text(v)}
	}

	return `("` + strings.Join(items, `","`) + `")`
}

// SortSpec describes one ORDER BY column.
type SortSpec struct {
	Column    string
	Direction string
	// Fresh discards previously accumulated sort columns before this one is added.
	Fresh bool
}

// SortOption customizes a SortSpec.
type SortOption func(*SortSpec)

// NewSortSpec returns an ascending SortSpec with opts applied.
func NewSortSpec(column string, opts ...SortOption) SortSpec {
	s := SortSpec{Column: column, Direction: Ascending}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Direction sets the sort direction verbatim.
func Direction(direction string) SortOption {
	return func(s *SortSpec) { s.Direction = direction }
}

// Asc sorts ascending.
func Asc() SortOption {
	return Direction(Ascending)
}

// Desc sorts descending.
func Desc() SortOption {
	return Direction(Descending)
}

// FreshSort clears previously accumulated sort columns before adding this one.
func FreshSort() SortOption {
	return func(s *SortSpec) { s.Fresh = true }
}
