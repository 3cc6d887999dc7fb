// Package clause accumulates WHERE and ORDER BY fragments as SQL text.
//
// An Accumulator is fed one predicate or sort column at a time and keeps the
// rendered clause text, ready to be appended to a SELECT statement:
//
//	acc := clause.New().
//	    Where("age", 18, clause.Op(">")).
//	    Where("name", "Bob", clause.As(clause.ValueString)).
//	    Sort("age")
//	acc.WhereClause()   // " WHERE age > 18 AND name = 'Bob'"
//	acc.OrderByClause() // " ORDER BY age ASC"
//
// Values are interpolated into the SQL text, wrapped in quotes where the value
// type asks for it. Nothing is escaped: callers must sanitize their input.
package clause

import (
	"fmt"
	"strings"
)

// Accumulator holds the WHERE and ORDER BY text built so far.
// It is not safe for concurrent use.
type Accumulator struct {
	where strings.Builder
	sort  strings.Builder
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Where appends a predicate. The first predicate opens the clause with WHERE,
// every later one is joined with its logic keyword (AND unless overridden).
func (a *Accumulator) Where(field string, value any, opts ...PredicateOption) *Accumulator {
	p := NewPredicate(field, value, opts...)
	if p.Fresh {
		a.ClearWhere()
	}

	f, v := p.render()
	if a.where.Len() == 0 {
		fmt.Fprintf(&a.where, " WHERE %s %s %s", f, p.Operator, v)
	} else {
		fmt.Fprintf(&a.where, " %s %s %s %s", p.Logic, f, p.Operator, v)
	}
	return a
}

// Sort appends a sort column. The first column opens the clause with ORDER BY,
// later ones are comma-joined onto it.
func (a *Accumulator) Sort(column string, opts ...SortOption) *Accumulator {
	s := NewSortSpec(column, opts...)
	if s.Fresh {
		a.ClearSort()
	}

	if a.sort.Len() == 0 {
		fmt.Fprintf(&a.sort, " ORDER BY %s %s", s.Column, s.Direction)
	} else {
		fmt.Fprintf(&a.sort, ", %s %s", s.Column, s.Direction)
	}
	return a
}

// ClearWhere drops every accumulated predicate.
func (a *Accumulator) ClearWhere() *Accumulator {
	a.where.Reset()
	return a
}

// ClearSort drops every accumulated sort column.
func (a *Accumulator) ClearSort() *Accumulator {
	a.sort.Reset()
	return a
}

// Reset clears both clauses.
func (a *Accumulator) Reset() *Accumulator {
	return a.ClearWhere().ClearSort()
}

// WhereClause returns the rendered WHERE clause with its leading space, or ""
// when no predicate was added.
func (a *Accumulator) WhereClause() string {
	return a.where.String()
}

// OrderByClause returns the rendered ORDER BY clause with its leading space, or
// "" when no sort column was added.
func (a *Accumulator) OrderByClause() string {
	return a.sort.String()
}
