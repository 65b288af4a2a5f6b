package queryir

import "github.com/roach88/peerexam/internal/record"

// Predicate represents a row filter.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern lets the SQL compiler switch exhaustively.
//
// Predicate types:
//   - Equals: field = value
//   - In: field IN (values...)
//   - InSelect: field IN (SELECT column FROM table WHERE ...)
//   - And: all predicates must be true
//
// A nil Predicate matches every row.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals represents a field-equals-literal predicate.
//
// Semantics:
//
//	<field> = <value>
//
// Comparing against record.Null is rejected by Validate: NULL never equals
// anything in SQL, so such a filter would silently match nothing.
type Equals struct {
	Field string       // Column name in the queried table
	Value record.Value // Literal value
}

func (Equals) predicateNode() {}

// In represents a set-membership predicate.
//
// Semantics:
//
//	<field> IN (<v1>, <v2>, ...)
//
// An empty Values slice matches nothing. Derived queries rely on this when a
// preceding lookup produced no ids.
type In struct {
	Field  string
	Values []record.Value
}

func (In) predicateNode() {}

// InSelect represents membership in a column of another table's rows.
//
// Semantics:
//
//	<field> IN (SELECT <column> FROM <table> WHERE <where>)
//
// Derived queries use it to filter on a parent table in one statement, so
// the number of bound parameters does not grow with the number of parents.
// A nil Where selects every row of table.
type InSelect struct {
	Field  string
	Table  string
	Column string
	Where  Predicate
}

func (InSelect) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// Empty Predicates means "always true".
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Order is one ORDER BY term. The compiler always appends "id ASC" as the
// final tiebreaker, so callers only list the business ordering.
type Order struct {
	Field string
	Desc  bool
}

// Eq builds an Equals predicate.
func Eq(field string, v record.Value) Equals {
	return Equals{Field: field, Value: v}
}

// EqInt builds an Equals predicate over an integer column.
func EqInt(field string, n int64) Equals {
	return Equals{Field: field, Value: record.Int(n)}
}

// InInts builds an In predicate over integer ids.
func InInts(field string, ids []int64) In {
	vals := make([]record.Value, len(ids))
	for i, id := range ids {
		vals[i] = record.Int(id)
	}
	return In{Field: field, Values: vals}
}

// InSubquery builds an InSelect predicate.
func InSubquery(field, table, column string, where Predicate) InSelect {
	return InSelect{Field: field, Table: table, Column: column, Where: where}
}

// All builds an And predicate.
func All(preds ...Predicate) And {
	return And{Predicates: preds}
}

// FieldsEqual builds the conjunction "k1 = v1 AND k2 = v2 ..." over fields,
// in sorted column order. Natural-key lookups use it.
func FieldsEqual(fields record.Fields) And {
	preds := make([]Predicate, 0, len(fields))
	for _, k := range fields.SortedKeys() {
		preds = append(preds, Equals{Field: k, Value: fields[k]})
	}
	return And{Predicates: preds}
}
