package queryir

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/roach88/peerexam/internal/record"
)

// identPattern matches the identifiers allowed for tables and columns.
// Identifiers are spliced into SQL text, so anything else is refused.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdent reports whether name is a usable table or column identifier.
func ValidIdent(name string) bool {
	return identPattern.MatchString(name)
}

// Validate checks a predicate tree before compilation.
//
// Rules:
//  1. Every field is a valid identifier
//  2. No comparison against NULL (never matches in SQL)
//  3. No nil values inside In
//  4. InSelect names a valid table and column; its filter follows these rules
//
// A nil predicate is valid (no filter). All violations are joined into
// the returned error.
func Validate(p Predicate) error {
	v := &validator{}
	v.validatePredicate(p)
	return errors.Join(v.errs...)
}

// validator accumulates errors during traversal.
type validator struct {
	errs []error
}

func (v *validator) addError(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) checkField(field string) {
	if !ValidIdent(field) {
		v.addError("invalid field name %q", field)
	}
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		return
	}

	switch pred := p.(type) {
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case In:
		v.validateIn(pred)
	case *In:
		v.validateIn(*pred)
	case InSelect:
		v.validateInSelect(pred)
	case *InSelect:
		v.validateInSelect(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addError("unsupported predicate type: %T", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	v.checkField(eq.Field)
	switch eq.Value.(type) {
	case nil, record.Null:
		v.addError("field %q compared to NULL", eq.Field)
	}
}

func (v *validator) validateIn(in In) {
	v.checkField(in.Field)
	for i, val := range in.Values {
		switch val.(type) {
		case nil, record.Null:
			v.addError("field %q: IN value %d is NULL", in.Field, i)
		}
	}
}

func (v *validator) validateInSelect(sub InSelect) {
	v.checkField(sub.Field)
	if !ValidIdent(sub.Table) {
		v.addError("invalid table name %q", sub.Table)
	}
	v.checkField(sub.Column)
	v.validatePredicate(sub.Where)
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
