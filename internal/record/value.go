package record

import (
	"fmt"
	"sort"
)

// Value is a sealed interface over the column types the entity tables use.
// Only Null, String and Int implement it. Floats never reach storage; grades
// and keys are integers.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null is an absent column value.
type Null struct{}

func (Null) value() {}

// String is a TEXT column value.
type String string

func (String) value() {}

// Int is an INTEGER column value. Always int64.
type Int int64

func (Int) value() {}

// Fields maps column names to values for one row, excluding the surrogate id.
// Use SortedKeys() for deterministic iteration.
type Fields map[string]Value

// Row is a persisted row: its surrogate id plus the remaining columns.
type Row struct {
	ID     int64
	Fields Fields
}

// SortedKeys returns column names in byte order. Column names are ASCII
// identifiers, so byte order is also the order SQL builders emit them in.
func (f Fields) SortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new Fields holding f overlaid with other.
// Neither input is modified.
func (f Fields) Merge(other Fields) Fields {
	out := make(Fields, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Int returns the integer stored under name.
func (f Fields) Int(name string) (int64, error) {
	v, ok := f[name]
	if !ok {
		return 0, fmt.Errorf("field %q: missing", name)
	}
	n, ok := v.(Int)
	if !ok {
		return 0, fmt.Errorf("field %q: want integer, got %T", name, v)
	}
	return int64(n), nil
}

// String returns the text stored under name. Null reads as "".
func (f Fields) String(name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", fmt.Errorf("field %q: missing", name)
	}
	switch s := v.(type) {
	case String:
		return string(s), nil
	case Null:
		return "", nil
	default:
		return "", fmt.Errorf("field %q: want text, got %T", name, v)
	}
}
