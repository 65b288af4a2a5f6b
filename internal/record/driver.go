package record

import "fmt"

// ToDriver converts a Value to the Go type handed to database/sql as a
// query parameter.
func ToDriver(v Value) (any, error) {
	switch val := v.(type) {
	case String:
		return string(val), nil
	case Int:
		return int64(val), nil
	case Null, nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}

// FromDriver converts a scanned column into a Value.
//
// SQLite hands back int64, string or []byte; pgx returns the narrower integer
// types for INT4/INT2 columns, so those are widened here.
func FromDriver(src any) (Value, error) {
	switch val := src.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int:
		return Int(val), nil
	case string:
		return String(val), nil
	case []byte:
		return String(val), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", src)
	}
}
