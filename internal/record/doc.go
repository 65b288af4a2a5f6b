// Package record provides the row value model shared by the query compiler,
// the SQL store and the entity layer.
//
// This package contains type definitions only. It imports nothing internal,
// so every other package can depend on it without cycles.
//
// Key design constraints:
//   - NO float types - integers are int64, text is string
//   - The surrogate id lives on Row, never inside Fields
//   - Column names are lower-case ASCII identifiers
package record
