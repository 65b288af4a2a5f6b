// Package queryir provides the predicate representation the entity layer
// uses to talk to the store.
//
// Entities never write SQL. They describe which rows they want with
// Equals, In, InSelect and And, and the store compiles that to parameterized SQL for
// its dialect (see package querysql).
//
// SEALED INTERFACES:
//
// Predicate is sealed using the marker method pattern. Only types in this
// package implement it, so backends can switch exhaustively:
//
//	switch p := pred.(type) {
//	case queryir.Equals:
//	case queryir.In:
//	case queryir.InSelect:
//	case queryir.And:
//	}
//
// ORDERING:
//
// Queries that return several rows take []Order. Backends always append the
// surrogate id as the last sort key, so results are deterministic and ties
// fall back to creation order.
package queryir
