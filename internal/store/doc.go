// Package store provides the SQL-backed row store behind the entity layer.
//
// The Store interface is deliberately small: insert, update by surrogate id,
// find one, find all, count, and an Atomic scope for check-then-act
// sequences. Filters are queryir predicates compiled by querysql, so callers
// never build SQL.
//
// # Critical Patterns
//
// Surrogate ids:
//   - Every table has an integer id primary key assigned by the database
//   - Ids only grow (AUTOINCREMENT / BIGSERIAL), so ORDER BY id is creation order
//
// Deterministic query results:
//   - Every SELECT ends with "id ASC"
//
// Atomic upserts:
//   - Find-then-insert-or-update runs in one transaction
//   - SQLite: single connection plus BEGIN IMMEDIATE
//   - PostgreSQL: pg_advisory_xact_lock keyed by a hash of the natural key
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Foreign keys are not declared. Referential integrity between entities is
// the caller's responsibility.
package store
