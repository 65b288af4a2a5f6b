package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
)

// Dialect captures the SQL differences between the supported backends.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string

	// NumberedParams selects $1, $2, ... placeholders instead of ?.
	NumberedParams bool

	// ReturningID appends "RETURNING id" to INSERT statements, for drivers
	// without LastInsertId support.
	ReturningID bool
}

var (
	// SQLite is the dialect for github.com/mattn/go-sqlite3.
	SQLite = Dialect{Name: "sqlite3"}

	// Postgres is the dialect for github.com/jackc/pgx/v5/stdlib.
	Postgres = Dialect{Name: "pgx", NumberedParams: true, ReturningID: true}
)

// DialectFor returns the dialect registered under a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Name, "sqlite":
		return SQLite, nil
	case Postgres.Name, "postgres":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported driver %q", driver)
	}
}

// SQLCompiler compiles table operations to parameterized SQL.
//
// CRITICAL: every SELECT ends with "id ASC" so results are deterministic and
// ties resolve to creation order.
// CRITICAL: values are always parameterized, never interpolated. Only
// identifiers that pass queryir.ValidIdent reach the SQL text.
type SQLCompiler struct {
	Dialect Dialect
}

// NewSQLCompiler creates a compiler for the given dialect.
func NewSQLCompiler(d Dialect) *SQLCompiler {
	return &SQLCompiler{Dialect: d}
}

// Select compiles "SELECT * FROM table WHERE ... ORDER BY ..., id ASC".
// limit <= 0 means no LIMIT clause.
func (c *SQLCompiler) Select(table string, where queryir.Predicate, order []queryir.Order, limit int) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	b := c.newBuilder()

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	if err := b.writeWhere(&sb, where); err != nil {
		return "", nil, err
	}

	orderBy, err := compileOrder(order)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)

	if limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(limit))
	}

	return sb.String(), b.params, nil
}

// Count compiles "SELECT COUNT(*) FROM table WHERE ...".
func (c *SQLCompiler) Count(table string, where queryir.Predicate) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	b := c.newBuilder()

	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(table)
	if err := b.writeWhere(&sb, where); err != nil {
		return "", nil, err
	}
	return sb.String(), b.params, nil
}

// Insert compiles an INSERT of fields. Columns appear in sorted order.
func (c *SQLCompiler) Insert(table string, fields record.Fields) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no fields", table)
	}
	b := c.newBuilder()

	keys := fields.SortedKeys()
	cols := make([]string, 0, len(keys))
	holders := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := checkColumn(k); err != nil {
			return "", nil, err
		}
		ph, err := b.bind(fields[k])
		if err != nil {
			return "", nil, fmt.Errorf("insert into %s: column %s: %w", table, k, err)
		}
		cols = append(cols, k)
		holders = append(holders, ph)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		strings.Join(holders, ", "))
	if c.Dialect.ReturningID {
		sql += " RETURNING id"
	}
	return sql, b.params, nil
}

// Update compiles "UPDATE table SET ... WHERE id = ?". Columns appear in
// sorted order; the id parameter is always last.
func (c *SQLCompiler) Update(table string, id int64, fields record.Fields) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("update %s: no fields", table)
	}
	b := c.newBuilder()

	keys := fields.SortedKeys()
	sets := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := checkColumn(k); err != nil {
			return "", nil, err
		}
		ph, err := b.bind(fields[k])
		if err != nil {
			return "", nil, fmt.Errorf("update %s: column %s: %w", table, k, err)
		}
		sets = append(sets, k+" = "+ph)
	}
	idPh, err := b.bind(record.Int(id))
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", table, strings.Join(sets, ", "), idPh)
	return sql, b.params, nil
}

// builder accumulates parameters and hands out placeholders.
type builder struct {
	dialect Dialect
	params  []any
}

func (c *SQLCompiler) newBuilder() *builder {
	return &builder{dialect: c.Dialect}
}

// bind records a parameter and returns its placeholder.
func (b *builder) bind(v record.Value) (string, error) {
	p, err := record.ToDriver(v)
	if err != nil {
		return "", err
	}
	b.params = append(b.params, p)
	if b.dialect.NumberedParams {
		return "$" + strconv.Itoa(len(b.params)), nil
	}
	return "?", nil
}

// writeWhere appends " WHERE <pred>" unless the predicate is nil.
func (b *builder) writeWhere(sb *strings.Builder, where queryir.Predicate) error {
	if where == nil {
		return nil
	}
	if err := queryir.Validate(where); err != nil {
		return fmt.Errorf("compile filter: %w", err)
	}
	cond, err := b.compilePredicate(where)
	if err != nil {
		return fmt.Errorf("compile filter: %w", err)
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(cond)
	return nil
}

// compilePredicate compiles a predicate to a WHERE fragment.
// CRITICAL: values NEVER interpolated - always placeholders.
func (b *builder) compilePredicate(p queryir.Predicate) (string, error) {
	if p == nil {
		return "1 = 1", nil
	}

	switch pred := p.(type) {
	case queryir.Equals:
		return b.compileEquals(pred)
	case *queryir.Equals:
		return b.compileEquals(*pred)
	case queryir.In:
		return b.compileIn(pred)
	case *queryir.In:
		return b.compileIn(*pred)
	case queryir.InSelect:
		return b.compileInSelect(pred)
	case *queryir.InSelect:
		return b.compileInSelect(*pred)
	case queryir.And:
		return b.compileAnd(pred)
	case *queryir.And:
		return b.compileAnd(*pred)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (b *builder) compileEquals(eq queryir.Equals) (string, error) {
	ph, err := b.bind(eq.Value)
	if err != nil {
		return "", fmt.Errorf("convert value: %w", err)
	}
	return eq.Field + " = " + ph, nil
}

func (b *builder) compileIn(in queryir.In) (string, error) {
	if len(in.Values) == 0 {
		return "1 = 0", nil // empty set matches nothing
	}
	holders := make([]string, 0, len(in.Values))
	for _, v := range in.Values {
		ph, err := b.bind(v)
		if err != nil {
			return "", fmt.Errorf("convert value: %w", err)
		}
		holders = append(holders, ph)
	}
	return in.Field + " IN (" + strings.Join(holders, ", ") + ")", nil
}

// compileInSelect emits the subquery inline; its parameters share the outer
// numbering.
func (b *builder) compileInSelect(sub queryir.InSelect) (string, error) {
	var sb strings.Builder
	sb.WriteString(sub.Field)
	sb.WriteString(" IN (SELECT ")
	sb.WriteString(sub.Column)
	sb.WriteString(" FROM ")
	sb.WriteString(sub.Table)
	if sub.Where != nil {
		cond, err := b.compilePredicate(sub.Where)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(cond)
	}
	sb.WriteString(")")
	return sb.String(), nil
}

func (b *builder) compileAnd(and queryir.And) (string, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil // vacuous truth
	}

	parts := make([]string, 0, len(and.Predicates))
	for _, pred := range and.Predicates {
		sql, err := b.compilePredicate(pred)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}
	return strings.Join(parts, " AND "), nil
}

// compileOrder renders the ORDER BY list with the mandatory id tiebreaker.
func compileOrder(order []queryir.Order) (string, error) {
	parts := make([]string, 0, len(order)+1)
	for _, o := range order {
		if err := checkColumn(o.Field); err != nil {
			return "", err
		}
		if o.Field == "id" {
			continue // tiebreaker below
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, o.Field+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", "), nil
}

func checkTable(table string) error {
	if !queryir.ValidIdent(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

func checkColumn(col string) error {
	if !queryir.ValidIdent(col) {
		return fmt.Errorf("invalid column name %q", col)
	}
	return nil
}
