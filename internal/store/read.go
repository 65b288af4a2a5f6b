package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
)

// FindOne returns the matching row with the lowest surrogate id.
func (s *SQLStore) FindOne(ctx context.Context, table string, where queryir.Predicate) (row record.Row, found bool, err error) {
	defer s.metrics.observe(table, opFindOne, time.Now(), &err)

	query, params, err := s.compiler.Select(table, where, nil, 1)
	if err != nil {
		return record.Row{}, false, fmt.Errorf("find one %s: %w", table, err)
	}

	rows, err := s.q.QueryContext(ctx, query, params...)
	if err != nil {
		return record.Row{}, false, fmt.Errorf("find one %s: %w", table, err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return record.Row{}, false, fmt.Errorf("find one %s: %w", table, err)
	}
	if len(result) == 0 {
		return record.Row{}, false, nil
	}
	return result[0], true, nil
}

// FindAll returns every matching row. Results are ordered by order, then by
// surrogate id, so rows with equal sort keys come back in creation order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *SQLStore) FindAll(ctx context.Context, table string, where queryir.Predicate, order ...queryir.Order) (result []record.Row, err error) {
	defer s.metrics.observe(table, opFindAll, time.Now(), &err)

	query, params, err := s.compiler.Select(table, where, order, 0)
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", table, err)
	}

	rows, err := s.q.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", table, err)
	}
	defer rows.Close()

	result, err = scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", table, err)
	}
	return result, nil
}

// Count returns the number of matching rows.
func (s *SQLStore) Count(ctx context.Context, table string, where queryir.Predicate) (n int, err error) {
	defer s.metrics.observe(table, opCount, time.Now(), &err)

	query, params, err := s.compiler.Count(table, where)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	var count int64
	if err := s.q.QueryRowContext(ctx, query, params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return int(count), nil
}

// scanRows reads every row into record.Row, splitting the id column off.
func scanRows(rows *sql.Rows) ([]record.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	result := []record.Row{}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row, err := toRow(cols, raw)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

func toRow(cols []string, raw []any) (record.Row, error) {
	row := record.Row{Fields: make(record.Fields, len(cols)-1)}
	for i, col := range cols {
		v, err := record.FromDriver(raw[i])
		if err != nil {
			return record.Row{}, fmt.Errorf("column %s: %w", col, err)
		}
		if col != "id" {
			row.Fields[col] = v
			continue
		}
		id, ok := v.(record.Int)
		if !ok {
			return record.Row{}, fmt.Errorf("column id: want integer, got %T", v)
		}
		row.ID = int64(id)
	}
	return row, nil
}
