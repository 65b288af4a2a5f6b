package examdb

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// MissPolicy selects what a lookup returns when no row matches.
type MissPolicy int

const (
	// FailOnMiss returns a *NotFoundError.
	FailOnMiss MissPolicy = iota

	// SentinelOnMiss returns a well-formed value with no surrogate id.
	SentinelOnMiss
)

// String returns the policy name.
func (p MissPolicy) String() string {
	switch p {
	case FailOnMiss:
		return "fail"
	case SentinelOnMiss:
		return "sentinel"
	default:
		return "MissPolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

// entityKind binds one entity type to its table and identity rules.
// K is the natural key, E the hydrated value.
type entityKind[K any, E any] struct {
	name   string
	table  string
	onMiss MissPolicy

	// key maps a natural key onto the columns that identify the row.
	key func(K) record.Fields

	decode func(record.Row) (E, error)

	// sentinel builds the miss value; required when onMiss is SentinelOnMiss.
	sentinel func(K) E
}

// lookup finds the row for key and applies the miss policy.
func (k entityKind[K, E]) lookup(ctx context.Context, st store.Store, key K) (E, error) {
	e, found, err := k.find(ctx, st, key)
	if err != nil || found {
		return e, err
	}
	if k.onMiss == SentinelOnMiss {
		return k.sentinel(key), nil
	}
	return e, &NotFoundError{Entity: k.name, Key: describeKey(k.key(key))}
}

// find is lookup without a miss policy: found reports whether a row exists.
func (k entityKind[K, E]) find(ctx context.Context, st store.Store, key K) (e E, found bool, err error) {
	row, found, err := st.FindOne(ctx, k.table, queryir.FieldsEqual(k.key(key)))
	if err != nil {
		return e, false, fmt.Errorf("get %s: %w", k.name, err)
	}
	if !found {
		return e, false, nil
	}
	e, err = k.decodeRow(row)
	return e, err == nil, err
}

// byID finds a row by surrogate id, failing on a miss.
func (k entityKind[K, E]) byID(ctx context.Context, st store.Store, id int64) (e E, err error) {
	row, found, err := st.FindOne(ctx, k.table, queryir.EqInt("id", id))
	if err != nil {
		return e, fmt.Errorf("get %s: %w", k.name, err)
	}
	if !found {
		return e, &NotFoundError{Entity: k.name, Key: "id=" + strconv.FormatInt(id, 10)}
	}
	return k.decodeRow(row)
}

// upsert inserts key+payload when no row has key, otherwise overwrites the
// payload columns of the existing row. Find and write share one transaction.
func (k entityKind[K, E]) upsert(ctx context.Context, st store.Store, key K, payload record.Fields) (e E, err error) {
	keyFields := k.key(key)
	var row record.Row

	err = st.Atomic(ctx, lockKey(k.table, keyFields), func(ctx context.Context, tx store.Store) error {
		existing, found, err := tx.FindOne(ctx, k.table, queryir.FieldsEqual(keyFields))
		if err != nil {
			return err
		}

		if !found {
			fields := keyFields.Merge(payload)
			id, err := tx.Insert(ctx, k.table, fields)
			if err != nil {
				return err
			}
			slog.Debug("entity created", "entity", k.name, "id", id)
			row = record.Row{ID: id, Fields: fields}
			return nil
		}

		if err := tx.Update(ctx, k.table, existing.ID, payload); err != nil {
			return err
		}
		row = record.Row{ID: existing.ID, Fields: existing.Fields.Merge(payload)}
		return nil
	})
	if err != nil {
		return e, fmt.Errorf("put %s: %w", k.name, err)
	}
	return k.decodeRow(row)
}

// firstWrite inserts key+payload only when no row has key. An existing row
// is returned unmodified and created is false. admit, when set, runs only on
// the insert branch, so a payload it rejects cannot hide an existing row.
func (k entityKind[K, E]) firstWrite(ctx context.Context, st store.Store, key K, payload record.Fields, admit func() error) (e E, created bool, err error) {
	keyFields := k.key(key)
	var row record.Row

	err = st.Atomic(ctx, lockKey(k.table, keyFields), func(ctx context.Context, tx store.Store) error {
		existing, found, err := tx.FindOne(ctx, k.table, queryir.FieldsEqual(keyFields))
		if err != nil {
			return err
		}
		if found {
			row = existing
			return nil
		}
		if admit != nil {
			if err := admit(); err != nil {
				return err
			}
		}

		fields := keyFields.Merge(payload)
		id, err := tx.Insert(ctx, k.table, fields)
		if err != nil {
			return err
		}
		slog.Debug("entity created", "entity", k.name, "id", id)
		row = record.Row{ID: id, Fields: fields}
		created = true
		return nil
	})
	if err != nil {
		return e, false, fmt.Errorf("create %s: %w", k.name, err)
	}
	e, err = k.decodeRow(row)
	return e, created, err
}

// create appends a row unconditionally. Used by entities without a natural key.
func (k entityKind[K, E]) create(ctx context.Context, st store.Store, fields record.Fields) (e E, err error) {
	id, err := st.Insert(ctx, k.table, fields)
	if err != nil {
		return e, fmt.Errorf("create %s: %w", k.name, err)
	}
	slog.Debug("entity created", "entity", k.name, "id", id)
	return k.decodeRow(record.Row{ID: id, Fields: fields})
}

// list returns every row matching where, decoded, in order then id order.
func (k entityKind[K, E]) list(ctx context.Context, st store.Store, where queryir.Predicate, order ...queryir.Order) ([]E, error) {
	rows, err := st.FindAll(ctx, k.table, where, order...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", k.name, err)
	}

	result := make([]E, 0, len(rows))
	for _, row := range rows {
		e, err := k.decodeRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

func (k entityKind[K, E]) decodeRow(row record.Row) (E, error) {
	e, err := k.decode(row)
	if err != nil {
		return e, fmt.Errorf("decode %s %d: %w", k.name, row.ID, err)
	}
	return e, nil
}

// noKey is the natural key of entities identified by surrogate id only.
type noKey struct{}

// describeKey renders key columns as "a=1 b=\"x\"" in column order.
func describeKey(fields record.Fields) string {
	parts := make([]string, 0, len(fields))
	for _, name := range fields.SortedKeys() {
		parts = append(parts, name+"="+formatValue(fields[name]))
	}
	return strings.Join(parts, " ")
}

func lockKey(table string, keyFields record.Fields) string {
	return table + "/" + describeKey(keyFields)
}

func formatValue(v record.Value) string {
	switch val := v.(type) {
	case record.Int:
		return strconv.FormatInt(int64(val), 10)
	case record.String:
		return strconv.Quote(string(val))
	default:
		return "NULL"
	}
}
