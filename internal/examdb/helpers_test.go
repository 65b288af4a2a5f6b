package examdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/peerexam/internal/store"
	"github.com/roach88/peerexam/internal/testutil"
)

// newTestDB returns an entity layer over a fresh SQLite file.
func newTestDB(t *testing.T) (*DB, *store.SQLStore) {
	t.Helper()
	st := testutil.OpenStore(t)
	return New(st), st
}

// fixture is a user with three assigned questions (numbers 1, 2, 3) and a
// reviewer, the setup most derived-query tests start from.
type fixture struct {
	db       *DB
	st       *store.SQLStore
	user     User
	reviewer User
	exam     Exam
	uq1      UserQuestion
	uq2      UserQuestion
	uq3      UserQuestion
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, st := newTestDB(t)

	f := &fixture{db: db, st: st}
	var err error
	f.user, err = db.Users.Put(ctx, 42, PrivRegular, "IVAN")
	require.NoError(t, err)
	f.reviewer, err = db.Users.Put(ctx, 43, PrivRegular, "IVAN2")
	require.NoError(t, err)
	f.exam, err = db.Exams.Create(ctx, "exam")
	require.NoError(t, err)

	uqs := make([]UserQuestion, 3)
	for i := range uqs {
		q, err := db.Questions.Put(ctx, int64(i+1), 1, "bla"+string(rune('1'+i)))
		require.NoError(t, err)
		uqs[i], err = db.Assignments.Create(ctx, f.exam.ID, f.user.ID, q.ID)
		require.NoError(t, err)
	}
	f.uq1, f.uq2, f.uq3 = uqs[0], uqs[1], uqs[2]
	return f
}

// ids collects one id per item in input order.
func ids[E any](items []E, id func(E) int64) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}
