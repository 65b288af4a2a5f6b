package examdb

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestions_Put(t *testing.T) {
	db, _ := newTestDB(t)

	q, err := db.Questions.Put(context.Background(), 1, 1, "bla")
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Equal(t, Question{ID: q.ID, Number: 1, Variant: 1, Text: "bla"}, q)
}

func TestQuestions_Get(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	for i, text := range []string{"bla1", "bla2", "bla3"} {
		_, err := db.Questions.Put(ctx, int64(i+1), 1, text)
		require.NoError(t, err)
	}

	q, err := db.Questions.Get(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), q.Number)
	assert.Equal(t, int64(1), q.Variant)
	assert.Equal(t, "bla2", q.Text)
}

func TestQuestions_PutUpdatesText(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	first, err := db.Questions.Put(ctx, 1, 1, "bla")
	require.NoError(t, err)
	second, err := db.Questions.Put(ctx, 1, 1, "bla1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	q, err := db.Questions.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Question{ID: first.ID, Number: 1, Variant: 1, Text: "bla1"}, q)
}

func TestQuestions_KeyIsNumberAndVariant(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	_, err := db.Questions.Put(ctx, 42, 13, "bla1")
	require.NoError(t, err)
	_, err = db.Questions.Put(ctx, 1, 1, "bla2")
	require.NoError(t, err)
	_, err = db.Questions.Put(ctx, 42, 1, "bla3")
	require.NoError(t, err)

	q, err := db.Questions.Get(ctx, 42, 13)
	require.NoError(t, err)
	assert.Equal(t, "bla1", q.Text)

	q, err = db.Questions.Get(ctx, 42, 1)
	require.NoError(t, err)
	assert.Equal(t, "bla3", q.Text)
}

func TestQuestions_GetUnregistered(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	_, err := db.Questions.Put(ctx, 1, 1, "bla")
	require.NoError(t, err)

	_, err = db.Questions.Get(ctx, 1, 4)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.Questions.Get(ctx, 4, 1)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "question", nf.Entity)
	assert.Equal(t, "number=4 variant=1", nf.Key)
	assert.EqualError(t, err, "question number=4 variant=1: not found")
}

func TestQuestions_ByID(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	put, err := db.Questions.Put(ctx, 7, 2, "bla")
	require.NoError(t, err)

	q, err := db.Questions.ByID(ctx, put.ID)
	require.NoError(t, err)
	assert.Equal(t, put, q)

	_, err = db.Questions.ByID(ctx, put.ID+100)
	assert.True(t, IsNotFound(err))
}

func TestQuestions_ListOrderedByNumberThenVariant(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	keys := []QuestionKey{{3, 1}, {1, 2}, {2, 1}, {1, 1}}
	for _, k := range keys {
		_, err := db.Questions.Put(ctx, k.Number, k.Variant, "bla")
		require.NoError(t, err)
	}

	list, err := db.Questions.List(ctx)
	require.NoError(t, err)

	got := make([]QuestionKey, len(list))
	for i, q := range list {
		got[i] = QuestionKey{Number: q.Number, Variant: q.Variant}
	}
	want := []QuestionKey{{1, 1}, {1, 2}, {2, 1}, {3, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
}
