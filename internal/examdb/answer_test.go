package examdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswers_Put(t *testing.T) {
	f := newFixture(t)

	a, err := f.db.Answers.Put(context.Background(), f.uq1.ID, "Good answer")
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, f.uq1.ID, a.UQID)
	assert.Equal(t, "Good answer", a.Text)
}

func TestAnswers_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.Answers.Put(ctx, f.uq2.ID, "Good answer2")
	require.NoError(t, err)
	_, err = f.db.Answers.Put(ctx, f.uq3.ID, "Good answer3")
	require.NoError(t, err)

	a, err := f.db.Answers.Get(ctx, f.uq2.ID)
	require.NoError(t, err)
	assert.Equal(t, f.uq2.ID, a.UQID)
	assert.Equal(t, "Good answer2", a.Text)

	a, err = f.db.Answers.Get(ctx, f.uq3.ID)
	require.NoError(t, err)
	assert.Equal(t, f.uq3.ID, a.UQID)
	assert.Equal(t, "Good answer3", a.Text)

	_, err = f.db.Answers.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnswers_PutUpdatesText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.db.Answers.Put(ctx, f.uq1.ID, "Good answer")
	require.NoError(t, err)
	_, err = f.db.Answers.Put(ctx, f.uq1.ID, "Good answer1")
	require.NoError(t, err)

	a, err := f.db.Answers.Get(ctx, f.uq1.ID)
	require.NoError(t, err)
	assert.Equal(t, Answer{ID: first.ID, UQID: f.uq1.ID, Text: "Good answer1"}, a)
}

func TestAnswers_ToQuestion(t *testing.T) {
	f := newFixture(t)

	q, err := f.db.Answers.ToQuestion(context.Background(), f.uq1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.Number)
	assert.Equal(t, int64(1), q.Variant)
	assert.Equal(t, "bla1", q.Text)
}

func TestAnswers_ToAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.Answers.Put(ctx, f.uq1.ID, "Good answer")
	require.NoError(t, err)

	a, ok, err := f.db.Answers.ToAnswer(ctx, f.uq1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.uq1.ID, a.UQID)
	assert.Equal(t, "Good answer", a.Text)

	_, ok, err = f.db.Answers.ToAnswer(ctx, f.uq2)
	require.NoError(t, err)
	assert.False(t, ok, "unanswered assignment is not an error")
}

func TestAnswers_Question(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.db.Answers.Put(ctx, f.uq2.ID, "Good answer")
	require.NoError(t, err)

	q, err := f.db.Answers.Question(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), q.Number)
	assert.Equal(t, int64(1), q.Variant)
	assert.Equal(t, "bla2", q.Text)
}

func TestAnswers_QuestionDanglingAssignment(t *testing.T) {
	f := newFixture(t)

	_, err := f.db.Answers.Question(context.Background(), Answer{UQID: 999})
	assert.True(t, IsNotFound(err))
}

func TestAnswers_AllAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.Answers.Put(ctx, f.uq2.ID, "Good answer2")
	require.NoError(t, err)

	answers, err := f.db.Answers.AllAnswers(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, f.uq2.ID, answers[0].UQID)
	assert.Equal(t, "Good answer2", answers[0].Text)

	_, err = f.db.Answers.Put(ctx, f.uq2.ID, "Good answer")
	require.NoError(t, err)
	answers, err = f.db.Answers.AllAnswers(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "Good answer", answers[0].Text)

	// Answered out of order; listed in assignment order.
	_, err = f.db.Answers.Put(ctx, f.uq3.ID, "Good answer3")
	require.NoError(t, err)
	_, err = f.db.Answers.Put(ctx, f.uq1.ID, "Good answer1")
	require.NoError(t, err)

	answers, err = f.db.Answers.AllAnswers(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, []int64{f.uq1.ID, f.uq2.ID, f.uq3.ID}, ids(answers, func(a Answer) int64 { return a.UQID }))
	assert.Equal(t, "Good answer3", answers[2].Text)
}

func TestAnswers_AllAnswersNoAssignments(t *testing.T) {
	f := newFixture(t)

	answers, err := f.db.Answers.AllAnswers(context.Background(), f.reviewer.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestAnswers_GetReturnsNFCText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// "e" followed by a combining acute accent composes to "é".
	_, err := f.db.Answers.Put(ctx, f.uq1.ID, "cafe\u0301")
	require.NoError(t, err)

	a, err := f.db.Answers.Get(ctx, f.uq1.ID)
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", a.Text)
}
