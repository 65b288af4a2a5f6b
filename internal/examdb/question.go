package examdb

import (
	"context"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// QuestionKey identifies a question: its number within the exam and which
// variant of that number it is.
type QuestionKey struct {
	Number  int64
	Variant int64
}

// Question is one catalog entry.
type Question struct {
	ID      int64  `json:"id"`
	Number  int64  `json:"number"`
	Variant int64  `json:"variant"`
	Text    string `json:"text"`
}

var questionKind = entityKind[QuestionKey, Question]{
	name:   "question",
	table:  "questions",
	onMiss: FailOnMiss,
	key: func(k QuestionKey) record.Fields {
		return record.Fields{
			"number":  record.Int(k.Number),
			"variant": record.Int(k.Variant),
		}
	},
	decode: decodeQuestion,
}

func decodeQuestion(row record.Row) (Question, error) {
	number, err := row.Fields.Int("number")
	if err != nil {
		return Question{}, err
	}
	variant, err := row.Fields.Int("variant")
	if err != nil {
		return Question{}, err
	}
	text, err := row.Fields.String("text")
	if err != nil {
		return Question{}, err
	}
	return Question{ID: row.ID, Number: number, Variant: variant, Text: text}, nil
}

// Questions is the question catalog.
type Questions struct {
	st store.Store
}

// Get returns the question (number, variant), or a *NotFoundError.
func (r *Questions) Get(ctx context.Context, number, variant int64) (Question, error) {
	return questionKind.lookup(ctx, r.st, QuestionKey{Number: number, Variant: variant})
}

// Put creates the question or replaces its text. The stored text is in NFC.
func (r *Questions) Put(ctx context.Context, number, variant int64, text string) (Question, error) {
	return questionKind.upsert(ctx, r.st, QuestionKey{Number: number, Variant: variant}, record.Fields{
		"text": record.String(normText(text)),
	})
}

// ByID returns the question with surrogate id id, or a *NotFoundError.
func (r *Questions) ByID(ctx context.Context, id int64) (Question, error) {
	return questionKind.byID(ctx, r.st, id)
}

// List returns the catalog ordered by number, then variant.
func (r *Questions) List(ctx context.Context) ([]Question, error) {
	return questionKind.list(ctx, r.st, queryir.All(),
		queryir.Order{Field: "number"},
		queryir.Order{Field: "variant"},
	)
}
