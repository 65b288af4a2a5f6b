package examdb

import (
	"context"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// Answer is a user's answer to one assignment.
type Answer struct {
	ID   int64  `json:"id"`
	UQID int64  `json:"uqid"`
	Text string `json:"text"`
}

type answerPayload struct {
	UQID int64 `validate:"gt=0"`
}

var answerKind = entityKind[int64, Answer]{
	name:   "answer",
	table:  "answers",
	onMiss: FailOnMiss,
	key: func(uqID int64) record.Fields {
		return record.Fields{"uqid": record.Int(uqID)}
	},
	decode: decodeAnswer,
}

func decodeAnswer(row record.Row) (Answer, error) {
	uqID, err := row.Fields.Int("uqid")
	if err != nil {
		return Answer{}, err
	}
	text, err := row.Fields.String("text")
	if err != nil {
		return Answer{}, err
	}
	return Answer{ID: row.ID, UQID: uqID, Text: text}, nil
}

// Answers stores one answer per assignment.
type Answers struct {
	st          store.Store
	questions   *Questions
	assignments *Assignments
}

// Get returns the answer to assignment uqID, or a *NotFoundError.
func (r *Answers) Get(ctx context.Context, uqID int64) (Answer, error) {
	return answerKind.lookup(ctx, r.st, uqID)
}

// Put creates the answer to uqID or replaces its text. The stored text is in
// NFC, so Get may return different bytes than were passed.
func (r *Answers) Put(ctx context.Context, uqID int64, text string) (Answer, error) {
	if err := check(answerKind.name, answerPayload{UQID: uqID}); err != nil {
		return Answer{}, err
	}
	return answerKind.upsert(ctx, r.st, uqID, record.Fields{
		"text": record.String(normText(text)),
	})
}

// ToQuestion resolves the question assigned by uq.
func (r *Answers) ToQuestion(ctx context.Context, uq UserQuestion) (Question, error) {
	return r.questions.ByID(ctx, uq.QuestionID)
}

// ToAnswer returns the answer to uq, if one was given yet.
func (r *Answers) ToAnswer(ctx context.Context, uq UserQuestion) (Answer, bool, error) {
	return answerKind.find(ctx, r.st, uq.ID)
}

// Question resolves the question a answers.
func (r *Answers) Question(ctx context.Context, a Answer) (Question, error) {
	uq, err := r.assignments.ByID(ctx, a.UQID)
	if err != nil {
		return Question{}, err
	}
	return r.ToQuestion(ctx, uq)
}

// AllAnswers returns userID's answers ordered by the creation of the
// assignments they answer. Unanswered assignments are skipped. Assignment ids
// only grow, so uqid order is assignment creation order.
func (r *Answers) AllAnswers(ctx context.Context, userID int64) ([]Answer, error) {
	return answerKind.list(ctx, r.st,
		queryir.InSubquery("uqid", assignmentKind.table, "id", queryir.EqInt("userid", userID)),
		queryir.Order{Field: "uqid"},
	)
}
