package examdb

import (
	"context"
	"fmt"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// UserQuestion assigns one question of one exam to one user.
type UserQuestion struct {
	ID         int64 `json:"id"`
	ExamID     int64 `json:"examid"`
	UserID     int64 `json:"userid"`
	QuestionID int64 `json:"questionid"`
}

type assignmentPayload struct {
	ExamID     int64 `validate:"gt=0"`
	UserID     int64 `validate:"gt=0"`
	QuestionID int64 `validate:"gt=0"`
}

var assignmentKind = entityKind[noKey, UserQuestion]{
	name:   "assignment",
	table:  "userquestions",
	onMiss: FailOnMiss,
	decode: decodeUserQuestion,
}

func decodeUserQuestion(row record.Row) (UserQuestion, error) {
	var uq UserQuestion
	var err error
	uq.ID = row.ID
	if uq.ExamID, err = row.Fields.Int("examid"); err != nil {
		return UserQuestion{}, err
	}
	if uq.UserID, err = row.Fields.Int("userid"); err != nil {
		return UserQuestion{}, err
	}
	if uq.QuestionID, err = row.Fields.Int("questionid"); err != nil {
		return UserQuestion{}, err
	}
	return uq, nil
}

// Assignments records which questions each user got.
type Assignments struct {
	st store.Store
}

// Create assigns questionID of examID to userID. Every call adds a row, even
// for a tuple that is already assigned.
func (r *Assignments) Create(ctx context.Context, examID, userID, questionID int64) (UserQuestion, error) {
	p := assignmentPayload{ExamID: examID, UserID: userID, QuestionID: questionID}
	if err := check(assignmentKind.name, p); err != nil {
		return UserQuestion{}, err
	}
	return assignmentKind.create(ctx, r.st, record.Fields{
		"examid":     record.Int(examID),
		"userid":     record.Int(userID),
		"questionid": record.Int(questionID),
	})
}

// ByID returns the assignment with surrogate id id, or a *NotFoundError.
func (r *Assignments) ByID(ctx context.Context, id int64) (UserQuestion, error) {
	return assignmentKind.byID(ctx, r.st, id)
}

// ForUser returns every assignment of userID across exams, oldest first.
func (r *Assignments) ForUser(ctx context.Context, userID int64) ([]UserQuestion, error) {
	return assignmentKind.list(ctx, r.st, queryir.EqInt("userid", userID))
}

// NthQuestion returns the assignment of (examID, userID) whose question has
// number n. It matches on the question's number field; n is not a position
// in the assignment list. If several assignments match, the oldest wins.
func (r *Assignments) NthQuestion(ctx context.Context, examID, userID, n int64) (UserQuestion, bool, error) {
	row, found, err := r.st.FindOne(ctx, assignmentKind.table, queryir.All(
		queryir.EqInt("examid", examID),
		queryir.EqInt("userid", userID),
		queryir.InSubquery("questionid", questionKind.table, "id", queryir.EqInt("number", n)),
	))
	if err != nil {
		return UserQuestion{}, false, fmt.Errorf("nth question: %w", err)
	}
	if !found {
		return UserQuestion{}, false, nil
	}

	uq, err := assignmentKind.decodeRow(row)
	if err != nil {
		return UserQuestion{}, false, err
	}
	return uq, true, nil
}
