package examdb

import (
	"context"
	"fmt"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// UserReview assigns a reviewer to the answer of one assignment.
type UserReview struct {
	ID             int64 `json:"id"`
	UserID         int64 `json:"userid"`
	UserQuestionID int64 `json:"userquestionid"`
}

type userReviewPayload struct {
	ReviewerID int64 `validate:"gt=0"`
	UQID       int64 `validate:"gt=0"`
}

var userReviewKind = entityKind[noKey, UserReview]{
	name:   "review assignment",
	table:  "userreviews",
	onMiss: FailOnMiss,
	decode: decodeUserReview,
}

func decodeUserReview(row record.Row) (UserReview, error) {
	userID, err := row.Fields.Int("userid")
	if err != nil {
		return UserReview{}, err
	}
	uqID, err := row.Fields.Int("userquestionid")
	if err != nil {
		return UserReview{}, err
	}
	return UserReview{ID: row.ID, UserID: userID, UserQuestionID: uqID}, nil
}

// ReviewAssignments records who reviews which assignment.
type ReviewAssignments struct {
	st store.Store
}

// Create assigns reviewerID to review assignment uqID. Every call adds a
// row. The reviewer may be the author of the answer.
func (r *ReviewAssignments) Create(ctx context.Context, reviewerID, uqID int64) (UserReview, error) {
	if err := check(userReviewKind.name, userReviewPayload{ReviewerID: reviewerID, UQID: uqID}); err != nil {
		return UserReview{}, err
	}
	return userReviewKind.create(ctx, r.st, record.Fields{
		"userid":         record.Int(reviewerID),
		"userquestionid": record.Int(uqID),
	})
}

// IsAssigned reports whether review assignment urID belongs to reviewerID.
// A urID that does not exist belongs to nobody.
func (r *ReviewAssignments) IsAssigned(ctx context.Context, reviewerID, urID int64) (bool, error) {
	row, found, err := r.st.FindOne(ctx, userReviewKind.table, queryir.EqInt("id", urID))
	if err != nil {
		return false, fmt.Errorf("is assigned: %w", err)
	}
	if !found {
		return false, nil
	}
	owner, err := row.Fields.Int("userid")
	if err != nil {
		return false, fmt.Errorf("is assigned: %w", err)
	}
	return owner == reviewerID, nil
}

// ForReviewer returns reviewerID's review assignments, oldest first.
func (r *ReviewAssignments) ForReviewer(ctx context.Context, reviewerID int64) ([]UserReview, error) {
	return userReviewKind.list(ctx, r.st, queryir.EqInt("userid", reviewerID))
}

// ForAssignment returns the review assignments of uqID, oldest first.
func (r *ReviewAssignments) ForAssignment(ctx context.Context, uqID int64) ([]UserReview, error) {
	return userReviewKind.list(ctx, r.st, queryir.EqInt("userquestionid", uqID))
}
