package examdb

import (
	"context"
	"fmt"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// Review is the grade and comment for one review assignment.
type Review struct {
	ID    int64  `json:"id"`
	RevID int64  `json:"revid"`
	Grade int64  `json:"grade"`
	Text  string `json:"text"`
}

type reviewPayload struct {
	RevID int64 `validate:"gt=0"`
}

var reviewKind = entityKind[int64, Review]{
	name:   "review",
	table:  "reviews",
	onMiss: FailOnMiss,
	key: func(revID int64) record.Fields {
		return record.Fields{"revid": record.Int(revID)}
	},
	decode: decodeReview,
}

func decodeReview(row record.Row) (Review, error) {
	revID, err := row.Fields.Int("revid")
	if err != nil {
		return Review{}, err
	}
	grade, err := row.Fields.Int("grade")
	if err != nil {
		return Review{}, err
	}
	text, err := row.Fields.String("text")
	if err != nil {
		return Review{}, err
	}
	return Review{ID: row.ID, RevID: revID, Grade: grade, Text: text}, nil
}

// Reviews stores one grade per review assignment.
type Reviews struct {
	st store.Store
}

// Get returns the review for review assignment revID, or a *NotFoundError.
func (r *Reviews) Get(ctx context.Context, revID int64) (Review, error) {
	return reviewKind.lookup(ctx, r.st, revID)
}

// Put creates the review for revID or replaces its grade and text. The
// stored text is in NFC.
func (r *Reviews) Put(ctx context.Context, revID, grade int64, text string) (Review, error) {
	if err := check(reviewKind.name, reviewPayload{RevID: revID}); err != nil {
		return Review{}, err
	}
	return reviewKind.upsert(ctx, r.st, revID, record.Fields{
		"grade": record.Int(grade),
		"text":  record.String(normText(text)),
	})
}

// NReviews counts the reviews reviewerID has completed. Assignments without
// a review row do not count.
func (r *Reviews) NReviews(ctx context.Context, reviewerID int64) (int, error) {
	n, err := r.st.Count(ctx, reviewKind.table,
		queryir.InSubquery("revid", userReviewKind.table, "id", queryir.EqInt("userid", reviewerID)))
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// AllReviews returns the reviews of a, ordered by the creation of their
// review assignments. Assignments not yet reviewed are skipped.
func (r *Reviews) AllReviews(ctx context.Context, a Answer) ([]Review, error) {
	return reviewKind.list(ctx, r.st,
		queryir.InSubquery("revid", userReviewKind.table, "id", queryir.EqInt("userquestionid", a.UQID)),
		queryir.Order{Field: "revid"},
	)
}
