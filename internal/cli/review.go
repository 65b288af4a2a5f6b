package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/examdb"
)

// NewReviewCommand creates the review command group.
func NewReviewCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Assign reviewers and record grades",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "assign <reviewer-userid> <assignment-id>",
		Short: "Assign a reviewer to an answered assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uqID, err := parseInt("assignment id", args[1])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				reviewer, err := resolveUser(ctx, db, args[0])
				if err != nil {
					return err
				}
				ur, err := db.ReviewAssignments.Create(ctx, reviewer.ID, uqID)
				if err != nil {
					return wrapDomainError("failed to assign reviewer", err)
				}
				return out.Success(ur, reviewAssignmentText(ur))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <reviewer-userid>",
		Short: "List a reviewer's review assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				reviewer, err := resolveUser(ctx, db, args[0])
				if err != nil {
					return err
				}
				urs, err := db.ReviewAssignments.ForReviewer(ctx, reviewer.ID)
				if err != nil {
					return wrapDomainError("failed to list review assignments", err)
				}
				return out.Success(urs, listText(urs, reviewAssignmentText))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "put <review-assignment-id> <grade> <text>",
		Short: "Grade a review assignment or replace the grade",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			revID, err := parseInt("review assignment id", args[0])
			if err != nil {
				return err
			}
			grade, err := parseInt("grade", args[1])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				r, err := db.Reviews.Put(ctx, revID, grade, args[2])
				if err != nil {
					return wrapDomainError("failed to put review", err)
				}
				return out.Success(r, reviewText(r))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <review-assignment-id>",
		Short: "Show a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			revID, err := parseInt("review assignment id", args[0])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				r, err := db.Reviews.Get(ctx, revID)
				if err != nil {
					return wrapDomainError("failed to get review", err)
				}
				return out.Success(r, reviewText(r))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check <reviewer-userid> <review-assignment-id>",
		Short: "Check whether a review assignment belongs to a reviewer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			urID, err := parseInt("review assignment id", args[1])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				reviewer, err := resolveUser(ctx, db, args[0])
				if err != nil {
					return err
				}
				ok, err := db.ReviewAssignments.IsAssigned(ctx, reviewer.ID, urID)
				if err != nil {
					return wrapDomainError("failed to check review assignment", err)
				}
				data := map[string]any{"userid": reviewer.UserID, "review_assignment": urID, "assigned": ok}
				text := fmt.Sprintf("review assignment %d is not assigned to user %d", urID, reviewer.UserID)
				if ok {
					text = fmt.Sprintf("review assignment %d is assigned to user %d", urID, reviewer.UserID)
				}
				return out.Success(data, text)
			})
		},
	})

	return cmd
}
