package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/examdb"
)

// NewAnswerCommand creates the answer command group.
func NewAnswerCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Record and inspect answers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put <assignment-id> <text>",
		Short: "Answer an assignment or replace the answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uqID, err := parseInt("assignment id", args[0])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				a, err := db.Answers.Put(ctx, uqID, args[1])
				if err != nil {
					return wrapDomainError("failed to put answer", err)
				}
				return out.Success(a, answerText(a))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <assignment-id>",
		Short: "Show the answer to an assignment and its question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uqID, err := parseInt("assignment id", args[0])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				a, err := db.Answers.Get(ctx, uqID)
				if err != nil {
					return wrapDomainError("failed to get answer", err)
				}
				q, err := db.Answers.Question(ctx, a)
				if err != nil {
					return wrapDomainError("failed to get question", err)
				}
				data := map[string]any{"answer": a, "question": q}
				return out.Success(data, questionText(q)+"\n"+answerText(a))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reviews <assignment-id>",
		Short: "List the completed reviews of an answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uqID, err := parseInt("assignment id", args[0])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				a, err := db.Answers.Get(ctx, uqID)
				if err != nil {
					return wrapDomainError("failed to get answer", err)
				}
				reviews, err := db.Reviews.AllReviews(ctx, a)
				if err != nil {
					return wrapDomainError("failed to list reviews", err)
				}
				return out.Success(reviews, listText(reviews, reviewText))
			})
		},
	})

	return cmd
}
