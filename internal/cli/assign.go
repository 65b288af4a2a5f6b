package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/examdb"
)

// NewAssignCommand creates the assign command.
func NewAssignCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <userid> <number> <variant>",
		Short: "Assign a question of the exam to a user",
		Long: `Assign question (number, variant) of the exam to a registered user.
Every call creates a new assignment, even for a pair already assigned.

Example:
  peerexam assign 42 1 2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, variant, err := parseQuestionKey(args[1:])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				user, err := resolveUser(ctx, db, args[0])
				if err != nil {
					return err
				}
				exam, err := db.Exams.Get(ctx)
				if err != nil {
					return wrapDomainError("failed to get exam", err)
				}
				q, err := db.Questions.Get(ctx, number, variant)
				if err != nil {
					return wrapDomainError("failed to get question", err)
				}
				uq, err := db.Assignments.Create(ctx, exam.ID, user.ID, q.ID)
				if err != nil {
					return wrapDomainError("failed to assign question", err)
				}
				return out.Success(uq, assignmentText(uq))
			})
		},
	}
}
