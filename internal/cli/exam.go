package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/examdb"
)

// NewExamCommand creates the exam command group.
func NewExamCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Create and control the exam",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create the exam; if it already exists it is shown unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				exam, err := db.Exams.Create(ctx, args[0])
				if err != nil {
					return wrapDomainError("failed to create exam", err)
				}
				return out.Success(exam, examText(exam))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the exam",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				exam, err := db.Exams.Get(ctx)
				if err != nil {
					return wrapDomainError("failed to get exam", err)
				}
				return out.Success(exam, examText(exam))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "state <stopped|running|reviewing>",
		Short: "Move the exam to another state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				exam, err := db.Exams.Get(ctx)
				if err != nil {
					return wrapDomainError("failed to get exam", err)
				}
				if err := db.Exams.SetState(ctx, &exam, examdb.ExamState(args[0])); err != nil {
					return wrapDomainError("failed to set exam state", err)
				}
				return out.Success(exam, examText(exam))
			})
		},
	})

	return cmd
}
