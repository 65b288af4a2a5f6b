package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/examdb"
)

// NewUserCommand creates the user command group.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register and inspect users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put <userid> <regular|privileged> <username>",
		Short: "Register a user or update its level and name",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseInt("userid", args[0])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				user, err := db.Users.Put(ctx, userID, examdb.PrivLevel(args[1]), args[2])
				if err != nil {
					return wrapDomainError("failed to put user", err)
				}
				return out.Success(user, userText(user))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <userid>",
		Short: "Show a user; unknown users show as nonexistent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseInt("userid", args[0])
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				user, err := db.Users.Get(ctx, userID)
				if err != nil {
					return wrapDomainError("failed to get user", err)
				}
				return out.Success(user, userText(user))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered users in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				users, err := db.Users.List(ctx)
				if err != nil {
					return wrapDomainError("failed to list users", err)
				}
				return out.Success(users, listText(users, userText))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "answers <userid>",
		Short: "List a user's answers in assignment order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				user, err := resolveUser(ctx, db, args[0])
				if err != nil {
					return err
				}
				answers, err := db.Answers.AllAnswers(ctx, user.ID)
				if err != nil {
					return wrapDomainError("failed to list answers", err)
				}
				return out.Success(answers, listText(answers, answerText))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reviews <userid>",
		Short: "Count the reviews a user has completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				user, err := resolveUser(ctx, db, args[0])
				if err != nil {
					return err
				}
				n, err := db.Reviews.NReviews(ctx, user.ID)
				if err != nil {
					return wrapDomainError("failed to count reviews", err)
				}
				data := map[string]any{"userid": user.UserID, "reviews": n}
				return out.Success(data, formatCount(n, "completed review"))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "nth <userid> <number>",
		Short: "Show the user's assignment for question number n of the exam",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("number", args[1])
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
				uq, ok, err := db.Assignments.NthQuestion(ctx, exam.ID, user.ID, n)
				if err != nil {
					return wrapDomainError("failed to find question", err)
				}
				if !ok {
					return wrapDomainError("failed to find question", &examdb.NotFoundError{
						Entity: "assignment",
						Key:    "userid=" + args[0] + " number=" + args[1],
					})
				}
				return out.Success(uq, assignmentText(uq))
			})
		},
	})

	return cmd
}
