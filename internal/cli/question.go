package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/catalog"
	"github.com/roach88/peerexam/internal/examdb"
)

// NewQuestionCommand creates the question command group.
func NewQuestionCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Manage the question catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put <number> <variant> <text>",
		Short: "Add a question or replace its text",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, variant, err := parseQuestionKey(args)
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				q, err := db.Questions.Put(ctx, number, variant, args[2])
				if err != nil {
					return wrapDomainError("failed to put question", err)
				}
				return out.Success(q, questionText(q))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <number> <variant>",
		Short: "Show a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, variant, err := parseQuestionKey(args)
			if err != nil {
				return err
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				q, err := db.Questions.Get(ctx, number, variant)
				if err != nil {
					return wrapDomainError("failed to get question", err)
				}
				return out.Success(q, questionText(q))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the catalog by number and variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				qs, err := db.Questions.List(ctx)
				if err != nil {
					return wrapDomainError("failed to list questions", err)
				}
				return out.Success(qs, listText(qs, questionText))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Import questions from a YAML catalog",
		Long: `Import questions from a YAML catalog. The whole file is validated
before anything is written; existing questions get the catalog text.

Example catalog:
  questions:
    - number: 1
      variant: 1
      text: "What is a monad?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				qs, err := catalog.Import(ctx, db.Questions, c)
				if err != nil {
					return wrapDomainError("failed to import catalog", err)
				}
				return out.Success(qs, fmt.Sprintf("imported %s", formatCount(len(qs), "question")))
			})
		},
	})

	return cmd
}

func parseQuestionKey(args []string) (number, variant int64, err error) {
	if number, err = parseInt("number", args[0]); err != nil {
		return 0, 0, err
	}
	if variant, err = parseInt("variant", args[1]); err != nil {
		return 0, 0, err
	}
	return number, variant, nil
}
