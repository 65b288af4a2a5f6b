package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/examdb"
)

// NewInitCommand creates the init command.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or migrate the database",
		Long: `Open the configured database, creating tables and running pending
migrations. Safe to run repeatedly.

Example:
  peerexam init --dsn ./exam.db
  PEEREXAM_DATABASE_DRIVER=pgx PEEREXAM_DATABASE_DSN=postgres://localhost/exam peerexam init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error {
				data := map[string]string{
					"driver": opts.cfg.Database.Driver,
					"dsn":    opts.cfg.Database.DSN,
				}
				return out.Success(data, fmt.Sprintf("database ready (%s)", opts.cfg.Database.Driver))
			})
		},
	}
}
