package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/peerexam/internal/config"
	"github.com/roach88/peerexam/internal/examdb"
	"github.com/roach88/peerexam/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	EnvFile    string
	Driver     string
	DSN        string

	// TraceIDs overrides the trace id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TraceIDs TraceIDGenerator

	cfg     *config.Config
	traceID string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the peerexam CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peerexam",
		Short: "peerexam - exam and peer review records",
		Long: `Manage the records of a peer-reviewed exam: users, the exam itself,
the question catalog, question assignments, answers, review assignments
and grades.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./peerexam.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading PEEREXAM_* variables")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver (sqlite3|pgx)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "database file or connection string")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewExamCommand(opts))
	cmd.AddCommand(NewQuestionCommand(opts))
	cmd.AddCommand(NewAssignCommand(opts))
	cmd.AddCommand(NewAnswerCommand(opts))
	cmd.AddCommand(NewReviewCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported through the output formatter.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, &RootOptions{}, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	out := opts.formatter(stdout, stderr)
	if !isValidFormat(out.Format) {
		out.Format = "text"
	}
	_ = out.Error(ErrorCode(err), err.Error(), nil)
	return GetExitCode(err)
}

// setup resolves configuration and installs the default logger.
func (o *RootOptions) setup(logOut io.Writer) error {
	overrides := map[string]any{}
	if o.Driver != "" {
		overrides["database.driver"] = o.Driver
	}
	if o.DSN != "" {
		overrides["database.dsn"] = o.DSN
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: o.ConfigFile,
		EnvFile:    o.EnvFile,
		Overrides:  overrides,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	o.cfg = cfg

	gen := o.TraceIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	o.traceID = gen.Generate()

	level := cfg.Log.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(logOut, handlerOpts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(logOut, handlerOpts)
	}
	slog.SetDefault(slog.New(handler).With("trace_id", o.traceID))
	return nil
}

func (o *RootOptions) formatter(stdout, stderr io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    stdout,
		ErrWriter: stderr,
		Verbose:   o.Verbose,
		TraceID:   o.traceID,
	}
}

// withDB opens the configured store, hands fn the entity layer, and closes
// the store afterwards.
func (o *RootOptions) withDB(cmd *cobra.Command, fn func(ctx context.Context, db *examdb.DB, out *OutputFormatter) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var storeOpts []store.Option
	var registry *prometheus.Registry
	if o.cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		storeOpts = append(storeOpts, store.WithMetrics(store.NewMetrics(registry)))
	}

	slog.Debug("opening database", "driver", o.cfg.Database.Driver)
	st, err := store.Open(ctx, store.Config{
		Driver:       o.cfg.Database.Driver,
		DSN:          o.cfg.Database.DSN,
		MaxOpenConns: o.cfg.Database.MaxOpenConns,
	}, storeOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	err = fn(ctx, examdb.New(st), o.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if registry != nil {
		logMetrics(registry)
	}
	return err
}

// logMetrics writes every collected store counter to the log at info level.
func logMetrics(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		slog.Error("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			attrs := []any{"metric", mf.GetName(), "value", m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			slog.Info("store metric", attrs...)
		}
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
