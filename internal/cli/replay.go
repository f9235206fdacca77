package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/txkv/internal/store"
	"github.com/roach88/txkv/internal/transcript"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []transcript.ReplayReport `json:"sessions"`
	TotalSessions    int                       `json:"total_sessions"`
	AllDeterministic bool                      `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-evaluate recorded sessions and verify they match",
		Long: `Re-evaluate every recorded session against a fresh store and verify that
each line produces the recorded status, output and transaction depth, and
that every stored digest is intact.

Exit codes:
  0 - All sessions replayed identically
  1 - A session diverged from its recording
  2 - Command error (database not found, unknown session, etc.)

Examples:
  txkv replay --db ./txkv.db
  txkv replay --db ./txkv.db --session 01920c4e-...
  txkv replay --db ./txkv.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	logger := opts.newLogger(cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ids, err := sessionIDs(ctx, st, opts.Session)
	if err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if len(ids) == 0 {
		if opts.Format == "json" {
			return f.Success(ReplayResult{Sessions: []transcript.ReplayReport{}, AllDeterministic: true})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in database.")
		return nil
	}

	result := ReplayResult{
		Sessions:         make([]transcript.ReplayReport, 0, len(ids)),
		TotalSessions:    len(ids),
		AllDeterministic: true,
	}

	for _, id := range ids {
		sess, err := st.ReadSession(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read session %s", id), err)
		}

		report, err := transcript.Replay(sess)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", id), err)
		}
		logger.Debug("session replayed", "session", id, "entries", report.Entries, "deterministic", report.Deterministic)

		result.Sessions = append(result.Sessions, report)
		if !report.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		if !result.AllDeterministic {
			if err := f.Error("E_DIVERGENCE", "replay diverged from recording", result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "replay diverged from recording")
		}
		return f.Success(result)
	}

	return outputReplayText(cmd, result)
}

// sessionIDs returns the one requested session, or every session in
// creation order.
func sessionIDs(ctx context.Context, st *store.Store, only string) ([]string, error) {
	if only != "" {
		if _, err := st.ReadSession(ctx, only); err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return nil, NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", only))
			}
			return nil, WrapExitError(ExitCommandError, "failed to read session", err)
		}
		return []string{only}, nil
	}

	infos, err := st.ListSessions(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	return ids, nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s", status, s.SessionID)
		if s.Label != "" {
			fmt.Fprintf(w, " (%s)", s.Label)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Entries: %d\n", s.Entries)

		if s.Divergence != nil {
			fmt.Fprintf(w, "  Diverged: %s\n", s.Divergence)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions replayed identically")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	// Divergence = exit code 1
	return NewExitError(ExitFailure, "replay diverged from recording")
}
