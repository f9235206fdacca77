package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/txkv/internal/engine"
	"github.com/roach88/txkv/internal/store"
	"github.com/roach88/txkv/internal/transcript"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
	Status   string // optional - filter entries to one status
	List     bool   // list sessions instead of printing transcripts
}

// TraceResult holds the printed transcripts.
type TraceResult struct {
	Sessions []transcript.Session `json:"sessions"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print recorded session transcripts",
		Long: `Print recorded sessions in the echo format: each input line followed by
its output, prefixed with "> ".

Examples:
  txkv trace --db ./txkv.db
  txkv trace --db ./txkv.db --list
  txkv trace --db ./txkv.db --session 01920c4e-... --status no_transaction
  txkv trace --db ./txkv.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "trace specific session only")
	cmd.Flags().StringVar(&opts.Status, "status", "", "only show entries with this status (e.g. invalid)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list recorded sessions")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	if opts.Status != "" {
		if _, err := engine.ParseStatus(opts.Status); err != nil {
			return WrapExitError(ExitCommandError, "invalid --status", err)
		}
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if opts.List {
		infos, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if opts.Format == "json" {
			return f.Success(infos)
		}
		return outputSessionList(cmd, infos)
	}

	ids, err := sessionIDs(ctx, st, opts.Session)
	if err != nil {
		return err
	}

	result := TraceResult{Sessions: make([]transcript.Session, 0, len(ids))}
	for _, id := range ids {
		sess, err := readTraceSession(ctx, st, id, opts.Status)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read session %s", id), err)
		}
		result.Sessions = append(result.Sessions, sess)
	}

	if opts.Format == "json" {
		return f.Success(result)
	}
	return outputTraceText(cmd, result)
}

// readTraceSession reads a session, keeping only entries with status when
// one is given.
func readTraceSession(ctx context.Context, st *store.Store, id, status string) (transcript.Session, error) {
	sess, err := st.ReadSession(ctx, id)
	if err != nil {
		return sess, err
	}
	if status == "" {
		return sess, nil
	}

	sess.Entries, err = st.ReadEntriesWithStatus(ctx, id, status)
	if err != nil {
		return sess, fmt.Errorf("filter by status %s: %w", status, err)
	}
	return sess, nil
}

// outputTraceText prints each session as a header and its echo transcript.
func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	if len(result.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return nil
	}

	for i, s := range result.Sessions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# session %s", s.ID)
		if s.Label != "" {
			fmt.Fprintf(w, " (%s)", s.Label)
		}
		fmt.Fprintln(w)
		for _, e := range s.Entries {
			if err := transcript.WriteEcho(w, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// outputSessionList prints one line per recorded session.
func outputSessionList(cmd *cobra.Command, infos []store.SessionInfo) error {
	w := cmd.OutOrStdout()

	if len(infos) == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return nil
	}

	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d entries\tlast seq %d", info.ID, info.Entries, info.LastSeq)
		if info.Label != "" {
			fmt.Fprintf(w, "\t%s", info.Label)
		}
		fmt.Fprintln(w)
	}
	return nil
}
