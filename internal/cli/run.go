package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/txkv/internal/engine"
	"github.com/roach88/txkv/internal/store"
	"github.com/roach88/txkv/internal/transcript"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Echo     bool
	Prompt   string
	Database string
	Label    string

	// IDGenerator allows overriding the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator transcript.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Evaluate commands from a script or stdin",
		Long: `Evaluate commands one line at a time against a fresh, empty store.

Input is read from the script file if given, otherwise from stdin. Blank
lines are skipped. Reading stops at END, at end of input, or on Ctrl-C.

With --echo every input line is printed before its output and outputs are
prefixed with "> ". With --db the session is recorded so it can later be
inspected with "txkv trace" and verified with "txkv replay".

Examples:
  txkv run script.txt
  txkv run --echo < script.txt
  txkv run --db ./txkv.db --label demo
  txkv run --format json script.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Echo, "echo", false, "echo input lines and prefix outputs with \"> \"")
	cmd.Flags().StringVar(&opts.Prompt, "prompt", "", "prompt printed before each line is read")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the session to this SQLite database")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label stored with the recorded session")

	return cmd
}

// settings resolves flags against the config file: an explicit flag wins.
func (o *RunOptions) settings(cmd *cobra.Command) (echo bool, prompt, database string) {
	echo, prompt, database = o.Echo, o.Prompt, o.Database
	if !cmd.Flags().Changed("echo") && o.Config.Echo {
		echo = true
	}
	if !cmd.Flags().Changed("prompt") && o.Config.Prompt != "" {
		prompt = o.Config.Prompt
	}
	if !cmd.Flags().Changed("db") && o.Config.Database != "" {
		database = o.Config.Database
	}
	return echo, prompt, database
}

func runSession(opts *RunOptions, args []string, cmd *cobra.Command) error {
	logger := opts.newLogger(cmd.ErrOrStderr())
	echo, prompt, database := opts.settings(cmd)

	var input io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open script", err)
		}
		defer f.Close()
		input = f
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var rec *store.Recorder
	if database != "" {
		st, err := store.Open(database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		gen := opts.IDGenerator
		if gen == nil {
			gen = transcript.UUIDv7Generator{}
		}
		rec, err = st.NewRecorder(ctx, gen.Generate(), opts.Label)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to start recording", err)
		}
		logger.Info("recording session", "session", rec.SessionID(), "db", database)
	}

	sess := engine.NewSession(engine.WithLogger(logger))
	r := &renderer{
		w:      cmd.OutOrStdout(),
		format: opts.Format,
		echo:   echo,
	}

	lines := readLines(ctx, input)
	for {
		if prompt != "" {
			fmt.Fprint(cmd.OutOrStdout(), prompt)
		}

		var in lineResult
		select {
		case <-ctx.Done():
			logger.Info("session interrupted", "seq", sess.Seq())
			return nil
		case got, ok := <-lines:
			if !ok {
				logger.Debug("end of input", "seq", sess.Seq(), "open_transactions", sess.Depth())
				return nil
			}
			in = got
		}

		if in.err != nil {
			return WrapExitError(ExitCommandError, "failed to read input", in.err)
		}
		if strings.TrimSpace(in.line) == "" {
			continue
		}

		resp := sess.Eval(in.line)
		entry := transcript.FromResponse(resp)

		if rec != nil {
			if err := rec.Record(ctx, entry); err != nil {
				return WrapExitError(ExitCommandError, "failed to record entry", err)
			}
		}
		if err := r.render(entry); err != nil {
			return err
		}

		if resp.Terminal() {
			logger.Debug("session ended", "seq", resp.Seq, "open_transactions", resp.Depth)
			return nil
		}
	}
}

type lineResult struct {
	line string
	err  error
}

// readLines scans r on its own goroutine so the caller can stop waiting on
// cancellation. The channel is closed at end of input or after an error.
func readLines(ctx context.Context, r io.Reader) <-chan lineResult {
	out := make(chan lineResult)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			select {
			case out <- lineResult{line: strings.TrimRight(scanner.Text(), "\r")}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case out <- lineResult{err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

// renderer writes entries as plain output, echo transcript or JSON lines.
type renderer struct {
	w      io.Writer
	format string
	echo   bool
}

func (r *renderer) render(e transcript.Entry) error {
	switch {
	case r.format == "json":
		return json.NewEncoder(r.w).Encode(e)
	case r.echo:
		return transcript.WriteEcho(r.w, e)
	case e.HasOutput:
		_, err := fmt.Fprintln(r.w, e.Output)
		return err
	}
	return nil
}
