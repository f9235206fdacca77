package engine

import (
	"io"
	"log/slog"

	"github.com/roach88/txkv/internal/command"
	"github.com/roach88/txkv/internal/kv"
	"github.com/roach88/txkv/internal/txn"
)

// Session evaluates command lines against its own transaction manager.
// Sessions share nothing, so any number can run side by side in tests.
type Session struct {
	mgr    *txn.Manager
	clock  Sequencer
	logger *slog.Logger
	ended  bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the session clock. Use a deterministic clock in tests,
// or NewClockAt to continue numbering from a recorded position.
func WithClock(c Sequencer) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithLogger sets the logger used for debug tracing of transaction events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session with an empty store and no open transaction.
func NewSession(opts ...Option) *Session {
	s := &Session{
		mgr:    txn.New(),
		clock:  NewClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Eval parses and evaluates one line.
func (s *Session) Eval(line string) Response {
	seq := s.clock.Next()

	if s.ended {
		return Response{Seq: seq, Line: line, Status: StatusEnded, Depth: s.mgr.Depth(), Err: ErrSessionEnded}
	}

	cmd, err := command.Parse(line)
	if err != nil {
		s.logger.Debug("rejected line", "seq", seq, "line", line, "error", err)
		return Response{Seq: seq, Line: line, Status: StatusInvalid, Depth: s.mgr.Depth(), Err: err}
	}

	resp := s.dispatch(cmd)
	resp.Seq = seq
	resp.Line = line
	resp.Command = cmd
	resp.Depth = s.mgr.Depth()
	return resp
}

// dispatch runs a parsed command. Every Command implementation must have a
// case here.
func (s *Session) dispatch(cmd command.Command) Response {
	switch c := cmd.(type) {
	case command.Set:
		s.mgr.Set(c.Key, c.Value)
		return Response{Status: StatusOK}

	case command.Get:
		v, ok := s.mgr.Get(c.Key)
		if !ok {
			return Response{Status: StatusNull}
		}
		return Response{Status: StatusValue, Value: v}

	case command.Unset:
		s.mgr.Unset(c.Key)
		return Response{Status: StatusOK}

	case command.NumEqualTo:
		return Response{Status: StatusCount, Count: s.mgr.NumEqualTo(c.Value)}

	case command.Begin:
		s.mgr.Begin()
		s.logger.Debug("transaction begin", "depth", s.mgr.Depth())
		return Response{Status: StatusOK}

	case command.Rollback:
		undone := s.mgr.JournalLen()
		if err := s.mgr.Rollback(); err != nil {
			return Response{Status: StatusNoTransaction, Err: err}
		}
		s.logger.Debug("transaction rollback", "undone", undone, "depth", s.mgr.Depth())
		return Response{Status: StatusOK}

	case command.Commit:
		depth := s.mgr.Depth()
		if err := s.mgr.Commit(); err != nil {
			return Response{Status: StatusNoTransaction, Err: err}
		}
		s.logger.Debug("transaction commit", "scopes", depth)
		return Response{Status: StatusOK}

	case command.End:
		s.ended = true
		s.logger.Debug("session end", "open_transactions", s.mgr.Depth())
		return Response{Status: StatusEnd}

	default:
		panic("engine: unhandled command type " + string(cmd.Name()))
	}
}

// Ended reports whether END has been evaluated.
func (s *Session) Ended() bool {
	return s.ended
}

// Depth returns the number of open transactions.
func (s *Session) Depth() int {
	return s.mgr.Depth()
}

// Get reads a key without evaluating a command or advancing the clock.
func (s *Session) Get(key string) (string, bool) {
	return s.mgr.Get(key)
}

// Snapshot returns the current store contents sorted by key.
func (s *Session) Snapshot() []kv.Entry {
	return s.mgr.Snapshot()
}

// State returns a copy of the current store contents.
func (s *Session) State() map[string]string {
	return s.mgr.State()
}

// Seq returns the sequence number of the last evaluated line.
func (s *Session) Seq() int64 {
	return s.clock.Current()
}
