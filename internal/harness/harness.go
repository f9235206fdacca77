package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/txkv/internal/engine"
	"github.com/roach88/txkv/internal/store"
	"github.com/roach88/txkv/internal/testutil"
	"github.com/roach88/txkv/internal/transcript"
)

// SessionIDPrefix prefixes the recorded session id of every scenario.
const SessionIDPrefix = "scenario:"

var _ engine.Sequencer = (*testutil.DeterministicClock)(nil)

// Harness drives one scenario.
type Harness struct {
	store    *store.Store
	recorder *store.Recorder
	session  *engine.Session
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh Session and a fresh in-memory
// database. A non-nil error means the harness itself failed; a scenario
// whose expectations do not hold returns a Result with Pass false.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for the store calls.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sessionID := SessionIDPrefix + scenario.Name
	rec, err := st.NewRecorder(ctx, sessionID, scenario.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to start recording: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Harness{
		store:    st,
		recorder: rec,
		session: engine.NewSession(
			engine.WithClock(testutil.NewDeterministicClock()),
			engine.WithLogger(logger),
		),
		logger: logger,
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	trace, err := st.ReadEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	result.Trace = trace
	result.State = h.session.State()
	result.Depth = h.session.Depth()

	actx := &AssertionContext{
		Ctx:       ctx,
		Store:     st,
		SessionID: sessionID,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// executeSteps evaluates each step, records it and checks its expectation.
// Steps after END are still evaluated; they answer with the ended status.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		resp := h.session.Eval(step.Cmd)

		if err := h.recorder.Record(ctx, transcript.FromResponse(resp)); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		h.logger.Debug("step evaluated",
			"step", i,
			"line", step.Cmd,
			"status", resp.Status,
			"depth", resp.Depth,
		)

		if msg := checkStep(i, step, resp); msg != "" {
			result.AddError(msg)
		}
	}
	return nil
}

// checkStep compares a response against the step's expectations.
// Returns an empty string when they hold.
func checkStep(index int, step Step, resp engine.Response) string {
	out, printed := resp.Output()

	if step.Status != "" && string(resp.Status) != step.Status {
		return fmt.Sprintf("steps[%d] %q: expected status %s, got %s", index, step.Cmd, step.Status, resp.Status)
	}

	switch {
	case step.Expect != nil && !printed:
		return fmt.Sprintf("steps[%d] %q: expected output %q, got none", index, step.Cmd, *step.Expect)
	case step.Expect != nil && out != *step.Expect:
		return fmt.Sprintf("steps[%d] %q: expected output %q, got %q", index, step.Cmd, *step.Expect, out)
	case step.Expect == nil && step.Status == "" && printed:
		return fmt.Sprintf("steps[%d] %q: expected no output, got %q", index, step.Cmd, out)
	}
	return ""
}
