package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/txkv/internal/store"
	"github.com/roach88/txkv/internal/transcript"
)

// AssertionError is returned when an assertion fails.
// It includes the transcript to help debug the failure.
type AssertionError struct {
	Type     string             // Assertion type for categorization
	Expected string             // Human-readable expected outcome
	Actual   string             // Human-readable actual outcome
	Trace    []transcript.Entry // Full transcript for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull transcript:\n")
		for _, entry := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", entry.Seq, entry.Line)
			if entry.HasOutput {
				fmt.Fprintf(&buf, " %s%s", transcript.EchoPrefix, entry.Output)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// AssertionContext gives assertions access to the recorded transcript.
type AssertionContext struct {
	Ctx       context.Context
	Store     *store.Store
	SessionID string
}

// assertFinalState checks every expected key holds its expected value.
func assertFinalState(result *Result, assertion Assertion) error {
	keys := make([]string, 0, len(assertion.Expect))
	for k := range assertion.Expect {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		want := assertion.Expect[key]
		got, ok := result.State[key]
		if !ok {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s = %q", key, want),
				Actual:   fmt.Sprintf("%s is not set", key),
				Trace:    result.Trace,
			}
		}
		if got != want {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s = %q", key, want),
				Actual:   fmt.Sprintf("%s = %q", key, got),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertAbsent checks none of the listed keys exist.
func assertAbsent(result *Result, assertion Assertion) error {
	for _, key := range assertion.Keys {
		if got, ok := result.State[key]; ok {
			return &AssertionError{
				Type:     AssertAbsent,
				Expected: fmt.Sprintf("%s is not set", key),
				Actual:   fmt.Sprintf("%s = %q", key, got),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertOpenTransactions checks the transaction depth after the last step.
func assertOpenTransactions(result *Result, assertion Assertion) error {
	if result.Depth != *assertion.Count {
		return &AssertionError{
			Type:     AssertOpenTransactions,
			Expected: fmt.Sprintf("%d open transaction(s)", *assertion.Count),
			Actual:   fmt.Sprintf("%d open transaction(s)", result.Depth),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertStatusCount counts recorded entries with a status. The count comes
// from the store rather than the in-memory trace so the recorded transcript
// itself is what gets checked.
func assertStatusCount(actx *AssertionContext, result *Result, assertion Assertion) error {
	entries, err := actx.Store.ReadEntriesWithStatus(actx.Ctx, actx.SessionID, assertion.Status)
	if err != nil {
		return fmt.Errorf("status_count: %w", err)
	}

	if len(entries) != *assertion.Count {
		return &AssertionError{
			Type:     AssertStatusCount,
			Expected: fmt.Sprintf("%d %s response(s)", *assertion.Count, assertion.Status),
			Actual:   fmt.Sprintf("%d %s response(s)", len(entries), assertion.Status),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for status_count assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		case AssertAbsent:
			err = assertAbsent(result, assertion)
		case AssertOpenTransactions:
			if assertion.Count == nil {
				err = fmt.Errorf("assertion[%d]: open_transactions requires count", i)
			} else {
				err = assertOpenTransactions(result, assertion)
			}
		case AssertStatusCount:
			switch {
			case assertion.Count == nil:
				err = fmt.Errorf("assertion[%d]: status_count requires count", i)
			case actx == nil || actx.Store == nil:
				err = fmt.Errorf("assertion[%d]: status_count requires database context", i)
			default:
				err = assertStatusCount(actx, result, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
