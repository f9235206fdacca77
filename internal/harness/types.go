package harness

import (
	"github.com/roach88/txkv/internal/transcript"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace is the recorded transcript, one entry per step, in seq order.
	Trace []transcript.Entry `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the store contents after the last step.
	State map[string]string `json:"state"`

	// Depth is the number of open transactions after the last step.
	Depth int `json:"depth"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []transcript.Entry{},
		Errors: []string{},
		State:  map[string]string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
