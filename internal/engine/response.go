package engine

import (
	"fmt"
	"strconv"

	"github.com/roach88/txkv/internal/command"
)

// Status is the outcome of evaluating one line.
type Status string

const (
	// StatusOK is a successful command with no payload
	// (SET, UNSET, BEGIN, ROLLBACK, COMMIT).
	StatusOK Status = "ok"

	// StatusValue is a GET that found its key.
	StatusValue Status = "value"

	// StatusNull is a GET for an absent key.
	StatusNull Status = "null"

	// StatusCount is a NUMEQUALTO result.
	StatusCount Status = "count"

	// StatusNoTransaction is ROLLBACK or COMMIT with no open transaction.
	StatusNoTransaction Status = "no_transaction"

	// StatusInvalid is a line that failed to parse.
	StatusInvalid Status = "invalid"

	// StatusEnd acknowledges END. The driver should stop reading.
	StatusEnd Status = "end"

	// StatusEnded answers any line after END.
	StatusEnded Status = "ended"
)

// Rendered output for the statuses that print something.
const (
	OutputNull          = "NULL"
	OutputNoTransaction = "NO TRANSACTION"
	OutputInvalid       = "INVALID COMMAND"
)

var validStatuses = map[Status]bool{
	StatusOK:            true,
	StatusValue:         true,
	StatusNull:          true,
	StatusCount:         true,
	StatusNoTransaction: true,
	StatusInvalid:       true,
	StatusEnd:           true,
	StatusEnded:         true,
}

// ParseStatus converts a stored status name back into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Response is the structured result of evaluating one line.
type Response struct {
	// Seq is the logical clock value assigned to this evaluation.
	Seq int64

	// Line is the raw input.
	Line string

	// Command is the parsed command. Nil for StatusInvalid and StatusEnded.
	Command command.Command

	// Status is the outcome.
	Status Status

	// Value holds the GET result for StatusValue.
	Value string

	// Count holds the NUMEQUALTO result for StatusCount.
	Count int

	// Depth is the number of open transactions after evaluation.
	Depth int

	// Err is set for StatusInvalid, StatusNoTransaction and StatusEnded.
	Err error
}

// Output returns the text this response prints, if any.
func (r Response) Output() (string, bool) {
	switch r.Status {
	case StatusValue:
		return r.Value, true
	case StatusNull:
		return OutputNull, true
	case StatusCount:
		return strconv.Itoa(r.Count), true
	case StatusNoTransaction:
		return OutputNoTransaction, true
	case StatusInvalid:
		return OutputInvalid, true
	default:
		return "", false
	}
}

// Terminal reports whether the driver should stop reading input.
func (r Response) Terminal() bool {
	return r.Status == StatusEnd || r.Status == StatusEnded
}

// Failed reports whether the line was rejected or could not run.
func (r Response) Failed() bool {
	return r.Err != nil
}
