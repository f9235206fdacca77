package command

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand is the single failure reported for any line that does
// not parse. Every *ParseError matches it via errors.Is.
var ErrInvalidCommand = errors.New("invalid command")

// ParseErrorReason categorizes parse failures.
type ParseErrorReason string

const (
	// ReasonEmpty indicates a blank or whitespace-only line.
	ReasonEmpty ParseErrorReason = "empty"

	// ReasonUnknownCommand indicates an unrecognized leading token.
	ReasonUnknownCommand ParseErrorReason = "unknown_command"

	// ReasonArity indicates the wrong number of arguments for a known command.
	ReasonArity ParseErrorReason = "arity"
)

// ParseError describes why a line was rejected.
type ParseError struct {
	// Line is the raw input.
	Line string

	// Reason identifies the failure category.
	Reason ParseErrorReason

	// Name is the command keyword, when it was recognized.
	Name Name

	// Want and Got are argument counts for ReasonArity.
	Want int
	Got  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Reason {
	case ReasonArity:
		return fmt.Sprintf("%s: %s takes %d argument(s), got %d", ErrInvalidCommand, e.Name, e.Want, e.Got)
	case ReasonUnknownCommand:
		return fmt.Sprintf("%s: unknown command in %q", ErrInvalidCommand, e.Line)
	default:
		return fmt.Sprintf("%s: %s line", ErrInvalidCommand, e.Reason)
	}
}

// Is lets errors.Is(err, ErrInvalidCommand) match every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidCommand
}

// IsInvalidCommand returns true if err is, or wraps, a parse failure.
func IsInvalidCommand(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, ErrInvalidCommand)
}
