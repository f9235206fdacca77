package engine

import "errors"

// ErrSessionEnded is reported for any line evaluated after END.
var ErrSessionEnded = errors.New("session ended")

// IsSessionEnded returns true if err is, or wraps, ErrSessionEnded.
func IsSessionEnded(err error) bool {
	return errors.Is(err, ErrSessionEnded)
}
