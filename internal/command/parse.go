package command

import "strings"

// arity is the number of tokens each command takes after its keyword.
var arity = map[Name]int{
	NameSet:        2,
	NameGet:        1,
	NameUnset:      1,
	NameNumEqualTo: 1,
	NameBegin:      0,
	NameRollback:   0,
	NameCommit:     0,
	NameEnd:        0,
}

// Parse turns a raw line into a validated Command.
//
// The line is split on runs of whitespace. The first token must be a known
// command name and the remaining tokens must match its arity exactly.
// Any failure returns a *ParseError, which matches ErrInvalidCommand.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, &ParseError{Line: line, Reason: ReasonEmpty}
	}

	name := Name(tokens[0])
	want, ok := arity[name]
	if !ok {
		return nil, &ParseError{Line: line, Reason: ReasonUnknownCommand}
	}

	args := tokens[1:]
	if len(args) != want {
		return nil, &ParseError{
			Line:   line,
			Reason: ReasonArity,
			Name:   name,
			Want:   want,
			Got:    len(args),
		}
	}

	switch name {
	case NameSet:
		return Set{Key: args[0], Value: args[1]}, nil
	case NameGet:
		return Get{Key: args[0]}, nil
	case NameUnset:
		return Unset{Key: args[0]}, nil
	case NameNumEqualTo:
		return NumEqualTo{Value: args[0]}, nil
	case NameBegin:
		return Begin{}, nil
	case NameRollback:
		return Rollback{}, nil
	case NameCommit:
		return Commit{}, nil
	default:
		return End{}, nil
	}
}

// MustParse is like Parse but panics on error. Intended for tests and
// statically known command lines.
func MustParse(line string) Command {
	cmd, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return cmd
}
