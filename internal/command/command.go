package command

import "strings"

// Name identifies a command of the language.
type Name string

const (
	NameSet        Name = "SET"
	NameGet        Name = "GET"
	NameUnset      Name = "UNSET"
	NameNumEqualTo Name = "NUMEQUALTO"
	NameBegin      Name = "BEGIN"
	NameRollback   Name = "ROLLBACK"
	NameCommit     Name = "COMMIT"
	NameEnd        Name = "END"
)

// Kind classifies a command.
type Kind int

const (
	// KindData commands read or mutate the store.
	KindData Kind = iota + 1

	// KindTransaction commands open, undo or flatten transaction scopes.
	KindTransaction

	// KindTerminate ends the session.
	KindTerminate
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindTransaction:
		return "transaction"
	case KindTerminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Command is a sealed interface over the parsed commands.
// Only Set, Get, Unset, NumEqualTo, Begin, Rollback, Commit and End implement it.
type Command interface {
	// Name returns the command keyword.
	Name() Name

	// Kind returns the command class.
	Kind() Kind

	// String renders the command in canonical form (single spaces).
	String() string

	command() // sealed
}

// Set stores Value under Key.
type Set struct {
	Key   string
	Value string
}

// Get reads the value of Key.
type Get struct {
	Key string
}

// Unset removes Key.
type Unset struct {
	Key string
}

// NumEqualTo counts keys whose value equals Value.
type NumEqualTo struct {
	Value string
}

// Begin opens a (possibly nested) transaction scope.
type Begin struct{}

// Rollback undoes the innermost open scope.
type Rollback struct{}

// Commit makes every open scope permanent.
type Commit struct{}

// End terminates the session.
type End struct{}

func (Set) command()        {}
func (Get) command()        {}
func (Unset) command()      {}
func (NumEqualTo) command() {}
func (Begin) command()      {}
func (Rollback) command()   {}
func (Commit) command()     {}
func (End) command()        {}

func (Set) Name() Name        { return NameSet }
func (Get) Name() Name        { return NameGet }
func (Unset) Name() Name      { return NameUnset }
func (NumEqualTo) Name() Name { return NameNumEqualTo }
func (Begin) Name() Name      { return NameBegin }
func (Rollback) Name() Name   { return NameRollback }
func (Commit) Name() Name     { return NameCommit }
func (End) Name() Name        { return NameEnd }

func (Set) Kind() Kind        { return KindData }
func (Get) Kind() Kind        { return KindData }
func (Unset) Kind() Kind      { return KindData }
func (NumEqualTo) Kind() Kind { return KindData }
func (Begin) Kind() Kind      { return KindTransaction }
func (Rollback) Kind() Kind   { return KindTransaction }
func (Commit) Kind() Kind     { return KindTransaction }
func (End) Kind() Kind        { return KindTerminate }

func (c Set) String() string        { return render(NameSet, c.Key, c.Value) }
func (c Get) String() string        { return render(NameGet, c.Key) }
func (c Unset) String() string      { return render(NameUnset, c.Key) }
func (c NumEqualTo) String() string { return render(NameNumEqualTo, c.Value) }
func (Begin) String() string        { return string(NameBegin) }
func (Rollback) String() string     { return string(NameRollback) }
func (Commit) String() string       { return string(NameCommit) }
func (End) String() string          { return string(NameEnd) }

func render(name Name, args ...string) string {
	return string(name) + " " + strings.Join(args, " ")
}

// IsMutation reports whether cmd changes the store.
func IsMutation(cmd Command) bool {
	switch cmd.(type) {
	case Set, Unset:
		return true
	default:
		return false
	}
}
