// Package command parses lines of the txkv command language.
//
// The language is line oriented. Each line holds exactly one command and its
// tokens are separated by runs of whitespace:
//
//	SET <key> <value>
//	GET <key>
//	UNSET <key>
//	NUMEQUALTO <value>
//	BEGIN
//	ROLLBACK
//	COMMIT
//	END
//
// Command names are case-sensitive. Parse either returns a fully validated
// Command or a *ParseError matching ErrInvalidCommand; a line is never
// partially accepted.
//
// Command is a sealed interface: only the types in this package implement it,
// and each carries only the fields its command needs.
package command
