package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidCommands(t *testing.T) {
	tests := []struct {
		line string
		want Command
		kind Kind
	}{
		{"SET a 10", Set{Key: "a", Value: "10"}, KindData},
		{"GET a", Get{Key: "a"}, KindData},
		{"UNSET a", Unset{Key: "a"}, KindData},
		{"NUMEQUALTO 10", NumEqualTo{Value: "10"}, KindData},
		{"BEGIN", Begin{}, KindTransaction},
		{"ROLLBACK", Rollback{}, KindTransaction},
		{"COMMIT", Commit{}, KindTransaction},
		{"END", End{}, KindTerminate},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
			assert.Equal(t, tt.kind, cmd.Kind())
			assert.Equal(t, tt.line, cmd.String())
		})
	}
}

func TestParse_WhitespaceRuns(t *testing.T) {
	cmd, err := Parse("  SET\t key  \t value  ")
	require.NoError(t, err)
	assert.Equal(t, Set{Key: "key", Value: "value"}, cmd)
	assert.Equal(t, "SET key value", cmd.String())
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason ParseErrorReason
	}{
		{"empty", "", ReasonEmpty},
		{"blank", "   \t ", ReasonEmpty},
		{"unknown", "FETCH a", ReasonUnknownCommand},
		{"lowercase", "set a 10", ReasonUnknownCommand},
		{"set missing value", "SET a", ReasonArity},
		{"set extra token", "SET a 10 20", ReasonArity},
		{"get missing key", "GET", ReasonArity},
		{"get extra", "GET a b", ReasonArity},
		{"unset missing key", "UNSET", ReasonArity},
		{"numequalto missing", "NUMEQUALTO", ReasonArity},
		{"begin with arg", "BEGIN now", ReasonArity},
		{"rollback with arg", "ROLLBACK 1", ReasonArity},
		{"commit with arg", "COMMIT all", ReasonArity},
		{"end with arg", "END please", ReasonArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.Error(t, err)
			assert.Nil(t, cmd)
			assert.ErrorIs(t, err, ErrInvalidCommand)
			assert.True(t, IsInvalidCommand(err))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.reason, pe.Reason)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestParseError_ArityMessage(t *testing.T) {
	_, err := Parse("SET a")
	require.Error(t, err)
	assert.Equal(t, "invalid command: SET takes 2 argument(s), got 1", err.Error())
}

func TestIsInvalidCommand_Wrapped(t *testing.T) {
	_, err := Parse("NOPE")
	wrapped := fmt.Errorf("line 3: %w", err)
	assert.True(t, IsInvalidCommand(wrapped))
	assert.False(t, IsInvalidCommand(errors.New("other")))
	assert.False(t, IsInvalidCommand(nil))
}

func TestIsMutation(t *testing.T) {
	assert.True(t, IsMutation(Set{Key: "a", Value: "1"}))
	assert.True(t, IsMutation(Unset{Key: "a"}))
	assert.False(t, IsMutation(Get{Key: "a"}))
	assert.False(t, IsMutation(NumEqualTo{Value: "1"}))
	assert.False(t, IsMutation(Begin{}))
	assert.False(t, IsMutation(End{}))
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, Get{Key: "x"}, MustParse("GET x"))
	assert.Panics(t, func() { MustParse("GET") })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "data", KindData.String())
	assert.Equal(t, "transaction", KindTransaction.String())
	assert.Equal(t, "terminate", KindTerminate.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
