package api

import (
	"errors"
	"testing"

	"github.com/tetratelabs/wit/internal/testing/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing input", &InvocationInputIsMissing{Index: 2}, "invocation input 2 is missing"},
		{"type mismatch", &TypeMismatch{Expected: TypeString, Got: TypeI32}, "type mismatch: expected string, got i32"},
		{"stack too small", &StackIsTooSmall{Needed: 3}, "stack is too small: needed 3 value(s)"},
		{"oob", &MemoryOutOfBounds{Address: 7, Length: 10}, "memory out of bounds: address 7, length 10"},
		{"memory missing", &MemoryIsMissing{Index: 1}, "memory 1 is missing"},
		{"invalid utf8", &InvalidUtf8{At: 3}, "invalid utf-8 at offset 3"},
		{"export missing", &ExportIsMissing{Name: "strlen"}, `export "strlen" is missing`},
		{"export bad sig", &ExportInvalidSignature{Name: "strlen"}, `export "strlen" has an invalid signature for this adapter`},
		{"unimplemented", &UnimplementedInstruction{Opcode: "fold-seq"}, "unimplemented instruction: fold-seq"},
		{"malformed", &Malformed{Offset: 12, Reason: "truncated"}, "malformed interface-types section at offset 12: truncated"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestRuntimeError_Trap(t *testing.T) {
	err := NewTrap(TrapMemoryOutOfBounds)
	require.Equal(t, "trap: memory out of bounds", err.Error())
	require.Equal(t, nil, err.Unwrap())
}

func TestRuntimeError_User(t *testing.T) {
	cause := errors.New("foo 2")
	err := NewUserError(cause)
	require.Equal(t, "user error: foo 2", err.Error())
	require.Equal(t, true, errors.Is(err, cause))
}
