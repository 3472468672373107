package wit

import (
	"errors"
	"testing"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/binary"
	"github.com/tetratelabs/wit/internal/testing/require"
)

func TestRuntime_DecodeModule(t *testing.T) {
	doc := &ast.Interfaces{
		Exports: []ast.Export{{Name: "strlen", Inputs: []api.InterfaceType{api.TypeI32}, Outputs: []api.InterfaceType{api.TypeI32}}},
	}
	section := binary.Encode(doc)

	r := NewRuntime()
	mod, err := r.DecodeModule(section)
	require.NoError(t, err)
	require.Equal(t, doc, mod.Doc)
}

func TestRuntime_DecodeModule_Cached(t *testing.T) {
	doc := &ast.Interfaces{Forwards: []ast.Forward{{Name: "main"}}}
	section := binary.Encode(doc)

	r := NewRuntime()
	a, err := r.DecodeModule(section)
	require.NoError(t, err)
	b, err := r.DecodeModule(section)
	require.NoError(t, err)
	// Same underlying *ast.Interfaces pointer: the second decode hit the
	// Runtime's Cache instead of re-running package binary.
	require.Equal(t, true, a.Doc == b.Doc)
}

func TestRuntime_DecodeModule_Malformed(t *testing.T) {
	r := NewRuntime()
	_, err := r.DecodeModule([]byte{0xff})
	require.Error(t, err)
	var malformed *api.Malformed
	require.Equal(t, true, errors.As(err, &malformed))
}

func TestNewRuntimeWithConfig_NilDefaults(t *testing.T) {
	r := NewRuntimeWithConfig(nil)
	require.Equal(t, true, r.config != nil)
}
