package wit

import (
	"testing"

	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/binary"
	"github.com/tetratelabs/wit/internal/leb128"
	"github.com/tetratelabs/wit/internal/testing/require"
)

// buildWasmModule assembles a minimal, well-formed WebAssembly binary module
// carrying a single custom section named name with the given payload, in
// order to exercise FindCustomSection without a real core compiler.
func buildWasmModule(name string, payload []byte) []byte {
	var sectionBody []byte
	sectionBody = append(sectionBody, leb128.EncodeUint32(uint32(len(name)))...)
	sectionBody = append(sectionBody, []byte(name)...)
	sectionBody = append(sectionBody, payload...)

	out := append([]byte{}, wasmMagic...)
	out = append(out, wasmVersion...)
	out = append(out, customSectionID)
	out = append(out, leb128.EncodeUint32(uint32(len(sectionBody)))...)
	out = append(out, sectionBody...)
	return out
}

func TestFindCustomSection_Found(t *testing.T) {
	wasm := buildWasmModule(SectionName, []byte{1, 2, 3})
	payload, ok, err := FindCustomSection(wasm, SectionName)
	require.NoError(t, err)
	require.Equal(t, true, ok)
	require.Equal(t, []byte{1, 2, 3}, payload)
}

func TestFindCustomSection_NotFound(t *testing.T) {
	wasm := buildWasmModule("name", []byte{1, 2, 3})
	_, ok, err := FindCustomSection(wasm, SectionName)
	require.NoError(t, err)
	require.Equal(t, false, ok)
}

func TestFindCustomSection_NotAWasmModule(t *testing.T) {
	_, _, err := FindCustomSection([]byte("not wasm"), SectionName)
	require.Error(t, err)
}

func TestRuntime_DecodeModuleFromWasm(t *testing.T) {
	doc := &ast.Interfaces{Forwards: []ast.Forward{{Name: "main"}}}
	wasm := buildWasmModule(SectionName, binary.Encode(doc))

	r := NewRuntime()
	mod, ok, err := r.DecodeModuleFromWasm(wasm)
	require.NoError(t, err)
	require.Equal(t, true, ok)
	require.Equal(t, doc, mod.Doc)
}

func TestRuntime_DecodeModuleFromWasm_NoInterfaceSection(t *testing.T) {
	wasm := append([]byte{}, wasmMagic...)
	wasm = append(wasm, wasmVersion...)

	r := NewRuntime()
	mod, ok, err := r.DecodeModuleFromWasm(wasm)
	require.NoError(t, err)
	require.Equal(t, false, ok)
	require.Equal(t, true, mod == nil)
}
