// Package ast defines the abstract syntax tree an interface-types custom
// section decodes into, per spec.md §3.3. An Interfaces value is produced
// once per module load (by package binary or package text) and is read-only
// for the remainder of the module's lifetime (spec.md §3.4).
package ast

import "github.com/tetratelabs/wit/api"

// Export names a guest-exported core function and declares its
// interface-level signature.
type Export struct {
	Name    string
	Inputs  []api.InterfaceType
	Outputs []api.InterfaceType
}

// Import names a host-provided function at the interface level, keyed by
// (Namespace, Name).
type Import struct {
	Namespace string
	Name      string
	Inputs    []api.InterfaceType
	Outputs   []api.InterfaceType
}

// Field is a named, typed member of a record Type. Reserved: spec.md §3.3
// marks Type as "not yet consumed by the interpreter".
type Field struct {
	Name string
	Type api.InterfaceType
}

// Type is a named record type. Reserved for future use; decoders must
// preserve it but nothing in this module constructs or consumes one today.
type Type struct {
	Name   string
	Fields []Field
	Types  []api.InterfaceType
}

// Forward declares that the named export of the core module is re-exported
// verbatim, bypassing the adapter layer entirely.
type Forward struct {
	Name string
}

// AdapterKind discriminates the three Adapter variants.
type AdapterKind byte

const (
	AdapterImport AdapterKind = iota
	AdapterExport
	AdapterHelper
)

// Adapter is the tagged union of ImportAdapter/ExportAdapter/HelperAdapter
// (spec.md §3.3). Exactly the fields relevant to Kind are populated:
//
//   - AdapterImport: Namespace, Name, Inputs, Outputs, Instructions.
//   - AdapterExport: Name, Inputs, Outputs, Instructions.
//   - AdapterHelper: Name, Inputs, Outputs, Instructions.
//
// Namespace is empty for Export and Helper adapters.
type Adapter struct {
	Kind         AdapterKind
	Namespace    string
	Name         string
	Inputs       []api.InterfaceType
	Outputs      []api.InterfaceType
	Instructions []Instruction
}

// Opcode identifies an adapter instruction, per the fixed enumeration in
// spec.md §4.B.
type Opcode byte

const (
	OpArgGet Opcode = iota
	OpCall
	OpCallExport
	OpReadUtf8
	OpWriteUtf8
	OpAsWasm
	OpAsInterface
	OpTableRefAdd
	OpTableRefGet
	OpCallMethod
	OpMakeRecord
	OpGetField
	OpConst
	OpFoldSeq
)

// String names an opcode using the mnemonics of spec.md §4.B/§4.C.
func (o Opcode) String() string {
	switch o {
	case OpArgGet:
		return "arg.get"
	case OpCall:
		return "call"
	case OpCallExport:
		return "call-export"
	case OpReadUtf8:
		return "read-utf8"
	case OpWriteUtf8:
		return "write-utf8"
	case OpAsWasm:
		return "as-wasm"
	case OpAsInterface:
		return "as-interface"
	case OpTableRefAdd:
		return "table-ref-add"
	case OpTableRefGet:
		return "table-ref-get"
	case OpCallMethod:
		return "call-method"
	case OpMakeRecord:
		return "make-record"
	case OpGetField:
		return "get-field"
	case OpConst:
		return "const"
	case OpFoldSeq:
		return "fold-seq"
	default:
		return "unknown"
	}
}

// Reserved reports whether o is one of the opcodes that are
// decoded/encoded/printed, but for which the interpreter returns
// UnimplementedInstruction (spec.md §9).
func (o Opcode) Reserved() bool {
	switch o {
	case OpTableRefAdd, OpTableRefGet, OpCallMethod, OpMakeRecord, OpGetField, OpFoldSeq:
		return true
	default:
		return false
	}
}

// Instruction is one step of an adapter's instruction stream. Not every
// field is populated for every Op; see the per-opcode operand payload in
// spec.md §4.B.
type Instruction struct {
	Op Opcode

	// ArgGet, Call
	Index uint32

	// CallExport, WriteUtf8 (allocator export name), CallMethod, GetField,
	// FoldSeq
	Str string

	// AsWasm, AsInterface, MakeRecord, GetField (also uses Str), Const
	Ty api.InterfaceType

	// Const
	ConstValue api.InterfaceValue
}

// Interfaces is the root AST node: the fully decoded contents of an
// interface-types custom section (spec.md §3.3).
type Interfaces struct {
	Exports  []Export
	Types    []Type
	Imports  []Import
	Adapters []Adapter
	Forwards []Forward
}

// HelperAdapters returns the subset of Adapters with Kind == AdapterHelper,
// in declaration order — the tail half of the `call N` index space (spec.md
// §3.3's invariant: "imports concatenated with helper adapters").
func (in *Interfaces) HelperAdapters() []Adapter {
	var out []Adapter
	for _, a := range in.Adapters {
		if a.Kind == AdapterHelper {
			out = append(out, a)
		}
	}
	return out
}

// CallTarget resolves the 0-based index referenced by a `call N` instruction
// against Imports concatenated with HelperAdapters, returning the
// interface-level signature of the target and whether it resolved.
func (in *Interfaces) CallTarget(index uint32) (inputs, outputs []api.InterfaceType, ok bool) {
	imports := in.Imports
	if int(index) < len(imports) {
		imp := imports[index]
		return imp.Inputs, imp.Outputs, true
	}
	helpers := in.HelperAdapters()
	helperIndex := int(index) - len(imports)
	if helperIndex >= 0 && helperIndex < len(helpers) {
		h := helpers[helperIndex]
		return h.Inputs, h.Outputs, true
	}
	return nil, nil, false
}
