// Package binary implements the binary wire format of spec.md §4.B: decoding
// a module's interface-types custom section into an ast.Interfaces, and
// encoding an ast.Interfaces back to the exact same bytes it was decoded
// from (the round-trip law of spec.md §8).
package binary

import "github.com/tetratelabs/wit/ast"

// adapterKind is the `u kind` discriminant of the Adapter grammar production
// in spec.md §4.B.
const (
	adapterKindImport byte = 0
	adapterKindExport byte = 1
	adapterKindHelper byte = 2
)

// opcodeOrder gives the fixed numeric encoding for each ast.Opcode (its
// index in this slice), in the order spec.md §4.B lists the mnemonics. This ordering,
// like InterfaceType's, is part of the wire format and must never change.
var opcodeOrder = []ast.Opcode{
	ast.OpArgGet,
	ast.OpCall,
	ast.OpCallExport,
	ast.OpReadUtf8,
	ast.OpWriteUtf8,
	ast.OpAsWasm,
	ast.OpAsInterface,
	ast.OpTableRefAdd,
	ast.OpTableRefGet,
	ast.OpCallMethod,
	ast.OpMakeRecord,
	ast.OpGetField,
	ast.OpConst,
	ast.OpFoldSeq,
}

func opcodeToByte(op ast.Opcode) (byte, bool) {
	for i, o := range opcodeOrder {
		if o == op {
			return byte(i), true
		}
	}
	return 0, false
}

func byteToOpcode(b byte) (ast.Opcode, bool) {
	if int(b) >= len(opcodeOrder) {
		return 0, false
	}
	return opcodeOrder[int(b)], true
}
