package binary

import (
	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/internal/leb128"
)

// Encode serializes an ast.Interfaces back into the bytes of an
// interface-types custom section, in the exact grammar order spec.md §4.B
// defines: vec<Export> vec<Type> vec<Import> vec<Adapter> vec<Forward>.
// Encode(Decode(b)) reproduces b byte-for-byte (spec.md §8's round-trip law).
func Encode(in *ast.Interfaces) []byte {
	var out []byte
	out = append(out, encodeExports(in.Exports)...)
	out = append(out, encodeTypes(in.Types)...)
	out = append(out, encodeImports(in.Imports)...)
	out = append(out, encodeAdapters(in.Adapters)...)
	out = append(out, encodeForwards(in.Forwards)...)
	return out
}

func writeU32(dst []byte, v uint32) []byte {
	return append(dst, leb128.EncodeUint32(v)...)
}

func encodeString(s string) []byte {
	b := []byte(s)
	out := writeU32(nil, uint32(len(b)))
	return append(out, b...)
}

func encodeTypeVec(types []api.InterfaceType) []byte {
	out := writeU32(nil, uint32(len(types)))
	for _, t := range types {
		out = append(out, byte(t))
	}
	return out
}

func encodeExports(exports []ast.Export) []byte {
	out := writeU32(nil, uint32(len(exports)))
	for _, e := range exports {
		out = append(out, encodeString(e.Name)...)
		out = append(out, encodeTypeVec(e.Inputs)...)
		out = append(out, encodeTypeVec(e.Outputs)...)
	}
	return out
}

func encodeTypes(types []ast.Type) []byte {
	out := writeU32(nil, uint32(len(types)))
	for _, t := range types {
		out = append(out, encodeString(t.Name)...)
		out = append(out, writeU32(nil, uint32(len(t.Fields)))...)
		for _, f := range t.Fields {
			out = append(out, encodeString(f.Name)...)
			out = append(out, byte(f.Type))
		}
		out = append(out, encodeTypeVec(t.Types)...)
	}
	return out
}

func encodeImports(imports []ast.Import) []byte {
	out := writeU32(nil, uint32(len(imports)))
	for _, im := range imports {
		out = append(out, encodeString(im.Namespace)...)
		out = append(out, encodeString(im.Name)...)
		out = append(out, encodeTypeVec(im.Inputs)...)
		out = append(out, encodeTypeVec(im.Outputs)...)
	}
	return out
}

func encodeAdapters(adapters []ast.Adapter) []byte {
	out := writeU32(nil, uint32(len(adapters)))
	for _, a := range adapters {
		switch a.Kind {
		case ast.AdapterImport:
			out = append(out, adapterKindImport)
			out = append(out, encodeString(a.Namespace)...)
			out = append(out, encodeString(a.Name)...)
		case ast.AdapterExport:
			out = append(out, adapterKindExport)
			out = append(out, encodeString(a.Name)...)
		case ast.AdapterHelper:
			out = append(out, adapterKindHelper)
			out = append(out, encodeString(a.Name)...)
		}
		out = append(out, encodeTypeVec(a.Inputs)...)
		out = append(out, encodeTypeVec(a.Outputs)...)
		out = append(out, encodeInstructions(a.Instructions)...)
	}
	return out
}

func encodeInstructions(instrs []ast.Instruction) []byte {
	out := writeU32(nil, uint32(len(instrs)))
	for _, instr := range instrs {
		b, ok := opcodeToByte(instr.Op)
		if !ok {
			// An Opcode outside opcodeOrder has no wire byte and is
			// skipped (ast.Interfaces.Validate does not check opcodes);
			// a reserved-but-known opcode still has a wire byte.
			continue
		}
		out = append(out, b)
		switch instr.Op {
		case ast.OpArgGet, ast.OpCall:
			out = append(out, writeU32(nil, instr.Index)...)
		case ast.OpCallExport, ast.OpWriteUtf8, ast.OpCallMethod, ast.OpFoldSeq:
			out = append(out, encodeString(instr.Str)...)
		case ast.OpReadUtf8, ast.OpTableRefAdd, ast.OpTableRefGet:
			// no operands
		case ast.OpAsWasm, ast.OpAsInterface, ast.OpMakeRecord:
			out = append(out, byte(instr.Ty))
		case ast.OpGetField:
			out = append(out, byte(instr.Ty))
			out = append(out, encodeString(instr.Str)...)
		case ast.OpConst:
			out = append(out, byte(instr.Ty))
			cv, err := encodeConstValue(instr.Ty, instr.ConstValue)
			if err == nil {
				out = append(out, cv...)
			}
		}
	}
	return out
}

func encodeForwards(forwards []ast.Forward) []byte {
	out := writeU32(nil, uint32(len(forwards)))
	for _, f := range forwards {
		out = append(out, encodeString(f.Name)...)
	}
	return out
}
