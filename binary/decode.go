package binary

import "github.com/tetratelabs/wit/ast"

// Decode parses the binary contents of an interface-types custom section
// into an ast.Interfaces (spec.md §4.B). It never panics: any malformed
// length prefix, truncated input, invalid UTF-8, or unknown tag is returned
// as *api.Malformed carrying the byte offset at which decoding failed.
func Decode(b []byte) (*ast.Interfaces, error) {
	c := &cursor{buf: b}

	exports, err := decodeExports(c)
	if err != nil {
		return nil, err
	}
	types, err := decodeTypes(c)
	if err != nil {
		return nil, err
	}
	imports, err := decodeImports(c)
	if err != nil {
		return nil, err
	}
	adapters, err := decodeAdapters(c)
	if err != nil {
		return nil, err
	}
	forwards, err := decodeForwards(c)
	if err != nil {
		return nil, err
	}

	return &ast.Interfaces{
		Exports:  exports,
		Types:    types,
		Imports:  imports,
		Adapters: adapters,
		Forwards: forwards,
	}, nil
}

func decodeExports(c *cursor) ([]ast.Export, error) {
	n, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]ast.Export, n)
	for i := range out {
		name, err := c.readString()
		if err != nil {
			return nil, err
		}
		inputs, err := c.readTypeVec()
		if err != nil {
			return nil, err
		}
		outputs, err := c.readTypeVec()
		if err != nil {
			return nil, err
		}
		out[i] = ast.Export{Name: name, Inputs: inputs, Outputs: outputs}
	}
	return out, nil
}

func decodeTypes(c *cursor) ([]ast.Type, error) {
	n, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]ast.Type, n)
	for i := range out {
		name, err := c.readString()
		if err != nil {
			return nil, err
		}
		fieldCount, err := c.readU32()
		if err != nil {
			return nil, err
		}
		var fields []ast.Field
		if fieldCount > 0 {
			fields = make([]ast.Field, fieldCount)
		}
		for j := range fields {
			fname, err := c.readString()
			if err != nil {
				return nil, err
			}
			fty, err := c.readInterfaceType()
			if err != nil {
				return nil, err
			}
			fields[j] = ast.Field{Name: fname, Type: fty}
		}
		types, err := c.readTypeVec()
		if err != nil {
			return nil, err
		}
		out[i] = ast.Type{Name: name, Fields: fields, Types: types}
	}
	return out, nil
}

func decodeImports(c *cursor) ([]ast.Import, error) {
	n, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]ast.Import, n)
	for i := range out {
		ns, err := c.readString()
		if err != nil {
			return nil, err
		}
		name, err := c.readString()
		if err != nil {
			return nil, err
		}
		inputs, err := c.readTypeVec()
		if err != nil {
			return nil, err
		}
		outputs, err := c.readTypeVec()
		if err != nil {
			return nil, err
		}
		out[i] = ast.Import{Namespace: ns, Name: name, Inputs: inputs, Outputs: outputs}
	}
	return out, nil
}

func decodeAdapters(c *cursor) ([]ast.Adapter, error) {
	n, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]ast.Adapter, n)
	for i := range out {
		kind, err := c.readByte()
		if err != nil {
			return nil, err
		}

		a := ast.Adapter{}
		switch kind {
		case adapterKindImport:
			a.Kind = ast.AdapterImport
			if a.Namespace, err = c.readString(); err != nil {
				return nil, err
			}
			if a.Name, err = c.readString(); err != nil {
				return nil, err
			}
		case adapterKindExport:
			a.Kind = ast.AdapterExport
			if a.Name, err = c.readString(); err != nil {
				return nil, err
			}
		case adapterKindHelper:
			a.Kind = ast.AdapterHelper
			if a.Name, err = c.readString(); err != nil {
				return nil, err
			}
		default:
			return nil, c.malformed("unknown adapter kind")
		}

		if a.Inputs, err = c.readTypeVec(); err != nil {
			return nil, err
		}
		if a.Outputs, err = c.readTypeVec(); err != nil {
			return nil, err
		}
		if a.Instructions, err = decodeInstructions(c); err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func decodeInstructions(c *cursor) ([]ast.Instruction, error) {
	n, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]ast.Instruction, n)
	for i := range out {
		opByte, err := c.readByte()
		if err != nil {
			return nil, err
		}
		op, ok := byteToOpcode(opByte)
		if !ok {
			return nil, c.malformed("unknown instruction opcode")
		}

		instr := ast.Instruction{Op: op}
		switch op {
		case ast.OpArgGet, ast.OpCall:
			if instr.Index, err = c.readU32(); err != nil {
				return nil, err
			}
		case ast.OpCallExport, ast.OpWriteUtf8, ast.OpCallMethod, ast.OpFoldSeq:
			if instr.Str, err = c.readString(); err != nil {
				return nil, err
			}
		case ast.OpReadUtf8, ast.OpTableRefAdd, ast.OpTableRefGet:
			// no operands
		case ast.OpAsWasm, ast.OpAsInterface, ast.OpMakeRecord:
			if instr.Ty, err = c.readInterfaceType(); err != nil {
				return nil, err
			}
		case ast.OpGetField:
			if instr.Ty, err = c.readInterfaceType(); err != nil {
				return nil, err
			}
			if instr.Str, err = c.readString(); err != nil {
				return nil, err
			}
		case ast.OpConst:
			if instr.Ty, err = c.readInterfaceType(); err != nil {
				return nil, err
			}
			if instr.ConstValue, err = c.readConstValue(instr.Ty); err != nil {
				return nil, err
			}
		default:
			return nil, c.malformed("unhandled opcode in decoder")
		}
		out[i] = instr
	}
	return out, nil
}

func decodeForwards(c *cursor) ([]ast.Forward, error) {
	n, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]ast.Forward, n)
	for i := range out {
		name, err := c.readString()
		if err != nil {
			return nil, err
		}
		out[i] = ast.Forward{Name: name}
	}
	return out, nil
}
