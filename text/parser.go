package text

import (
	"fmt"
	"strconv"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
)

// Parse reads the textual `(@interface ...)` form described in spec.md §4.C
// and returns the Interfaces it describes. Parse never consumes more than
// one clause's worth of lookahead; malformed input is reported with the
// source line at which the parser gave up.
func Parse(src string) (*ast.Interfaces, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	out := &ast.Interfaces{}
	for p.tok.kind != tokenEOF {
		if err := p.expect(tokenLParen); err != nil {
			return nil, err
		}
		if err := p.expectAtom("@interface"); err != nil {
			return nil, err
		}
		kind, err := p.atom()
		if err != nil {
			return nil, err
		}
		switch kind {
		case "export":
			e, err := p.parseExport()
			if err != nil {
				return nil, err
			}
			out.Exports = append(out.Exports, e)
		case "type":
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			out.Types = append(out.Types, ty)
		case "func":
			im, err := p.parseFunc()
			if err != nil {
				return nil, err
			}
			out.Imports = append(out.Imports, im)
		case "adapt":
			a, err := p.parseAdapt()
			if err != nil {
				return nil, err
			}
			out.Adapters = append(out.Adapters, a)
		case "forward":
			f, err := p.parseForward()
			if err != nil {
				return nil, err
			}
			out.Forwards = append(out.Forwards, f)
		default:
			return nil, p.errorf("unknown clause kind %q", kind)
		}
		if err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("text: line %d: %s", p.tok.line, fmt.Sprintf(format, args...))
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(k tokenKind) error {
	if p.tok.kind != k {
		return p.errorf("unexpected token")
	}
	return p.advance()
}

func (p *parser) expectAtom(text string) error {
	if p.tok.kind != tokenAtom || p.tok.text != text {
		return p.errorf("expected %q", text)
	}
	return p.advance()
}

func (p *parser) atom() (string, error) {
	if p.tok.kind != tokenAtom {
		return "", p.errorf("expected an atom")
	}
	s := p.tok.text
	return s, p.advance()
}

func (p *parser) str() (string, error) {
	if p.tok.kind != tokenString {
		return "", p.errorf("expected a string literal")
	}
	s := p.tok.text
	return s, p.advance()
}

func (p *parser) peekAtomIs(text string) bool {
	return p.tok.kind == tokenAtom && p.tok.text == text
}

func (p *parser) peekLParen() bool { return p.tok.kind == tokenLParen }

func parseInterfaceType(s string) (api.InterfaceType, error) {
	ty, ok := api.ParseInterfaceType(s)
	if !ok {
		return 0, fmt.Errorf("text: unknown interface type %q", s)
	}
	return ty, nil
}

// parseSignature reads zero or more `(param T...)` / `(result T...)` clauses
// in any order (conventionally params first), stopping at the first token
// that isn't a `(`.
func (p *parser) parseSignature() (inputs, outputs []api.InterfaceType, err error) {
	for p.peekLParen() {
		if err := p.expect(tokenLParen); err != nil {
			return nil, nil, err
		}
		kw, err := p.atom()
		if err != nil {
			return nil, nil, err
		}
		var types []api.InterfaceType
		for p.tok.kind == tokenAtom {
			name, err := p.atom()
			if err != nil {
				return nil, nil, err
			}
			ty, err := parseInterfaceType(name)
			if err != nil {
				return nil, nil, err
			}
			types = append(types, ty)
		}
		if err := p.expect(tokenRParen); err != nil {
			return nil, nil, err
		}
		switch kw {
		case "param":
			inputs = types
		case "result":
			outputs = types
		default:
			return nil, nil, p.errorf("expected param or result, got %q", kw)
		}
	}
	return inputs, outputs, nil
}

func (p *parser) parseExport() (ast.Export, error) {
	name, err := p.str()
	if err != nil {
		return ast.Export{}, err
	}
	inputs, outputs, err := p.parseSignature()
	if err != nil {
		return ast.Export{}, err
	}
	return ast.Export{Name: name, Inputs: inputs, Outputs: outputs}, nil
}

func (p *parser) parseForward() (ast.Forward, error) {
	name, err := p.str()
	if err != nil {
		return ast.Forward{}, err
	}
	return ast.Forward{Name: name}, nil
}

func (p *parser) parseType() (ast.Type, error) {
	name, err := p.str()
	if err != nil {
		return ast.Type{}, err
	}
	var fields []ast.Field
	var types []api.InterfaceType
	for p.peekLParen() {
		if err := p.expect(tokenLParen); err != nil {
			return ast.Type{}, err
		}
		kw, err := p.atom()
		if err != nil {
			return ast.Type{}, err
		}
		switch kw {
		case "field":
			fname, err := p.str()
			if err != nil {
				return ast.Type{}, err
			}
			tyName, err := p.atom()
			if err != nil {
				return ast.Type{}, err
			}
			ty, err := parseInterfaceType(tyName)
			if err != nil {
				return ast.Type{}, err
			}
			fields = append(fields, ast.Field{Name: fname, Type: ty})
		case "types":
			for p.tok.kind == tokenAtom {
				tyName, err := p.atom()
				if err != nil {
					return ast.Type{}, err
				}
				ty, err := parseInterfaceType(tyName)
				if err != nil {
					return ast.Type{}, err
				}
				types = append(types, ty)
			}
		default:
			return ast.Type{}, p.errorf("expected field or types, got %q", kw)
		}
		if err := p.expect(tokenRParen); err != nil {
			return ast.Type{}, err
		}
	}
	return ast.Type{Name: name, Fields: fields, Types: types}, nil
}

func (p *parser) parseFunc() (ast.Import, error) {
	if err := p.expect(tokenLParen); err != nil {
		return ast.Import{}, err
	}
	if err := p.expectAtom("import"); err != nil {
		return ast.Import{}, err
	}
	ns, err := p.str()
	if err != nil {
		return ast.Import{}, err
	}
	name, err := p.str()
	if err != nil {
		return ast.Import{}, err
	}
	if err := p.expect(tokenRParen); err != nil {
		return ast.Import{}, err
	}
	inputs, outputs, err := p.parseSignature()
	if err != nil {
		return ast.Import{}, err
	}
	return ast.Import{Namespace: ns, Name: name, Inputs: inputs, Outputs: outputs}, nil
}

func (p *parser) parseAdapt() (ast.Adapter, error) {
	kind, err := p.atom()
	if err != nil {
		return ast.Adapter{}, err
	}

	a := ast.Adapter{}
	switch kind {
	case "import":
		a.Kind = ast.AdapterImport
		if a.Namespace, err = p.str(); err != nil {
			return ast.Adapter{}, err
		}
		if a.Name, err = p.str(); err != nil {
			return ast.Adapter{}, err
		}
	case "export":
		a.Kind = ast.AdapterExport
		if a.Name, err = p.str(); err != nil {
			return ast.Adapter{}, err
		}
	case "helper":
		a.Kind = ast.AdapterHelper
		if a.Name, err = p.str(); err != nil {
			return ast.Adapter{}, err
		}
	default:
		return ast.Adapter{}, p.errorf("expected import, export, or helper, got %q", kind)
	}

	inputs, outputs, err := p.parseSignature()
	if err != nil {
		return ast.Adapter{}, err
	}
	a.Inputs, a.Outputs = inputs, outputs

	for p.tok.kind == tokenAtom {
		instr, err := p.parseInstruction()
		if err != nil {
			return ast.Adapter{}, err
		}
		a.Instructions = append(a.Instructions, instr)
	}
	return a, nil
}

var mnemonicToOpcode = map[string]ast.Opcode{
	"arg.get":       ast.OpArgGet,
	"call":          ast.OpCall,
	"call-export":   ast.OpCallExport,
	"read-utf8":     ast.OpReadUtf8,
	"write-utf8":    ast.OpWriteUtf8,
	"as-wasm":       ast.OpAsWasm,
	"as-interface":  ast.OpAsInterface,
	"table-ref-add": ast.OpTableRefAdd,
	"table-ref-get": ast.OpTableRefGet,
	"call-method":   ast.OpCallMethod,
	"make-record":   ast.OpMakeRecord,
	"get-field":     ast.OpGetField,
	"const":         ast.OpConst,
	"fold-seq":      ast.OpFoldSeq,
}

func (p *parser) parseInstruction() (ast.Instruction, error) {
	mnemonic, err := p.atom()
	if err != nil {
		return ast.Instruction{}, err
	}
	op, ok := mnemonicToOpcode[mnemonic]
	if !ok {
		return ast.Instruction{}, p.errorf("unknown instruction mnemonic %q", mnemonic)
	}

	instr := ast.Instruction{Op: op}
	switch op {
	case ast.OpArgGet, ast.OpCall:
		n, err := p.atom()
		if err != nil {
			return ast.Instruction{}, err
		}
		idx, err := strconv.ParseUint(n, 10, 32)
		if err != nil {
			return ast.Instruction{}, p.errorf("invalid index %q: %v", n, err)
		}
		instr.Index = uint32(idx)
	case ast.OpCallExport, ast.OpWriteUtf8, ast.OpCallMethod, ast.OpFoldSeq:
		s, err := p.str()
		if err != nil {
			return ast.Instruction{}, err
		}
		instr.Str = s
	case ast.OpReadUtf8, ast.OpTableRefAdd, ast.OpTableRefGet:
		// no operands
	case ast.OpAsWasm, ast.OpAsInterface, ast.OpMakeRecord:
		tyName, err := p.atom()
		if err != nil {
			return ast.Instruction{}, err
		}
		ty, err := parseInterfaceType(tyName)
		if err != nil {
			return ast.Instruction{}, err
		}
		instr.Ty = ty
	case ast.OpGetField:
		tyName, err := p.atom()
		if err != nil {
			return ast.Instruction{}, err
		}
		ty, err := parseInterfaceType(tyName)
		if err != nil {
			return ast.Instruction{}, err
		}
		instr.Ty = ty
		s, err := p.str()
		if err != nil {
			return ast.Instruction{}, err
		}
		instr.Str = s
	case ast.OpConst:
		tyName, err := p.atom()
		if err != nil {
			return ast.Instruction{}, err
		}
		ty, err := parseInterfaceType(tyName)
		if err != nil {
			return ast.Instruction{}, err
		}
		instr.Ty = ty
		v, err := p.parseConstValue(ty)
		if err != nil {
			return ast.Instruction{}, err
		}
		instr.ConstValue = v
	}
	return instr, nil
}

func (p *parser) parseConstValue(ty api.InterfaceType) (api.InterfaceValue, error) {
	switch ty {
	case api.TypeString:
		s, err := p.str()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		return api.NewString(s), nil
	case api.TypeFloat, api.TypeF32, api.TypeF64:
		lit, err := p.atom()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return api.InterfaceValue{}, p.errorf("invalid float literal %q: %v", lit, err)
		}
		switch ty {
		case api.TypeF32:
			return api.NewF32(float32(f)), nil
		case api.TypeF64:
			return api.NewF64(f), nil
		default:
			return api.NewFloat(f), nil
		}
	case api.TypeInt, api.TypeI32, api.TypeI64:
		lit, err := p.atom()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return api.InterfaceValue{}, p.errorf("invalid integer literal %q: %v", lit, err)
		}
		switch ty {
		case api.TypeI32:
			return api.NewI32(int32(n)), nil
		case api.TypeI64:
			return api.NewI64(n), nil
		default:
			return api.NewInt(n), nil
		}
	default:
		return api.InterfaceValue{}, p.errorf("type %s has no const literal form", ty)
	}
}
