// Package interpreter implements the single-threaded, cooperative stack
// machine that executes an adapter's instruction stream (spec.md §4.D): it
// reads invocation inputs, walks linear memory, calls guest exports and host
// imports, and marshals values between the core WebAssembly ABI and the
// interface-level type universe.
package interpreter

import (
	"context"
	"math"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
)

// Machine runs an adapter's instructions against one (host-exported,
// guest-exported, memory) Instance triple (spec.md §4.E). Doc supplies the
// interface signatures `call N` type-checks against — the AST the
// instructions were decoded from.
type Machine[E api.Export, I api.LocalImport, M api.Memory[V], V ~byte | ~uint32] struct {
	Instance    api.Instance[E, I, M, V]
	Doc         *ast.Interfaces
	MemoryIndex uint32
}

// Run executes instrs with invocation inputs bound to inputs, per the
// execution contract of spec.md §4.D: starts with an empty stack, ends with
// exactly the declared outputs on the stack (top-down, in declaration
// order). Memory writes already committed before a failing instruction are
// not rolled back.
func (m *Machine[E, I, M, V]) Run(ctx context.Context, instrs []ast.Instruction, inputs []api.InterfaceValue, declaredOutputs []api.InterfaceType) ([]api.InterfaceValue, error) {
	r := &run[E, I, M, V]{machine: m, ctx: ctx, inputs: inputs}

	for _, instr := range instrs {
		if err := r.step(instr); err != nil {
			return nil, err
		}
	}

	if len(r.stack) != len(declaredOutputs) {
		return nil, &api.StackIsTooSmall{Needed: len(declaredOutputs)}
	}
	// spec.md §4.D: the stack's contents, read top-down, are the declared
	// outputs in declaration order — declaredOutputs[0] is the last value
	// pushed, not the first.
	results := make([]api.InterfaceValue, len(declaredOutputs))
	for i, want := range declaredOutputs {
		v := r.stack[len(r.stack)-1-i]
		if got := v.Type(); got != want {
			return nil, &api.TypeMismatch{Expected: want, Got: got}
		}
		results[i] = v
	}
	return results, nil
}

// run holds the mutable state of one Run invocation: the operand stack and
// the bound invocation inputs. It is not reused across calls.
type run[E api.Export, I api.LocalImport, M api.Memory[V], V ~byte | ~uint32] struct {
	machine *Machine[E, I, M, V]
	ctx     context.Context
	inputs  []api.InterfaceValue
	stack   []api.InterfaceValue
}

func (r *run[E, I, M, V]) push(v api.InterfaceValue) { r.stack = append(r.stack, v) }

// pop removes and returns the top n values, in the order they were pushed
// (bottom of the popped window first). It never mutates the stack on
// failure.
func (r *run[E, I, M, V]) pop(n int) ([]api.InterfaceValue, error) {
	if len(r.stack) < n {
		return nil, &api.StackIsTooSmall{Needed: n}
	}
	split := len(r.stack) - n
	out := append([]api.InterfaceValue(nil), r.stack[split:]...)
	r.stack = r.stack[:split]
	return out, nil
}

func (r *run[E, I, M, V]) pop1() (api.InterfaceValue, error) {
	vs, err := r.pop(1)
	if err != nil {
		return api.InterfaceValue{}, err
	}
	return vs[0], nil
}

func (r *run[E, I, M, V]) step(instr ast.Instruction) error {
	switch instr.Op {
	case ast.OpArgGet:
		return r.execArgGet(instr)
	case ast.OpCall:
		return r.execCall(instr)
	case ast.OpCallExport:
		return r.execCallExport(instr)
	case ast.OpReadUtf8:
		return r.execReadUtf8()
	case ast.OpWriteUtf8:
		return r.execWriteUtf8(instr)
	case ast.OpAsWasm:
		return r.execAsWasm(instr)
	case ast.OpAsInterface:
		return r.execAsInterface(instr)
	case ast.OpConst:
		r.push(instr.ConstValue)
		return nil
	default:
		// table-ref-*, call-method, make-record, get-field, fold-seq: decoded
		// and preserved, but spec.md §9 leaves their execution semantics
		// undocumented.
		return &api.UnimplementedInstruction{Opcode: instr.Op.String()}
	}
}

func (r *run[E, I, M, V]) execArgGet(instr ast.Instruction) error {
	idx := int(instr.Index)
	if idx < 0 || idx >= len(r.inputs) {
		return &api.InvocationInputIsMissing{Index: idx}
	}
	r.push(r.inputs[idx])
	return nil
}

func (r *run[E, I, M, V]) execCall(instr ast.Instruction) error {
	wantInputs, wantOutputs, ok := r.machine.Doc.CallTarget(instr.Index)
	if !ok {
		return &api.InvocationInputIsMissing{Index: int(instr.Index)}
	}
	args, err := r.pop(len(wantInputs))
	if err != nil {
		return err
	}
	for i, want := range wantInputs {
		if got := args[i].Type(); got != want {
			return &api.TypeMismatch{Expected: want, Got: got}
		}
	}

	// call N resolves against Imports concatenated with HelperAdapters
	// (spec.md §3.3): an index past the imports is a subroutine defined by
	// this same document, and runs on a fresh stack rather than through a
	// registered host LocalImport.
	numImports := len(r.machine.Doc.Imports)
	var results []api.InterfaceValue
	if int(instr.Index) < numImports {
		imp, ok := r.machine.Instance.LocalImportByIndex(instr.Index)
		if !ok {
			return &api.CallFailed{Name: "import", Cause: &api.InvocationInputIsMissing{Index: int(instr.Index)}}
		}
		results, err = imp.Call(r.ctx, args)
		if err != nil {
			return &api.CallFailed{Name: "import", Cause: err}
		}
	} else {
		helpers := r.machine.Doc.HelperAdapters()
		h := helpers[int(instr.Index)-numImports]
		results, err = r.machine.Run(r.ctx, h.Instructions, args, wantOutputs)
		if err != nil {
			return &api.CallFailed{Name: h.Name, Cause: err}
		}
	}
	if len(results) != len(wantOutputs) {
		return &api.ExportInvalidSignature{Name: "import"}
	}
	for _, v := range results {
		r.push(v)
	}
	return nil
}

func (r *run[E, I, M, V]) execCallExport(instr ast.Instruction) error {
	export, ok := r.machine.Instance.ExportByName(instr.Str)
	if !ok {
		return &api.ExportIsMissing{Name: instr.Str}
	}
	k := export.InputsCardinality()
	args, err := r.pop(k)
	if err != nil {
		return err
	}

	coreArgs := make([]uint64, k)
	for i, v := range args {
		coreArgs[i] = lowerToCore(v)
	}

	coreResults, err := export.Call(r.ctx, coreArgs)
	if err != nil {
		return &api.CallFailed{Name: instr.Str, Cause: err}
	}
	outTypes := export.Outputs()
	if len(coreResults) != len(outTypes) {
		return &api.ExportInvalidSignature{Name: instr.Str}
	}
	for i, ct := range outTypes {
		r.push(liftFromCore(ct, coreResults[i]))
	}
	return nil
}

func (r *run[E, I, M, V]) execReadUtf8() error {
	length, err := r.pop1()
	if err != nil {
		return err
	}
	ptr, err := r.pop1()
	if err != nil {
		return err
	}

	mem, ok := r.machine.Instance.MemoryByIndex(r.machine.MemoryIndex)
	if !ok {
		return &api.MemoryIsMissing{Index: r.machine.MemoryIndex}
	}
	p, l := uint32(ptr.Int()), uint32(length.Int())
	b, ok := mem.View().Bytes(p, l)
	if !ok {
		return &api.MemoryOutOfBounds{Address: p, Length: l}
	}
	if !isValidUtf8(b) {
		return &api.InvalidUtf8{At: p}
	}
	r.push(api.NewString(string(b)))
	return nil
}

func (r *run[E, I, M, V]) execWriteUtf8(instr ast.Instruction) error {
	s, err := r.pop1()
	if err != nil {
		return err
	}
	if s.Type() != api.TypeString {
		return &api.TypeMismatch{Expected: api.TypeString, Got: s.Type()}
	}
	str := s.String()

	allocator, ok := r.machine.Instance.ExportByName(instr.Str)
	if !ok {
		return &api.ExportIsMissing{Name: instr.Str}
	}
	results, err := allocator.Call(r.ctx, []uint64{uint64(len(str))})
	if err != nil {
		return &api.CallFailed{Name: instr.Str, Cause: err}
	}
	if len(results) != 1 {
		return &api.ExportInvalidSignature{Name: instr.Str}
	}
	ptr := uint32(results[0])

	mem, ok := r.machine.Instance.MemoryByIndex(r.machine.MemoryIndex)
	if !ok {
		return &api.MemoryIsMissing{Index: r.machine.MemoryIndex}
	}
	view := mem.View()
	for i := 0; i < len(str); i++ {
		if !view.Store(ptr+uint32(i), V(str[i])) {
			return &api.MemoryOutOfBounds{Address: ptr, Length: uint32(len(str))}
		}
	}

	r.push(api.NewI32(int32(ptr)))
	r.push(api.NewI32(int32(len(str))))
	return nil
}

func (r *run[E, I, M, V]) execAsWasm(instr ast.Instruction) error {
	v, err := r.pop1()
	if err != nil {
		return err
	}
	r.push(projectToScalar(instr.Ty, v))
	return nil
}

func (r *run[E, I, M, V]) execAsInterface(instr ast.Instruction) error {
	v, err := r.pop1()
	if err != nil {
		return err
	}
	r.push(projectToLifted(instr.Ty, v))
	return nil
}

// projectToScalar implements `as-wasm T`: the fixed lifted->raw projection
// (spec.md §4.D). Int/Float widen or narrow to the target raw type's
// native width.
func projectToScalar(ty api.InterfaceType, v api.InterfaceValue) api.InterfaceValue {
	switch ty {
	case api.TypeI32:
		return api.NewI32(int32(v.Int()))
	case api.TypeI64:
		return api.NewI64(v.Int())
	case api.TypeF32:
		return api.NewF32(float32(v.Float()))
	case api.TypeF64:
		return api.NewF64(v.Float())
	default:
		return v
	}
}

// projectToLifted implements `as-interface T`: the dual of projectToScalar.
func projectToLifted(ty api.InterfaceType, v api.InterfaceValue) api.InterfaceValue {
	switch ty {
	case api.TypeInt:
		return api.NewInt(v.Int())
	case api.TypeFloat:
		return api.NewFloat(v.Float())
	default:
		return v
	}
}

// lowerToCore packs an InterfaceValue into the single uint64 core ABI slot
// api.Export.Call expects, per spec.md §4.D's "call through the core ABI".
// This mirrors wazero's own convention: every value is a zero-extended
// bit pattern of its native width.
func lowerToCore(v api.InterfaceValue) uint64 {
	switch v.Type() {
	case api.TypeF32:
		return uint64(math.Float32bits(float32(v.Float())))
	case api.TypeF64, api.TypeFloat:
		return float64bits(v.Float())
	default:
		return uint64(v.Int())
	}
}

// liftFromCore is the dual of lowerToCore, given the core ValueType the
// export declared for that result slot.
func liftFromCore(ct api.ValueType, raw uint64) api.InterfaceValue {
	switch ct {
	case api.ValueTypeI32:
		return api.NewI32(int32(raw))
	case api.ValueTypeI64:
		return api.NewI64(int64(raw))
	case api.ValueTypeF32:
		return api.NewF32(float32bitsToFloat(uint32(raw)))
	case api.ValueTypeF64:
		return api.NewF64(float64bitsToFloat(raw))
	default:
		return api.NewI64(int64(raw))
	}
}
