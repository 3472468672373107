package hostfunc

import (
	"context"
	"fmt"
	"reflect"

	"github.com/tetratelabs/wit/api"
)

// funcKind mirrors the FunctionKind switch the teacher's reflect-based Go
// function adapter used to pick a calling convention: the registered
// callable's own parameter shape decides how the trampoline invokes it,
// never an explicit flag set by the caller (spec.md §4.F point 2).
type funcKind int

const (
	funcKindPlain funcKind = iota
	funcKindCtx
)

// StaticFunc is a host function whose interface-level signature is known
// from its Go type at registration time: calls are structurally type
// checked, and (since Go closures already heap-allocate whatever they
// capture) a closure registered here behaves exactly like a non-capturing
// one — no separate environment cell is required the way it would be
// across a non-GC host/guest FFI boundary.
type StaticFunc struct {
	fn      reflect.Value
	kind    funcKind
	inputs  []api.InterfaceType
	outputs []api.InterfaceType
}

var _ api.LocalImport = (*StaticFunc)(nil)

// NewStaticFunc derives a StaticFunc's interface signature from fn's Go
// type. fn must be a func whose non-context parameters and results are each
// one of the types goTypeOf supports, optionally returning a trailing
// error. If fn's first parameter is *hostfunc.Ctx, the trampoline supplies
// it on every call instead of treating it as an interface-level input.
func NewStaticFunc(fn interface{}) (*StaticFunc, error) {
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return nil, fmt.Errorf("hostfunc: %T is not a function", fn)
	}

	kind := funcKindPlain
	paramStart := 0
	if rt.NumIn() > 0 && rt.In(0) == ctxPtrType {
		kind = funcKindCtx
		paramStart = 1
	}

	inputs := make([]api.InterfaceType, 0, rt.NumIn()-paramStart)
	for i := paramStart; i < rt.NumIn(); i++ {
		ty, ok := interfaceTypeOf(rt.In(i))
		if !ok {
			return nil, fmt.Errorf("hostfunc: unsupported parameter %d type %s", i, rt.In(i))
		}
		inputs = append(inputs, ty)
	}

	numOut := rt.NumOut()
	hasErr := numOut > 0 && rt.Out(numOut-1) == errorType
	if hasErr {
		numOut--
	}
	outputs := make([]api.InterfaceType, 0, numOut)
	for i := 0; i < numOut; i++ {
		ty, ok := interfaceTypeOf(rt.Out(i))
		if !ok {
			return nil, fmt.Errorf("hostfunc: unsupported result %d type %s", i, rt.Out(i))
		}
		outputs = append(outputs, ty)
	}

	return &StaticFunc{fn: rv, kind: kind, inputs: inputs, outputs: outputs}, nil
}

func (f *StaticFunc) Inputs() []api.InterfaceType  { return f.inputs }
func (f *StaticFunc) Outputs() []api.InterfaceType { return f.outputs }
func (f *StaticFunc) InputsCardinality() int       { return len(f.inputs) }
func (f *StaticFunc) OutputsCardinality() int      { return len(f.outputs) }

// Call invokes the registered function with args, supplying ctx (a
// *hostfunc.Ctx extracted from the context.Context it was passed under a
// private key — see WithCtx) when the function declared one.
func (f *StaticFunc) Call(ctx context.Context, args []api.InterfaceValue) ([]api.InterfaceValue, error) {
	if len(args) != len(f.inputs) {
		return nil, fmt.Errorf("hostfunc: expected %d argument(s), got %d", len(f.inputs), len(args))
	}

	return guard(func() ([]api.InterfaceValue, error) {
		rt := f.fn.Type()
		in := make([]reflect.Value, rt.NumIn())
		offset := 0
		if f.kind == funcKindCtx {
			gctx, ok := CtxFrom(ctx)
			if !ok {
				return nil, fmt.Errorf("hostfunc: function declared *Ctx but none was supplied")
			}
			in[0] = reflect.ValueOf(gctx)
			offset = 1
		}
		for i, arg := range args {
			want := rt.In(i + offset)
			rv, err := valueToGo(arg, want)
			if err != nil {
				return nil, err
			}
			in[i+offset] = rv
		}

		out := f.fn.Call(in)
		return splitResults(out, len(f.outputs))
	})
}

// splitResults separates a reflect.Call's raw results into the declared
// interface-level outputs and a trailing error, if the function has one.
func splitResults(out []reflect.Value, numOutputs int) ([]api.InterfaceValue, error) {
	if len(out) > numOutputs {
		last := out[len(out)-1]
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
	}
	results := make([]api.InterfaceValue, numOutputs)
	for i := 0; i < numOutputs; i++ {
		results[i] = goToValue(out[i])
	}
	return results, nil
}
