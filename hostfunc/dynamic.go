package hostfunc

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wit/api"
)

// DynamicBody is a variadic host function body: it receives the guest Ctx
// (nil if none was attached to the call's context with WithCtx) and the popped
// InterfaceValue arguments directly, and returns results or an error
// (spec.md §4.F point 1, the "dynamic" signature path).
type DynamicBody func(ctx *Ctx, args []api.InterfaceValue) ([]api.InterfaceValue, error)

// DynamicFunc is a host function whose arity and types are supplied
// explicitly as a FuncSig at registration, rather than derived from a Go
// type. This is the only way to register a host function whose signature
// isn't known until runtime (e.g. generated from a schema).
type DynamicFunc struct {
	sig  FuncSig
	body DynamicBody
}

var _ api.LocalImport = (*DynamicFunc)(nil)

// NewDynamicFunc builds a DynamicFunc from an explicit signature and body.
// It panics if sig declares a type with no native Go representation, the
// same way NewStaticFunc's caller is expected to catch shape errors at
// registration time rather than at first call.
func NewDynamicFunc(sig FuncSig, body DynamicBody) *DynamicFunc {
	if err := validateFuncSig(sig); err != nil {
		panic(err)
	}
	return &DynamicFunc{sig: sig, body: body}
}

func (f *DynamicFunc) Inputs() []api.InterfaceType  { return f.sig.Inputs }
func (f *DynamicFunc) Outputs() []api.InterfaceType { return f.sig.Outputs }
func (f *DynamicFunc) InputsCardinality() int       { return len(f.sig.Inputs) }
func (f *DynamicFunc) OutputsCardinality() int      { return len(f.sig.Outputs) }

func (f *DynamicFunc) Call(ctx context.Context, args []api.InterfaceValue) ([]api.InterfaceValue, error) {
	if len(args) != len(f.sig.Inputs) {
		return nil, fmt.Errorf("hostfunc: expected %d argument(s), got %d", len(f.sig.Inputs), len(args))
	}
	gctx, _ := CtxFrom(ctx)
	return guard(func() ([]api.InterfaceValue, error) {
		results, err := f.body(gctx, args)
		if err != nil {
			return nil, err
		}
		if len(results) != len(f.sig.Outputs) {
			return nil, fmt.Errorf("hostfunc: body returned %d result(s), want %d", len(results), len(f.sig.Outputs))
		}
		return results, nil
	})
}
