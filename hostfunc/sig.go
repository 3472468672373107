package hostfunc

import (
	"fmt"
	"reflect"

	"github.com/tetratelabs/wit/api"
)

// FuncSig declares the interface-level arity and types of a dynamic host
// function, supplied at registration time since a variadic Go signature
// carries no static type information of its own (spec.md §4.F).
type FuncSig struct {
	Inputs  []api.InterfaceType
	Outputs []api.InterfaceType
}

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	ctxPtrType = reflect.TypeOf((*Ctx)(nil))
)

// goTypeOf returns the reflect.Type a registered static host function must
// use for an interface-level parameter or result of type t. Only the types
// with an unambiguous native Go representation are supported; String needs
// no pointer/length pair here because hostfunc operates above the memory
// boundary — by the time a value reaches a registered Go function, package
// interpreter has already lifted it to this representation.
func goTypeOf(t api.InterfaceType) (reflect.Type, bool) {
	switch t {
	case api.TypeString:
		return reflect.TypeOf(""), true
	case api.TypeInt:
		return reflect.TypeOf(int64(0)), true
	case api.TypeFloat:
		return reflect.TypeOf(float64(0)), true
	case api.TypeI32:
		return reflect.TypeOf(int32(0)), true
	case api.TypeI64:
		return reflect.TypeOf(int64(0)), true
	case api.TypeF32:
		return reflect.TypeOf(float32(0)), true
	case api.TypeF64:
		return reflect.TypeOf(float64(0)), true
	default:
		return nil, false
	}
}

// validateFuncSig checks that every type sig declares has a representation a
// registered Go body could plausibly produce or consume, per goTypeOf. It
// rejects a dynamic registration for a lifted type with no native Go shape
// (Any, Seq, AnyRef) before the first call rather than failing arity
// checking obscurely at Call time.
func validateFuncSig(sig FuncSig) error {
	for i, t := range sig.Inputs {
		if _, ok := goTypeOf(t); !ok {
			return fmt.Errorf("hostfunc: input %d has no native Go representation: %s", i, t)
		}
	}
	for i, t := range sig.Outputs {
		if _, ok := goTypeOf(t); !ok {
			return fmt.Errorf("hostfunc: output %d has no native Go representation: %s", i, t)
		}
	}
	return nil
}

// interfaceTypeOf is the InterfaceType a static host function's declared Go
// parameter/result type corresponds to. It is not an exact inverse of
// goTypeOf: int64 maps to the lifted Int and float64 to the lifted Float,
// never to I64 or F64.
func interfaceTypeOf(rt reflect.Type) (api.InterfaceType, bool) {
	switch rt.Kind() {
	case reflect.String:
		return api.TypeString, true
	case reflect.Int32:
		return api.TypeI32, true
	case reflect.Int64:
		return api.TypeInt, true
	case reflect.Float32:
		return api.TypeF32, true
	case reflect.Float64:
		return api.TypeFloat, true
	default:
		return 0, false
	}
}

func valueToGo(v api.InterfaceValue, want reflect.Type) (reflect.Value, error) {
	switch want.Kind() {
	case reflect.String:
		return reflect.ValueOf(v.String()), nil
	case reflect.Int32:
		return reflect.ValueOf(int32(v.Int())), nil
	case reflect.Int64:
		return reflect.ValueOf(v.Int()), nil
	case reflect.Float32:
		return reflect.ValueOf(float32(v.Float())), nil
	case reflect.Float64:
		return reflect.ValueOf(v.Float()), nil
	default:
		return reflect.Value{}, fmt.Errorf("hostfunc: unsupported parameter type %s", want)
	}
}

func goToValue(rv reflect.Value) api.InterfaceValue {
	switch rv.Kind() {
	case reflect.String:
		return api.NewString(rv.String())
	case reflect.Int32:
		return api.NewI32(int32(rv.Int()))
	case reflect.Int64:
		return api.NewInt(rv.Int())
	case reflect.Float32:
		return api.NewF32(float32(rv.Float()))
	case reflect.Float64:
		return api.NewFloat(rv.Float())
	default:
		panic(fmt.Errorf("hostfunc: unsupported result kind %s", rv.Kind()))
	}
}
