package api

import "fmt"

// InterfaceValue is one variant per primitive interface type, plus String.
// spec.md §3.2: the value model is total for the scalar variants and partial
// for the lifted ones — a Seq value has a tag but, per the Open Questions in
// spec.md §9, no constructor; attempting to build one panics, the same way a
// missing switch case would in the teacher's own exhaustive-switch style.
//
// Invariant: for every InterfaceValue v, v.Type() is defined and total, and
// constructing or reading v never allocates beyond the value itself.
type InterfaceValue struct {
	typ InterfaceType

	i64 uint64  // backs Int, I32, I64, AnyRef (as a raw pointer-sized word)
	f64 float64 // backs Float, F32, F64
	str string  // backs String
}

// Type returns the interface type of v. This is a pure, total function: it
// never allocates and never fails.
func (v InterfaceValue) Type() InterfaceType { return v.typ }

// Int returns the wrapped value for TypeInt, TypeI32, TypeI64 or TypeAnyRef.
func (v InterfaceValue) Int() int64 { return int64(v.i64) }

// Float returns the wrapped value for TypeFloat, TypeF32 or TypeF64.
func (v InterfaceValue) Float() float64 { return v.f64 }

// String returns the wrapped value for TypeString.
func (v InterfaceValue) String() string {
	if v.typ != TypeString {
		return fmt.Sprintf("%s(%v)", v.typ, v.i64)
	}
	return v.str
}

// NewInt constructs a lifted Int value.
func NewInt(v int64) InterfaceValue { return InterfaceValue{typ: TypeInt, i64: uint64(v)} }

// NewFloat constructs a lifted Float value.
func NewFloat(v float64) InterfaceValue { return InterfaceValue{typ: TypeFloat, f64: v} }

// NewString constructs a String value.
func NewString(v string) InterfaceValue { return InterfaceValue{typ: TypeString, str: v} }

// NewI32 constructs a raw core I32 value.
func NewI32(v int32) InterfaceValue { return InterfaceValue{typ: TypeI32, i64: uint64(uint32(v))} }

// NewI64 constructs a raw core I64 value.
func NewI64(v int64) InterfaceValue { return InterfaceValue{typ: TypeI64, i64: uint64(v)} }

// NewF32 constructs a raw core F32 value.
func NewF32(v float32) InterfaceValue { return InterfaceValue{typ: TypeF32, f64: float64(v)} }

// NewF64 constructs a raw core F64 value.
func NewF64(v float64) InterfaceValue { return InterfaceValue{typ: TypeF64, f64: v} }

// NewAnyRef constructs an opaque reference value, carrying an
// implementation-defined handle (e.g. a table index).
func NewAnyRef(handle uint64) InterfaceValue { return InterfaceValue{typ: TypeAnyRef, i64: handle} }

// NewAny is the untyped `any` lifted value; it carries no payload of its own.
func NewAny() InterfaceValue { return InterfaceValue{typ: TypeAny} }

// NewSeq panics: spec.md §3.2 and §9 leave Seq construction unreachable by
// design (no documented element representation exists in the source this was
// distilled from). Implementations must route attempts to build one through
// an *UnimplementedInstruction error instead of calling this.
func NewSeq() InterfaceValue {
	panic("api: Seq values have no constructor (spec.md §9); this is intentionally unreachable")
}
