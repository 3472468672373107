// Package api includes constants and interfaces used by both end-users and
// internal implementations of the interface-types adapter layer.
//
// This mirrors the role of wazero's own api package: a small, dependency-free
// surface of types that decouples the adapter interpreter, the host-function
// marshaller, and the module façade from one another, without any of them
// depending on a concrete core WebAssembly engine.
package api

import "fmt"

// InterfaceType is one of the closed set of interface-level types defined by
// spec.md §3.1. Unlike api.ValueType (the four raw Wasm scalar types), this
// set also includes the lifted/abstract types (Int, Float, Any, String, Seq).
//
// The numeric value of each constant is also its opcode in the binary
// encoding (see package binary), so this ordering is load-bearing: it must
// never be reassigned once published.
type InterfaceType byte

const (
	TypeInt InterfaceType = iota
	TypeFloat
	TypeAny
	TypeString
	TypeSeq
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypeAnyRef
)

// String returns the textual spelling used by package text, e.g. "i32".
func (t InterfaceType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeAny:
		return "any"
	case TypeString:
		return "string"
	case TypeSeq:
		return "seq"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeAnyRef:
		return "anyref"
	default:
		return fmt.Sprintf("unknown(%#x)", byte(t))
	}
}

// ParseInterfaceType returns the InterfaceType whose String() equals s, or
// false if s does not name one.
func ParseInterfaceType(s string) (InterfaceType, bool) {
	for _, t := range allInterfaceTypes {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// allInterfaceTypes enumerates every valid tag, in binary opcode order. A
// decoder rejects any byte not in this set (spec.md §3.1).
var allInterfaceTypes = []InterfaceType{
	TypeInt, TypeFloat, TypeAny, TypeString, TypeSeq,
	TypeI32, TypeI64, TypeF32, TypeF64, TypeAnyRef,
}

// IsValidInterfaceType reports whether b is a known InterfaceType tag.
func IsValidInterfaceType(b byte) bool {
	return b <= byte(TypeAnyRef)
}

// ValueType describes a raw WebAssembly 1.0 (20191205) numeric type, as used
// by core function signatures (the lowered/core half of an adapter). This is
// the same four-member set as wazero's api.ValueType; externref is omitted
// because this module never lowers to it directly (AnyRef is carried as an
// opaque interface value, not projected to a core scalar).
type ValueType = byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)
