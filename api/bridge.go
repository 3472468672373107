package api

import "context"

// CallFailed is returned by Export.Call and LocalImport.Call when invocation
// itself could not complete — as opposed to the callee returning normally
// with a RuntimeError payload, which is carried back as a *RuntimeError
// error on the InterfaceValue boundary instead. This mirrors the distinction
// wazero's api.Function.Call draws between a Go-level invocation error and a
// sys.ExitError raised by the guest.
type CallFailed struct {
	// Name is the export or import name that failed to invoke.
	Name string
	// Cause is the underlying error, e.g. an arity/type mismatch or a trap.
	Cause error
}

func (e *CallFailed) Error() string { return "call " + e.Name + " failed: " + e.Cause.Error() }
func (e *CallFailed) Unwrap() error { return e.Cause }

// Export is a guest-exported core function, addressed by name (spec.md
// §4.E). Implementations are provided by whatever core WebAssembly engine is
// embedding this module; none live in this repo.
type Export interface {
	// Inputs are the core (lowered) parameter types.
	Inputs() []ValueType
	// Outputs are the core (lowered) result types.
	Outputs() []ValueType
	// InputsCardinality is len(Inputs()); kept as its own method because
	// some hosts can answer it without materializing the slice.
	InputsCardinality() int
	// OutputsCardinality is len(Outputs()).
	OutputsCardinality() int
	// Call invokes the export with core-level arguments, returning core
	// results encoded the same way api.Function.Call encodes them in
	// wazero: one uint64 per result, reinterpreted per its ValueType.
	Call(ctx context.Context, args []uint64) ([]uint64, error)
}

// LocalImport is a host-provided function visible to the adapter
// interpreter's `call N` instruction. Unlike Export, it is addressed at the
// *interface* level, not the core ABI: `call N`'s table in spec.md §4.D
// type-checks its popped arguments against imports[N]'s declared
// InterfaceTypes and hands them to the host function directly, rather than
// lowering them to raw scalars first. Package hostfunc is responsible for
// projecting between a registered host callable's native Go signature and
// this InterfaceValue boundary; the interpreter never sees the raw ABI for
// a LocalImport the way it does for Export's call-export path.
//
// An import can be resolved lazily and cached (spec.md §4.E, §9 "Lazy cache
// for local-or-import descriptors"): once LocalImportByIndex(i) returns an
// instance, subsequent calls with the same i must return the same identity.
type LocalImport interface {
	Inputs() []InterfaceType
	Outputs() []InterfaceType
	InputsCardinality() int
	OutputsCardinality() int
	Call(ctx context.Context, args []InterfaceValue) ([]InterfaceValue, error)
}

// MemoryView is a bounds-checked, random-access window over V onto a core
// module's linear memory, as returned by Memory.View (spec.md §4.E).
type MemoryView[V ~byte | ~uint32] interface {
	// Len returns the number of addressable elements in the view.
	Len() uint32
	// Load reads the element at offset, or false if out of bounds.
	Load(offset uint32) (V, bool)
	// Store writes v at offset, or false if out of bounds.
	Store(offset uint32, v V) bool
	// Bytes returns the raw byte slice backing the view starting at offset
	// for length bytes, or false if that range is out of bounds. The slice
	// aliases guest memory: writes through it are visible to the guest.
	Bytes(offset, length uint32) ([]byte, bool)
}

// Memory is a guest linear memory, addressable as bytes.
type Memory[V ~byte | ~uint32] interface {
	// View returns a window over the memory's current extent. Callers must
	// re-acquire the view after any operation that can grow memory.
	View() MemoryView[V]
	// Size returns the current size in bytes.
	Size() uint32
}

// Instance is the (host-exported, guest-exported, memory) triple the adapter
// interpreter runs against (spec.md §3.4, §4.E). E is the guest Export type,
// I the host LocalImport type, M the Memory type and V its element type.
//
// local_or_import (here LocalImportByIndex) may lazily construct entries on
// first access; subsequent calls with the same index MUST return the same
// identity, since host functions with captured environments rely on being
// invoked through a stable instance, not freshly reconstructed each time.
type Instance[E Export, I LocalImport, M Memory[V], V ~byte | ~uint32] interface {
	// ExportByName resolves a guest export, or false if none exists.
	ExportByName(name string) (E, bool)
	// LocalImportByIndex resolves the host import at the given 0-based
	// index into the AST's Imports (not the wider imports+helper-adapters
	// `call N` index space: an index past Imports addresses a Helper
	// adapter, which the interpreter runs from its own instruction stream
	// rather than looking up here).
	LocalImportByIndex(index uint32) (I, bool)
	// MemoryByIndex resolves one of the instance's memories, addressed by
	// its 0-based index in the declaration order of spec.md §4.G's
	// "Ordering" rule (core exports, then the conventional env/memory
	// import, concatenated).
	MemoryByIndex(index uint32) (M, bool)
}
