package wit

import (
	"context"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/hostfunc"
	"github.com/tetratelabs/wit/interpreter"
)

// SectionName is the fixed, unversioned custom section name an
// interface-types document is carried in (spec.md §6, §9 "Treat the format
// as unversioned V0").
const SectionName = "interface-types"

// Module is a decoded interface-types document: read-only for the remainder
// of its lifetime (spec.md §3.4), produced once per core module load by
// Runtime.DecodeModule and shared by every Instance built over it.
type Module struct {
	Doc *ast.Interfaces
}

// ExportAdapter returns the adapter governing name, if the module declares
// one. The boolean is false both when no export named name exists and when
// it exists only as a Forward — forwards bypass the adapter layer entirely
// (spec.md §3.3).
func (m *Module) ExportAdapter(name string) (*ast.Adapter, bool) {
	for i := range m.Doc.Adapters {
		if a := &m.Doc.Adapters[i]; a.Kind == ast.AdapterExport && a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// ImportAdapter returns the adapter lowering a guest's raw core call at
// (namespace, name) into the interface-level host call it ultimately
// dispatches via `call N` (spec.md §3.3, §4.D's import-adapter data flow).
func (m *Module) ImportAdapter(namespace, name string) (*ast.Adapter, bool) {
	for i := range m.Doc.Adapters {
		if a := &m.Doc.Adapters[i]; a.Kind == ast.AdapterImport && a.Namespace == namespace && a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Forwarded reports whether name is re-exported verbatim with no adapter.
func (m *Module) Forwarded(name string) bool {
	for _, f := range m.Doc.Forwards {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Instance is the interface-level view over one already-instantiated core
// module (spec.md §4.G): a Module's AST plus the (host-exported,
// guest-exported, memory) triple api.Instance exposes. Building core is the
// caller's job — wiring a real WebAssembly engine is out of this repo's
// scope (spec.md §1) — Instance only runs adapters against it.
type Instance[E api.Export, I api.LocalImport, M api.Memory[V], V ~byte | ~uint32] struct {
	module      *Module
	core        api.Instance[E, I, M, V]
	memoryIndex uint32
}

// NewInstance builds an Instance over core, addressing memory 0 by default
// (the common case of a single exported/imported memory; spec.md §4.G
// Ordering covers the multi-memory case via WithMemoryIndex).
func NewInstance[E api.Export, I api.LocalImport, M api.Memory[V], V ~byte | ~uint32](
	module *Module, core api.Instance[E, I, M, V],
) *Instance[E, I, M, V] {
	return &Instance[E, I, M, V]{module: module, core: core}
}

// WithMemoryIndex returns a copy of in addressing a different memory index
// (spec.md §4.G's "Ordering": memories are addressed by their 0-based index
// in the concatenation of core exported memories then the conventional
// env/memory import).
func (in *Instance[E, I, M, V]) WithMemoryIndex(index uint32) *Instance[E, I, M, V] {
	cp := *in
	cp.memoryIndex = index
	return &cp
}

// Module returns the decoded document this Instance runs adapters from.
func (in *Instance[E, I, M, V]) Module() *Module { return in.module }

func (in *Instance[E, I, M, V]) machine() *interpreter.Machine[E, I, M, V] {
	return &interpreter.Machine[E, I, M, V]{Instance: in.core, Doc: in.module.Doc, MemoryIndex: in.memoryIndex}
}

// CallExport invokes the guest export named name at the interface level.
// If the module declares an ExportAdapter for it, its instructions lift the
// raw core call's results into the adapter's declared interface outputs
// (spec.md §4.D, export-adapter path: the dual of the import-adapter flow).
// If name is only Forwarded, the call passes straight through the core ABI
// with inputs/outputs carried as raw I64 InterfaceValues, since a Forward
// has no interface-level signature to lift to or from (spec.md §3.3).
func (in *Instance[E, I, M, V]) CallExport(ctx context.Context, name string, inputs []api.InterfaceValue) ([]api.InterfaceValue, error) {
	if a, ok := in.module.ExportAdapter(name); ok {
		return in.machine().Run(ctx, a.Instructions, inputs, a.Outputs)
	}
	return in.callCoreExport(ctx, name, inputs)
}

func (in *Instance[E, I, M, V]) callCoreExport(ctx context.Context, name string, inputs []api.InterfaceValue) ([]api.InterfaceValue, error) {
	export, ok := in.core.ExportByName(name)
	if !ok {
		return nil, &api.ExportIsMissing{Name: name}
	}
	if len(inputs) != export.InputsCardinality() {
		return nil, &api.ExportInvalidSignature{Name: name}
	}
	args := make([]uint64, len(inputs))
	for i, v := range inputs {
		args[i] = uint64(v.Int())
	}
	raw, err := export.Call(ctx, args)
	if err != nil {
		return nil, &api.CallFailed{Name: name, Cause: err}
	}
	results := make([]api.InterfaceValue, len(raw))
	for i, r := range raw {
		results[i] = api.NewI64(int64(r))
	}
	return results, nil
}

// RunImportAdapter executes the ImportAdapter declared at (namespace, name)
// with rawInputs bound as invocation_inputs exactly as the guest's own call
// site supplies them — raw core scalars wrapped as InterfaceValue, before
// any `as-interface`/`read-utf8` lifting runs (spec.md §4.D's import-adapter
// data flow: "host call site -> adapter ... -> calls a guest export ... ->
// returned to host"). This is the trampoline body a core engine's host
// import slot should invoke; gctx, if non-nil, is attached so a registered
// LocalImport declaring *hostfunc.Ctx can retrieve it (spec.md §6).
func (in *Instance[E, I, M, V]) RunImportAdapter(ctx context.Context, namespace, name string, rawInputs []api.InterfaceValue, gctx *hostfunc.Ctx) ([]api.InterfaceValue, error) {
	a, ok := in.module.ImportAdapter(namespace, name)
	if !ok {
		return nil, &api.ExportIsMissing{Name: namespace + "." + name}
	}
	if gctx != nil {
		ctx = hostfunc.WithCtx(ctx, gctx)
	}
	return in.machine().Run(ctx, a.Instructions, rawInputs, a.Outputs)
}
