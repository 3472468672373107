package wit

import (
	"fmt"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/hostfunc"
)

// HostModuleBuilder collects the host functions available under one import
// namespace before they are resolved against a Module's declared Imports,
// the way the teacher's own HostModuleBuilder collects api.GoFunction values
// before HostModuleBuilder.Instantiate turns them into a host wasm.Module
// (builder.go). Each method returns the same *HostModuleBuilder so calls
// chain; it is not safe for concurrent use while still being built.
type HostModuleBuilder struct {
	namespace string
	funcs     map[string]api.LocalImport
}

// NewFunction registers fn, a Go function optionally taking *hostfunc.Ctx as
// its first parameter, under name. fn's interface-level signature is derived
// structurally from its Go type (spec.md §4.F's static path); NewFunction
// panics if fn's shape can't be represented in the interface type universe,
// the same way the teacher's WithFunc panics on an unsupported Go type at
// build time rather than deferring the failure to first call.
func (b *HostModuleBuilder) NewFunction(name string, fn interface{}) *HostModuleBuilder {
	sf, err := hostfunc.NewStaticFunc(fn)
	if err != nil {
		panic(fmt.Errorf("wit: host function %s.%s: %w", b.namespace, name, err))
	}
	b.funcs[name] = sf
	return b
}

// NewDynamicFunction registers a variadic host function body under name with
// an explicit FuncSig (spec.md §4.F's dynamic path), for signatures not
// known until runtime.
func (b *HostModuleBuilder) NewDynamicFunction(name string, sig hostfunc.FuncSig, body hostfunc.DynamicBody) *HostModuleBuilder {
	b.funcs[name] = hostfunc.NewDynamicFunc(sig, body)
	return b
}

// Build finalizes this namespace's registrations into a HostModule a Module
// resolves its declared Imports against.
func (b *HostModuleBuilder) Build() *HostModule {
	funcs := make(map[string]api.LocalImport, len(b.funcs))
	for name, f := range b.funcs {
		funcs[name] = f
	}
	return &HostModule{namespace: b.namespace, funcs: funcs}
}

// HostModule is the finalized output of a HostModuleBuilder: every host
// function registered under one namespace, keyed by name, ready to back the
// api.LocalImport side of an Instance's (namespace, name) import resolution
// (spec.md §4.G step 2).
type HostModule struct {
	namespace string
	funcs     map[string]api.LocalImport
}

// Namespace returns the import namespace this HostModule answers for.
func (h *HostModule) Namespace() string { return h.namespace }

// Lookup resolves name within this namespace, or false if nothing was
// registered under it.
func (h *HostModule) Lookup(name string) (api.LocalImport, bool) {
	f, ok := h.funcs[name]
	return f, ok
}

// HostModules is a set of HostModule keyed by namespace, the shape a caller
// assembles once per Runtime and reuses to resolve every Module's imports
// (spec.md §6: "the host supplies a mapping namespace -> name ->
// (function-kind, callable)... consumed once at instantiation").
type HostModules map[string]*HostModule

// NewHostModules indexes modules by their own Namespace.
func NewHostModules(modules ...*HostModule) HostModules {
	out := make(HostModules, len(modules))
	for _, m := range modules {
		out[m.namespace] = m
	}
	return out
}

// Resolve looks up the host function backing decl's (Namespace, Name), or
// false if none was registered — the module's interface Import then becomes
// a dangling interface import per spec.md §4.G step 2, rather than a hard
// load failure.
func (h HostModules) Resolve(decl ast.Import) (api.LocalImport, bool) {
	mod, ok := h[decl.Namespace]
	if !ok {
		return nil, false
	}
	return mod.Lookup(decl.Name)
}

// LocalImportByIndex resolves the 0-based index into doc.Imports against h,
// implementing the lookup half of api.Instance.LocalImportByIndex (spec.md
// §4.E). Returned as a closure so it can be embedded directly into a
// caller's own api.Instance implementation without exposing doc.Imports.
func (h HostModules) LocalImportByIndex(imports []ast.Import) func(index uint32) (api.LocalImport, bool) {
	return func(index uint32) (api.LocalImport, bool) {
		if int(index) >= len(imports) {
			return nil, false
		}
		return h.Resolve(imports[index])
	}
}
