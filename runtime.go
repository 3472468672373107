// Package wit is the root of the module/instance façade (spec.md §4.G): it
// reads a WebAssembly module's `interface-types` custom section, decodes it
// into an ast.Interfaces document (caching identical bytes across repeated
// loads the way the teacher's wazero.Runtime caches compiled modules), and
// hands back an Instance view that runs adapters against a caller-supplied
// core (host-exported, guest-exported, memory) triple.
//
// Nothing here compiles or executes core WebAssembly bytecode; that remains
// an external collaborator satisfying the bridge contracts of package api
// (spec.md §1's Out of scope section), exactly as the teacher's own
// Runtime delegates machine-code generation to its compiler/interpreter
// engines.
package wit

import (
	"go.uber.org/zap"

	"github.com/tetratelabs/wit/api"
)

// Runtime is the top-level entry point shared by every Module it decodes, in
// the spirit of wazero.Runtime: it owns a RuntimeConfig (logger) and a Cache
// so byte-identical custom sections decode once regardless of how many
// modules load them.
type Runtime struct {
	config *RuntimeConfig
	cache  *Cache
}

// NewRuntime returns a Runtime with the default RuntimeConfig.
func NewRuntime() *Runtime {
	return NewRuntimeWithConfig(NewRuntimeConfig())
}

// NewRuntimeWithConfig returns a Runtime using config, or the default
// RuntimeConfig if config is nil.
func NewRuntimeWithConfig(config *RuntimeConfig) *Runtime {
	if config == nil {
		config = NewRuntimeConfig()
	}
	return &Runtime{config: config, cache: NewCache()}
}

// DecodeModule parses customSection (the body of a section named
// SectionName) into a Module, reusing a prior decode of byte-identical input
// via the Runtime's Cache instead of re-running package binary (spec.md
// §4.G). If the module carries no such section, callers simply never call
// this: a module with no interface-types section is still usable through
// the raw core ABI, per spec.md §4.G.
func (r *Runtime) DecodeModule(customSection []byte) (*Module, error) {
	doc, err := r.cache.decode(customSection)
	if err != nil {
		r.config.logger.Debug("wit: decode interface-types section failed", zap.Error(err))
		return nil, err
	}
	r.config.logger.Debug("wit: decoded interface-types section",
		zap.Int("exports", len(doc.Exports)),
		zap.Int("imports", len(doc.Imports)),
		zap.Int("adapters", len(doc.Adapters)),
		zap.Int("forwards", len(doc.Forwards)),
	)
	return &Module{Doc: doc}, nil
}

// DecodeModuleFromWasm locates the SectionName custom section within a
// WebAssembly binary module and decodes it, per spec.md §4.G. ok is false,
// with a nil error and nil Module, when the module carries no such section
// — it is still a perfectly usable WebAssembly module, just with no
// interface-types view (spec.md §4.G).
func (r *Runtime) DecodeModuleFromWasm(wasmBytes []byte) (module *Module, ok bool, err error) {
	section, found, err := FindCustomSection(wasmBytes, SectionName)
	if err != nil || !found {
		return nil, false, err
	}
	module, err = r.DecodeModule(section)
	if err != nil {
		return nil, false, err
	}
	return module, true, nil
}

// NewHostModuleBuilder starts a HostModuleBuilder for the given import
// namespace (the left half of an ast.Import's (Namespace, Name) key),
// mirroring wazero.Runtime.NewHostModuleBuilder.
func (r *Runtime) NewHostModuleBuilder(namespace string) *HostModuleBuilder {
	return &HostModuleBuilder{namespace: namespace, funcs: map[string]api.LocalImport{}}
}
