package ast

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants spec.md §3.3 imposes on an
// Interfaces AST: unique names within each vector, every Adapter pointing at
// a matching declared Import/Export, and every `call N` instruction
// resolving within the imports+helpers index space. It does not check core
// module compatibility (whether a guest export with the right core types
// actually exists) — that is the module façade's job, since it alone has
// access to the core instance (spec.md §4.G).
func (in *Interfaces) Validate() error {
	var errs []error

	seenExport := map[string]bool{}
	for _, e := range in.Exports {
		if seenExport[e.Name] {
			errs = append(errs, fmt.Errorf("duplicate export %q", e.Name))
		}
		seenExport[e.Name] = true
	}

	seenImport := map[string]bool{}
	for _, i := range in.Imports {
		key := i.Namespace + "." + i.Name
		if seenImport[key] {
			errs = append(errs, fmt.Errorf("duplicate import %s", key))
		}
		seenImport[key] = true
	}

	seenType := map[string]bool{}
	for _, ty := range in.Types {
		if seenType[ty.Name] {
			errs = append(errs, fmt.Errorf("duplicate type %q", ty.Name))
		}
		seenType[ty.Name] = true
	}

	seenAdapter := map[string]bool{}
	for _, a := range in.Adapters {
		if a.Name == "" {
			continue // anonymous import/export adapters don't need a unique key
		}
		if seenAdapter[a.Name] {
			errs = append(errs, fmt.Errorf("duplicate adapter %q", a.Name))
		}
		seenAdapter[a.Name] = true
	}

	for _, a := range in.Adapters {
		switch a.Kind {
		case AdapterImport:
			key := a.Namespace + "." + a.Name
			if !seenImport[key] {
				errs = append(errs, fmt.Errorf("import adapter %s has no matching Import declaration", key))
			}
		case AdapterExport:
			if !seenExport[a.Name] {
				errs = append(errs, fmt.Errorf("export adapter %q has no matching Export declaration", a.Name))
			}
		}
	}

	callTargetCount := len(in.Imports) + len(in.HelperAdapters())
	for _, a := range in.Adapters {
		for _, instr := range a.Instructions {
			if instr.Op != OpCall {
				continue
			}
			if int(instr.Index) >= callTargetCount {
				errs = append(errs, fmt.Errorf("adapter %q: call %d exceeds imports+helpers count %d",
					a.Name, instr.Index, callTargetCount))
			}
		}
	}

	return errors.Join(errs...)
}
