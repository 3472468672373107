package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
)

// Print renders in the canonical form spec.md §4.C describes: a leading
// `;; Interfaces` banner, clauses grouped by category (exports, types,
// imported functions, adapters, forwards) in that order, one blank line
// between clauses, each preceded by a `;; Interface, <Kind> <name>` comment.
func Print(in *ast.Interfaces) string {
	var b strings.Builder
	b.WriteString(";; Interfaces\n")

	for _, e := range in.Exports {
		b.WriteString("\n;; Interface, Export " + e.Name + "\n")
		printExport(&b, e)
	}
	for _, ty := range in.Types {
		b.WriteString("\n;; Interface, Type " + ty.Name + "\n")
		printType(&b, ty)
	}
	for _, im := range in.Imports {
		b.WriteString("\n;; Interface, Import " + im.Namespace + "." + im.Name + "\n")
		printFunc(&b, im)
	}
	for _, a := range in.Adapters {
		b.WriteString("\n;; Interface, Adapter " + adapterLabel(a) + "\n")
		printAdapter(&b, a)
	}
	for _, f := range in.Forwards {
		b.WriteString("\n;; Interface, Forward " + f.Name + "\n")
		fmt.Fprintf(&b, "(@interface forward %q)\n", f.Name)
	}

	return b.String()
}

func adapterLabel(a ast.Adapter) string {
	switch a.Kind {
	case ast.AdapterImport:
		return a.Namespace + "." + a.Name
	default:
		return a.Name
	}
}

func typeNames(types []api.InterfaceType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " ")
}

func printSignature(b *strings.Builder, inputs, outputs []api.InterfaceType) {
	if len(inputs) > 0 {
		fmt.Fprintf(b, "  (param %s)\n", typeNames(inputs))
	}
	if len(outputs) > 0 {
		fmt.Fprintf(b, "  (result %s)\n", typeNames(outputs))
	}
}

func printExport(b *strings.Builder, e ast.Export) {
	fmt.Fprintf(b, "(@interface export %q\n", e.Name)
	printSignature(b, e.Inputs, e.Outputs)
	trimTrailingNewlineThenClose(b)
}

func printFunc(b *strings.Builder, im ast.Import) {
	fmt.Fprintf(b, "(@interface func (import %q %q)\n", im.Namespace, im.Name)
	printSignature(b, im.Inputs, im.Outputs)
	trimTrailingNewlineThenClose(b)
}

func printType(b *strings.Builder, ty ast.Type) {
	fmt.Fprintf(b, "(@interface type %q\n", ty.Name)
	for _, f := range ty.Fields {
		fmt.Fprintf(b, "  (field %q %s)\n", f.Name, f.Type)
	}
	if len(ty.Types) > 0 {
		fmt.Fprintf(b, "  (types %s)\n", typeNames(ty.Types))
	}
	trimTrailingNewlineThenClose(b)
}

func printAdapter(b *strings.Builder, a ast.Adapter) {
	switch a.Kind {
	case ast.AdapterImport:
		fmt.Fprintf(b, "(@interface adapt import %q %q\n", a.Namespace, a.Name)
	case ast.AdapterExport:
		fmt.Fprintf(b, "(@interface adapt export %q\n", a.Name)
	case ast.AdapterHelper:
		fmt.Fprintf(b, "(@interface adapt helper %q\n", a.Name)
	}
	printSignature(b, a.Inputs, a.Outputs)
	for _, instr := range a.Instructions {
		b.WriteString("  ")
		printInstruction(b, instr)
		b.WriteByte('\n')
	}
	trimTrailingNewlineThenClose(b)
}

func printInstruction(b *strings.Builder, instr ast.Instruction) {
	switch instr.Op {
	case ast.OpArgGet, ast.OpCall:
		fmt.Fprintf(b, "%s %d", instr.Op, instr.Index)
	case ast.OpCallExport, ast.OpWriteUtf8, ast.OpCallMethod, ast.OpFoldSeq:
		fmt.Fprintf(b, "%s %q", instr.Op, instr.Str)
	case ast.OpReadUtf8, ast.OpTableRefAdd, ast.OpTableRefGet:
		b.WriteString(instr.Op.String())
	case ast.OpAsWasm, ast.OpAsInterface, ast.OpMakeRecord:
		fmt.Fprintf(b, "%s %s", instr.Op, instr.Ty)
	case ast.OpGetField:
		fmt.Fprintf(b, "%s %s %q", instr.Op, instr.Ty, instr.Str)
	case ast.OpConst:
		fmt.Fprintf(b, "%s %s %s", instr.Op, instr.Ty, printConstLiteral(instr.Ty, instr.ConstValue))
	}
}

func printConstLiteral(ty api.InterfaceType, v api.InterfaceValue) string {
	switch ty {
	case api.TypeString:
		return strconv.Quote(v.String())
	case api.TypeFloat, api.TypeF32, api.TypeF64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	default:
		return strconv.FormatInt(v.Int(), 10)
	}
}

// trimTrailingNewlineThenClose replaces the last "\n" written with ")\n",
// closing the clause's s-expression on the same line as its final child.
func trimTrailingNewlineThenClose(b *strings.Builder) {
	s := b.String()
	s = strings.TrimSuffix(s, "\n")
	b.Reset()
	b.WriteString(s)
	b.WriteString(")\n")
}
