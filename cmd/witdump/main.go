// Command witdump decodes the interface-types custom section of a compiled
// WebAssembly module (or a standalone binary/text adapter file) and prints
// it in its canonical `(@interface ...)` textual form, the narrow diagnostic
// analogue of the teacher's own `cmd/wazero` subcommands but scoped to this
// repo's own decoder/printer rather than a full run-a-program CLI (spec.md
// §1's Out of scope excludes "the command-line front-end" — a wasmer/wazero
// style runner — not a decode-and-print tool over this module's own AST).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tetratelabs/wit"
	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/binary"
	"github.com/tetratelabs/wit/text"
)

func main() {
	cmd := &cli.Command{
		Name:  "witdump",
		Usage: "decode and print a WebAssembly module's interface-types custom section",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "text",
				Usage: "treat the input file as the textual (@interface ...) source instead of a .wasm binary",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "treat the input file as a raw interface-types section payload instead of a whole .wasm module",
			},
		},
		ArgsUsage: "<file>",
		Action:    run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "witdump:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("missing path to a .wasm, raw section, or text adapter file")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := decodeDoc(b, cmd.Bool("text"), cmd.Bool("raw"))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprint(cmd.Writer, text.Print(doc))
	return nil
}

// decodeDoc is separated out from run for the purpose of unit testing,
// mirroring the teacher's own doMain/doCompile split in cmd/wazero.
func decodeDoc(b []byte, textMode, rawMode bool) (*ast.Interfaces, error) {
	switch {
	case textMode:
		return text.Parse(string(b))
	case rawMode:
		return binary.Decode(b)
	default:
		r := wit.NewRuntime()
		module, ok, err := r.DecodeModuleFromWasm(b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("carries no %q custom section", wit.SectionName)
		}
		return module.Doc, nil
	}
}
