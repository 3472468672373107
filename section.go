package wit

import (
	"bytes"
	"fmt"

	"github.com/tetratelabs/wit/internal/leb128"
)

// wasmMagic and wasmVersion are the fixed eight-byte preamble of every
// WebAssembly 1.0 binary module (https://webassembly.github.io/spec/core/binary/modules.html#binary-module).
var (
	wasmMagic   = []byte{0x00, 0x61, 0x73, 0x6d}
	wasmVersion = []byte{0x01, 0x00, 0x00, 0x00}
)

const customSectionID = 0

// FindCustomSection scans a WebAssembly binary module's section headers for
// a custom section named name, returning its payload (spec.md §4.G: "locate
// the custom section named interface-types"). This is the one piece of the
// core binary format this repo reads directly: everything else about
// compiling or validating a module remains the external collaborator's job
// (spec.md §1's Out of scope), but finding a named custom section is pure
// bookkeeping over the section table, not compilation.
//
// It returns ok == false, with no error, when the module is well-formed but
// carries no section of that name — per spec.md §4.G, such a module is
// still usable via the core ABI alone.
func FindCustomSection(wasmBytes []byte, name string) (payload []byte, ok bool, err error) {
	if len(wasmBytes) < 8 || !bytes.Equal(wasmBytes[:4], wasmMagic) || !bytes.Equal(wasmBytes[4:8], wasmVersion) {
		return nil, false, fmt.Errorf("wit: not a WebAssembly binary module")
	}

	pos := uint64(8)
	for pos < uint64(len(wasmBytes)) {
		id := wasmBytes[pos]
		pos++

		size, n, err := leb128.LoadUint32(wasmBytes[pos:])
		if err != nil {
			return nil, false, fmt.Errorf("wit: reading section size at offset %d: %w", pos, err)
		}
		pos += n

		end := pos + uint64(size)
		if end > uint64(len(wasmBytes)) {
			return nil, false, fmt.Errorf("wit: section at offset %d overruns module", pos)
		}
		section := wasmBytes[pos:end]

		if id == customSectionID {
			sectionName, nameLen, err := readSectionName(section)
			if err != nil {
				return nil, false, fmt.Errorf("wit: reading custom section name at offset %d: %w", pos, err)
			}
			if sectionName == name {
				return section[nameLen:], true, nil
			}
		}

		pos = end
	}
	return nil, false, nil
}

func readSectionName(section []byte) (string, uint64, error) {
	length, n, err := leb128.LoadUint32(section)
	if err != nil {
		return "", 0, err
	}
	end := n + uint64(length)
	if end > uint64(len(section)) {
		return "", 0, fmt.Errorf("name length %d overruns section", length)
	}
	return string(section[n:end]), end, nil
}
