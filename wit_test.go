package wit

import (
	"context"

	"github.com/tetratelabs/wit/api"
)

// fakeExport/fakeMemory/fakeInstance mirror the fakes package interpreter
// tests with directly (spec.md §8's scenarios run against a fake core
// triple, never a real WebAssembly engine): this repo never compiles or
// executes real WebAssembly bytes, so the root façade's own tests need the
// same kind of stand-in.

type fakeExport struct {
	in, out []api.ValueType
	call    func(ctx context.Context, args []uint64) ([]uint64, error)
}

func (f *fakeExport) Inputs() []api.ValueType  { return f.in }
func (f *fakeExport) Outputs() []api.ValueType { return f.out }
func (f *fakeExport) InputsCardinality() int   { return len(f.in) }
func (f *fakeExport) OutputsCardinality() int  { return len(f.out) }
func (f *fakeExport) Call(ctx context.Context, args []uint64) ([]uint64, error) {
	return f.call(ctx, args)
}

type fakeMemoryView struct{ buf *[]byte }

func (v *fakeMemoryView) Len() uint32 { return uint32(len(*v.buf)) }
func (v *fakeMemoryView) Load(offset uint32) (byte, bool) {
	if int(offset) >= len(*v.buf) {
		return 0, false
	}
	return (*v.buf)[offset], true
}
func (v *fakeMemoryView) Store(offset uint32, b byte) bool {
	if int(offset) >= len(*v.buf) {
		return false
	}
	(*v.buf)[offset] = b
	return true
}
func (v *fakeMemoryView) Bytes(offset, length uint32) ([]byte, bool) {
	if uint64(offset)+uint64(length) > uint64(len(*v.buf)) {
		return nil, false
	}
	return (*v.buf)[offset : offset+length], true
}

type fakeMemory struct{ buf []byte }

func (m *fakeMemory) View() api.MemoryView[byte] { return &fakeMemoryView{buf: &m.buf} }
func (m *fakeMemory) Size() uint32               { return uint32(len(m.buf)) }

type fakeInstance struct {
	exports map[string]*fakeExport
	imports map[uint32]api.LocalImport
	mems    map[uint32]*fakeMemory
}

func (i *fakeInstance) ExportByName(name string) (*fakeExport, bool) {
	e, ok := i.exports[name]
	return e, ok
}
func (i *fakeInstance) LocalImportByIndex(idx uint32) (api.LocalImport, bool) {
	e, ok := i.imports[idx]
	return e, ok
}
func (i *fakeInstance) MemoryByIndex(idx uint32) (*fakeMemory, bool) {
	m, ok := i.mems[idx]
	return m, ok
}
