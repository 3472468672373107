package interpreter

import (
	"context"
	"testing"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/internal/testing/require"
)

type fakeExport struct {
	in, out []api.ValueType
	call    func(ctx context.Context, args []uint64) ([]uint64, error)
}

func (f *fakeExport) Inputs() []api.ValueType   { return f.in }
func (f *fakeExport) Outputs() []api.ValueType  { return f.out }
func (f *fakeExport) InputsCardinality() int    { return len(f.in) }
func (f *fakeExport) OutputsCardinality() int   { return len(f.out) }
func (f *fakeExport) Call(ctx context.Context, args []uint64) ([]uint64, error) {
	return f.call(ctx, args)
}

type fakeLocalImport struct {
	in, out []api.InterfaceType
	call    func(ctx context.Context, args []api.InterfaceValue) ([]api.InterfaceValue, error)
}

func (f *fakeLocalImport) Inputs() []api.InterfaceType  { return f.in }
func (f *fakeLocalImport) Outputs() []api.InterfaceType { return f.out }
func (f *fakeLocalImport) InputsCardinality() int       { return len(f.in) }
func (f *fakeLocalImport) OutputsCardinality() int      { return len(f.out) }
func (f *fakeLocalImport) Call(ctx context.Context, args []api.InterfaceValue) ([]api.InterfaceValue, error) {
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
	imports map[uint32]*fakeLocalImport
	mems    map[uint32]*fakeMemory
}

func (i *fakeInstance) ExportByName(name string) (*fakeExport, bool) {
	e, ok := i.exports[name]
	return e, ok
}
func (i *fakeInstance) LocalImportByIndex(idx uint32) (*fakeLocalImport, bool) {
	e, ok := i.imports[idx]
	return e, ok
}
func (i *fakeInstance) MemoryByIndex(idx uint32) (*fakeMemory, bool) {
	m, ok := i.mems[idx]
	return m, ok
}

func newMachine(doc *ast.Interfaces, inst *fakeInstance) *Machine[*fakeExport, *fakeLocalImport, *fakeMemory, byte] {
	return &Machine[*fakeExport, *fakeLocalImport, *fakeMemory, byte]{Instance: inst, Doc: doc}
}

// TestConsoleLogAdapter is spec.md §8 scenario 2.
func TestConsoleLogAdapter(t *testing.T) {
	doc := &ast.Interfaces{
		Imports: []ast.Import{
			{Namespace: "host", Name: "console_log", Inputs: []api.InterfaceType{api.TypeString}},
		},
	}
	instrs := []ast.Instruction{
		{Op: ast.OpArgGet, Index: 0},
		{Op: ast.OpArgGet, Index: 0},
		{Op: ast.OpCallExport, Str: "strlen"},
		{Op: ast.OpReadUtf8},
		{Op: ast.OpCall, Index: 0},
	}

	var received string
	mem := &fakeMemory{buf: append(make([]byte, 7), []byte("hello!\x00")...)}
	inst := &fakeInstance{
		exports: map[string]*fakeExport{
			"strlen": {
				in: []api.ValueType{api.ValueTypeI32}, out: []api.ValueType{api.ValueTypeI32},
				call: func(ctx context.Context, args []uint64) ([]uint64, error) {
					ptr := args[0]
					n := uint64(0)
					for ptr+n < uint64(len(mem.buf)) && mem.buf[ptr+n] != 0 {
						n++
					}
					return []uint64{n}, nil
				},
			},
		},
		imports: map[uint32]*fakeLocalImport{
			0: {
				in: []api.InterfaceType{api.TypeString},
				call: func(ctx context.Context, args []api.InterfaceValue) ([]api.InterfaceValue, error) {
					received = args[0].String()
					return nil, nil
				},
			},
		},
		mems: map[uint32]*fakeMemory{0: mem},
	}

	m := newMachine(doc, inst)
	out, err := m.Run(context.Background(), instrs, []api.InterfaceValue{api.NewI32(7), api.NewI32(42)}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, len(out))
	require.Equal(t, "hello!", received)
}

// TestDocumentTitleAdapter is spec.md §8 scenario 3.
func TestDocumentTitleAdapter(t *testing.T) {
	doc := &ast.Interfaces{
		Imports: []ast.Import{
			{Namespace: "host", Name: "document_title", Outputs: []api.InterfaceType{api.TypeString}},
		},
	}
	instrs := []ast.Instruction{
		{Op: ast.OpCall, Index: 0},
		{Op: ast.OpWriteUtf8, Str: "alloc"},
		{Op: ast.OpCallExport, Str: "write_null_byte"},
	}

	mem := &fakeMemory{buf: make([]byte, 16)}
	inst := &fakeInstance{
		exports: map[string]*fakeExport{
			"alloc": {
				in: []api.ValueType{api.ValueTypeI32}, out: []api.ValueType{api.ValueTypeI32},
				call: func(ctx context.Context, args []uint64) ([]uint64, error) {
					return []uint64{0}, nil // always allocate at offset 0
				},
			},
			"write_null_byte": {
				in: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, out: []api.ValueType{api.ValueTypeI32},
				call: func(ctx context.Context, args []uint64) ([]uint64, error) {
					ptr, length := args[0], args[1]
					mem.buf[ptr+length] = 0
					return []uint64{ptr}, nil
				},
			},
		},
		imports: map[uint32]*fakeLocalImport{
			0: {
				out: []api.InterfaceType{api.TypeString},
				call: func(ctx context.Context, args []api.InterfaceValue) ([]api.InterfaceValue, error) {
					return []api.InterfaceValue{api.NewString("Page")}, nil
				},
			},
		},
		mems: map[uint32]*fakeMemory{0: mem},
	}

	m := newMachine(doc, inst)
	out, err := m.Run(context.Background(), instrs, nil, []api.InterfaceType{api.TypeI32})
	require.NoError(t, err)
	require.Equal(t, 1, len(out))
	require.Equal(t, int64(0), out[0].Int())
	require.Equal(t, "Page", string(mem.buf[0:4]))
	require.Equal(t, byte(0), mem.buf[4])
}

func TestReadUtf8_MemoryOutOfBounds(t *testing.T) {
	doc := &ast.Interfaces{}
	instrs := []ast.Instruction{
		{Op: ast.OpArgGet, Index: 0},
		{Op: ast.OpArgGet, Index: 1},
		{Op: ast.OpReadUtf8},
	}
	inst := &fakeInstance{mems: map[uint32]*fakeMemory{0: {buf: []byte("hi")}}}
	m := newMachine(doc, inst)
	_, err := m.Run(context.Background(), instrs, []api.InterfaceValue{api.NewI32(0), api.NewI32(100)}, nil)
	require.Error(t, err)
}

func TestRun_StackUnderflow(t *testing.T) {
	doc := &ast.Interfaces{}
	instrs := []ast.Instruction{{Op: ast.OpReadUtf8}}
	inst := &fakeInstance{}
	m := newMachine(doc, inst)
	_, err := m.Run(context.Background(), instrs, nil, nil)
	require.Error(t, err)
}

func TestRun_ReservedOpcodeIsUnimplemented(t *testing.T) {
	doc := &ast.Interfaces{}
	instrs := []ast.Instruction{{Op: ast.OpFoldSeq, Str: "x"}}
	inst := &fakeInstance{}
	m := newMachine(doc, inst)
	_, err := m.Run(context.Background(), instrs, nil, nil)
	require.Error(t, err)

	var unimpl *api.UnimplementedInstruction
	if e, ok := err.(*api.UnimplementedInstruction); ok {
		unimpl = e
	}
	require.Equal(t, true, unimpl != nil)
}

// TestRun_MultiOutputIsTopDownInDeclarationOrder pins spec.md §4.D's
// "the stack's contents — top-down in declaration order — constitute the
// return values": the last instruction to push ends up on top of the stack,
// and so becomes out[0]; the first instruction's pushed value, buried
// deepest, becomes the last declared output.
func TestRun_MultiOutputIsTopDownInDeclarationOrder(t *testing.T) {
	doc := &ast.Interfaces{}
	instrs := []ast.Instruction{
		{Op: ast.OpConst, Ty: api.TypeI32, ConstValue: api.NewI32(1)},
		{Op: ast.OpConst, Ty: api.TypeI32, ConstValue: api.NewI32(2)},
		{Op: ast.OpConst, Ty: api.TypeI32, ConstValue: api.NewI32(3)},
	}
	inst := &fakeInstance{}
	m := newMachine(doc, inst)

	out, err := m.Run(context.Background(), instrs, nil, []api.InterfaceType{api.TypeI32, api.TypeI32, api.TypeI32})
	require.NoError(t, err)
	require.Equal(t, 3, len(out))
	require.Equal(t, int64(3), out[0].Int())
	require.Equal(t, int64(2), out[1].Int())
	require.Equal(t, int64(1), out[2].Int())
}

func TestRun_EmptyStreamWithDeclaredOutputsErrors(t *testing.T) {
	doc := &ast.Interfaces{}
	inst := &fakeInstance{}
	m := newMachine(doc, inst)
	_, err := m.Run(context.Background(), nil, nil, []api.InterfaceType{api.TypeI32})
	require.Error(t, err)
}
