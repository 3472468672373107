// Package hostfunc implements spec.md §4.F: binding native Go host
// functions into the `call N` import slots the adapter interpreter invokes,
// with static and dynamic (variadic) registration, optional guest-context
// passing, and panic-safe trap propagation across the host/guest boundary.
package hostfunc

// Ctx is the guest execution context exposed to host function bodies that
// declare it explicitly as their first parameter (spec.md §6). Its public
// surface is deliberately tiny: memory access by index. Host bodies without
// an explicit *Ctx parameter never see one.
type Ctx struct {
	memories []Memory
}

// NewCtx constructs a Ctx over the given memories, addressed by their
// 0-based index in declaration order (spec.md §4.G's "Ordering" rule).
func NewCtx(memories ...Memory) *Ctx { return &Ctx{memories: memories} }

// Memory returns the memory at index, or false if none exists there.
func (c *Ctx) Memory(index uint32) (Memory, bool) {
	if int(index) >= len(c.memories) {
		return Memory{}, false
	}
	return c.memories[index], true
}

// Memory is a bounds-checked, byte-addressed window onto a guest's linear
// memory, the concrete (non-generic) surface hostfunc exposes to host
// bodies — deliberately decoupled from api.Memory[V]'s generic parameter so
// a registered Go function's signature never has to mention it.
type Memory struct {
	bytes func(offset, length uint32) ([]byte, bool)
	size  func() uint32
}

// NewMemory adapts any byte-range accessor (typically backed by an
// api.MemoryView[byte]) into a Memory.
func NewMemory(bytes func(offset, length uint32) ([]byte, bool), size func() uint32) Memory {
	return Memory{bytes: bytes, size: size}
}

// Bytes returns the length bytes starting at offset, or false if that range
// exceeds the memory's extent. The returned slice aliases guest memory.
func (m Memory) Bytes(offset, length uint32) ([]byte, bool) { return m.bytes(offset, length) }

// Size returns the memory's current extent in bytes.
func (m Memory) Size() uint32 { return m.size() }
