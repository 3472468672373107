package wit

import (
	"crypto/sha256"
	"sync"

	"github.com/tetratelabs/wit/ast"
	"github.com/tetratelabs/wit/binary"
)

// Cache memoizes the decoded Interfaces AST for a custom section's bytes,
// keyed by content hash, the same way the teacher's own Cache keeps a
// compiled module alive across multiple instantiations of identical bytes
// rather than re-running the (here, much cheaper) compile step each time.
//
// A Cache is safe for concurrent use; it is not bound to any one Runtime.
type Cache struct {
	mu      sync.Mutex
	entries map[[sha256.Size]byte]*ast.Interfaces
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[[sha256.Size]byte]*ast.Interfaces{}}
}

// decode returns the Interfaces decoded from section, reusing a prior
// decode of byte-identical input instead of running package binary again.
func (c *Cache) decode(section []byte) (*ast.Interfaces, error) {
	key := sha256.Sum256(section)

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	doc, err := binary.Decode(section)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = doc
	c.mu.Unlock()
	return doc, nil
}
