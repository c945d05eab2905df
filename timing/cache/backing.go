package cache

import (
	"github.com/sarchlab/c8sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory.
func (m *MemoryBacking) Read(addr uint16, size int) []byte {
	return m.memory.ReadRange(addr, size)
}

// Write stores data to the backing memory.
func (m *MemoryBacking) Write(addr uint16, data []byte) {
	for i, b := range data {
		m.memory.Write8(addr+uint16(i), b)
	}
}
