package emu

import (
	"errors"
	"fmt"
)

// Memory layout.
const (
	// MemorySize is the size of the CHIP-8 address space.
	MemorySize = 0x1000

	// AddressMask keeps addresses inside the 12-bit address space.
	AddressMask = MemorySize - 1

	// FontBase is where the hexadecimal glyph table is stored.
	FontBase = 0x050

	// GlyphSize is the number of bytes per font glyph.
	GlyphSize = 5

	// ProgramStart is where ROMs are loaded and execution begins.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits between ProgramStart and the
	// end of memory.
	MaxROMSize = MemorySize - ProgramStart
)

// ErrROMTooLarge is returned when a ROM does not fit in program memory.
var ErrROMTooLarge = errors.New("rom too large")

// fontSet holds the 4x5 glyphs for hexadecimal digits 0-F.
var fontSet = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// FontSet returns a copy of the built-in glyph table.
func FontSet() []byte {
	out := make([]byte, len(fontSet))
	copy(out, fontSet[:])
	return out
}

// GlyphAddress returns the address of the glyph for a hexadecimal digit.
func GlyphAddress(digit uint8) uint16 {
	return FontBase + GlyphSize*uint16(digit&0xF)
}

// Memory is the flat 4KB CHIP-8 address space.
// All accessors wrap addresses into the 12-bit range.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates memory with the font table installed.
func NewMemory() *Memory {
	m := &Memory{}
	copy(m.data[FontBase:], fontSet[:])
	return m
}

// LoadProgram copies a ROM image to ProgramStart.
func (m *Memory) LoadProgram(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	copy(m.data[ProgramStart:], rom)
	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint16) byte {
	return m.data[addr&AddressMask]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint16, value byte) {
	m.data[addr&AddressMask] = value
}

// Read16 reads a big-endian 16-bit word, as used for opcodes.
func (m *Memory) Read16(addr uint16) uint16 {
	return uint16(m.Read8(addr))<<8 | uint16(m.Read8(addr+1))
}

// ReadRange copies n bytes starting at addr, wrapping at the end of memory.
func (m *Memory) ReadRange(addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Read8(addr + uint16(i))
	}
	return out
}
