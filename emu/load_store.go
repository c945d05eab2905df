// Package emu provides functional CHIP-8 emulation.
package emu

// LoadStoreUnit implements the CHIP-8 operations that move data between
// the register file and memory through the index register.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LDI sets I = nnn.
func (lsu *LoadStoreUnit) LDI(nnn uint16) {
	lsu.regFile.I = nnn & AddressMask
}

// ADDI adds Vx to I.
func (lsu *LoadStoreUnit) ADDI(x uint8) {
	lsu.regFile.I = (lsu.regFile.I + uint16(lsu.regFile.ReadReg(x))) & AddressMask
}

// LDF points I at the font glyph for the digit in Vx.
func (lsu *LoadStoreUnit) LDF(x uint8) {
	lsu.regFile.I = GlyphAddress(lsu.regFile.ReadReg(x))
}

// LDB stores the decimal digits of Vx at I (hundreds), I+1 (tens) and
// I+2 (ones).
func (lsu *LoadStoreUnit) LDB(x uint8) {
	v := lsu.regFile.ReadReg(x)
	i := lsu.regFile.I

	lsu.memory.Write8(i, v/100)
	lsu.memory.Write8(i+1, (v/10)%10)
	lsu.memory.Write8(i+2, v%10)
}

// STM stores V0 through Vx at I, then advances I by x+1.
func (lsu *LoadStoreUnit) STM(x uint8) {
	i := lsu.regFile.I
	for r := uint8(0); r <= x&0xF; r++ {
		lsu.memory.Write8(i+uint16(r), lsu.regFile.V[r])
	}
	lsu.regFile.I = (i + uint16(x&0xF) + 1) & AddressMask
}

// LDM loads V0 through Vx from I, then advances I by x+1.
func (lsu *LoadStoreUnit) LDM(x uint8) {
	i := lsu.regFile.I
	for r := uint8(0); r <= x&0xF; r++ {
		lsu.regFile.V[r] = lsu.memory.Read8(i + uint16(r))
	}
	lsu.regFile.I = (i + uint16(x&0xF) + 1) & AddressMask
}

// Sprite returns the n sprite rows stored at I.
func (lsu *LoadStoreUnit) Sprite(n uint8) []byte {
	return lsu.memory.ReadRange(lsu.regFile.I, int(n&0xF))
}
