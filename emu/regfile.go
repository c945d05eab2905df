// Package emu provides functional CHIP-8 emulation.
package emu

// NumRegisters is the number of general-purpose V registers.
const NumRegisters = 16

// FlagRegister is the index of VF, which doubles as the carry, borrow and
// collision flag.
const FlagRegister = 0xF

// RegFile represents the CHIP-8 register file.
// It contains 16 general-purpose 8-bit registers (V0-VF), the index
// register, the program counter, both timers and the stack pointer.
type RegFile struct {
	// V holds general-purpose registers V0-VF.
	// V[0xF] is overwritten as a side effect of arithmetic and draw.
	V [NumRegisters]uint8

	// I is the index register. Only the low 12 bits address memory.
	I uint16

	// PC is the program counter.
	PC uint16

	// DT is the delay timer.
	DT uint8

	// ST is the sound timer.
	ST uint8

	// SP mirrors the call stack depth.
	SP uint8
}

// ReadReg reads a V register. Only the low nibble of reg is used.
func (r *RegFile) ReadReg(reg uint8) uint8 {
	return r.V[reg&0xF]
}

// WriteReg writes a V register. Only the low nibble of reg is used.
func (r *RegFile) WriteReg(reg uint8, value uint8) {
	r.V[reg&0xF] = value
}

// SetFlag writes VF as a boolean.
func (r *RegFile) SetFlag(set bool) {
	if set {
		r.V[FlagRegister] = 1
		return
	}
	r.V[FlagRegister] = 0
}

// Flag returns the value of VF.
func (r *RegFile) Flag() uint8 {
	return r.V[FlagRegister]
}

// TickTimers decrements DT and ST by one if they are nonzero.
func (r *RegFile) TickTimers() {
	if r.DT > 0 {
		r.DT--
	}
	if r.ST > 0 {
		r.ST--
	}
}
