// Package emu provides functional CHIP-8 emulation.
package emu

// ALU implements CHIP-8 arithmetic and logic operations.
//
// Flag-producing operations compute both the result and VF from the
// pre-operation register values, then write Vx followed by VF. When x is
// 0xF the flag therefore wins.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// LDImm sets Vx = kk.
func (a *ALU) LDImm(x, kk uint8) {
	a.regFile.WriteReg(x, kk)
}

// ADDImm adds kk to Vx modulo 256. VF is not affected.
func (a *ALU) ADDImm(x, kk uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)+kk)
}

// LD copies Vy into Vx.
func (a *ALU) LD(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(y))
}

// OR performs Vx = Vx | Vy.
func (a *ALU) OR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)|a.regFile.ReadReg(y))
}

// AND performs Vx = Vx & Vy.
func (a *ALU) AND(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)&a.regFile.ReadReg(y))
}

// XOR performs Vx = Vx ^ Vy.
func (a *ALU) XOR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)^a.regFile.ReadReg(y))
}

// ADD performs Vx = Vx + Vy. VF = 1 if the unsigned sum exceeds 255.
func (a *ALU) ADD(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)
	sum := uint16(op1) + uint16(op2)

	a.regFile.WriteReg(x, uint8(sum))
	a.regFile.SetFlag(sum > 0xFF)
}

// SUB performs Vx = Vx - Vy. VF = 1 when no borrow occurs (Vx >= Vy).
func (a *ALU) SUB(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)

	a.regFile.WriteReg(x, op1-op2)
	a.regFile.SetFlag(op1 >= op2)
}

// SUBN performs Vx = Vy - Vx. VF = 1 when no borrow occurs (Vy >= Vx).
func (a *ALU) SUBN(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)

	a.regFile.WriteReg(x, op2-op1)
	a.regFile.SetFlag(op2 >= op1)
}

// SHR shifts Vx right by one. VF receives the bit shifted out.
func (a *ALU) SHR(x uint8) {
	v := a.regFile.ReadReg(x)

	a.regFile.WriteReg(x, v>>1)
	a.regFile.V[FlagRegister] = v & 0x01
}

// SHL shifts Vx left by one. VF receives the bit shifted out.
func (a *ALU) SHL(x uint8) {
	v := a.regFile.ReadReg(x)

	a.regFile.WriteReg(x, v<<1)
	a.regFile.V[FlagRegister] = v >> 7
}
