// Package emu provides functional CHIP-8 emulation.
package emu

import "fmt"

// InstructionSize is the width of every CHIP-8 instruction in bytes.
const InstructionSize = 2

// BranchUnit implements jumps, subroutine calls and conditional skips.
//
// All methods run after the fetch stage has already advanced PC past the
// current instruction, so PC holds the address of the next instruction.
type BranchUnit struct {
	regFile *RegFile
	stack   *CallStack
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file and call stack.
func NewBranchUnit(regFile *RegFile, stack *CallStack) *BranchUnit {
	return &BranchUnit{regFile: regFile, stack: stack}
}

// JP jumps to nnn.
func (b *BranchUnit) JP(nnn uint16) {
	b.regFile.PC = nnn & AddressMask
}

// JPV0 jumps to nnn + V0.
func (b *BranchUnit) JPV0(nnn uint16) {
	b.regFile.PC = (nnn + uint16(b.regFile.V[0])) & AddressMask
}

// CALL pushes the address of the following instruction and jumps to nnn.
// On overflow neither PC nor the stack change.
func (b *BranchUnit) CALL(nnn uint16) error {
	if err := b.stack.Push(b.regFile.PC); err != nil {
		return fmt.Errorf("CALL %03X: %w", nnn, err)
	}
	b.regFile.SP = uint8(b.stack.Depth())
	b.regFile.PC = nnn & AddressMask
	return nil
}

// RET pops the most recent return address into PC.
func (b *BranchUnit) RET() error {
	addr, err := b.stack.Pop()
	if err != nil {
		return fmt.Errorf("RET: %w", err)
	}
	b.regFile.SP = uint8(b.stack.Depth())
	b.regFile.PC = addr
	return nil
}

// SkipIf skips the next instruction when cond holds.
func (b *BranchUnit) SkipIf(cond bool) {
	if cond {
		b.regFile.PC += InstructionSize
	}
}

// SEImm skips if Vx == kk.
func (b *BranchUnit) SEImm(x, kk uint8) {
	b.SkipIf(b.regFile.ReadReg(x) == kk)
}

// SNEImm skips if Vx != kk.
func (b *BranchUnit) SNEImm(x, kk uint8) {
	b.SkipIf(b.regFile.ReadReg(x) != kk)
}

// SEReg skips if Vx == Vy.
func (b *BranchUnit) SEReg(x, y uint8) {
	b.SkipIf(b.regFile.ReadReg(x) == b.regFile.ReadReg(y))
}

// SNEReg skips if Vx != Vy.
func (b *BranchUnit) SNEReg(x, y uint8) {
	b.SkipIf(b.regFile.ReadReg(x) != b.regFile.ReadReg(y))
}
