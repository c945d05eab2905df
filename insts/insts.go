// Package insts provides CHIP-8 instruction definitions and decoding.
//
// This package implements decoding of 16-bit CHIP-8 opcodes into structured
// instruction representations. It covers the full 35-instruction set:
//   - Control flow: SYS, JP, JP V0, CALL, RET, SE, SNE
//   - Load/move: LD Vx, LD I, LD [I], LD Vx [I]
//   - ALU: OR, AND, XOR, ADD, SUB, SUBN, SHR, SHL
//   - Display: CLS, DRW
//   - Timers, keypad and misc: LD DT/ST, ADD I, LD F, LD B, SKP, SKNP, LD Vx K
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x8014) // ADD V0, V1
//	fmt.Printf("Op: %v, X: %d, Y: %d\n", inst.Op, inst.X, inst.Y)
package insts
