// Package insts provides CHIP-8 instruction definitions and decoding.
package insts

import "fmt"

// Op represents a CHIP-8 operation.
type Op uint8

// CHIP-8 operations.
const (
	OpUnknown Op = iota
	OpSYS        // 0nnn
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEImm      // 3xkk
	OpSNEImm     // 4xkk
	OpSEReg      // 5xy0
	OpLDImm      // 6xkk
	OpADDImm     // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADD        // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpSTM        // Fx55
	OpLDM        // Fx65
)

var opNames = [...]string{
	OpUnknown: "???",
	OpSYS:     "SYS",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpSTM:     "LD",
	OpLDM:     "LD",
}

// String returns the assembler mnemonic of the operation.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Format groups operations by the execution unit that handles them.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatSystem         // SYS: ignored machine-code routine call
	FormatBranch         // JP, JP V0, CALL, RET
	FormatSkip           // SE, SNE (immediate and register)
	FormatALU            // register-to-register arithmetic and logic
	FormatImm            // LD Vx/I immediate, ADD Vx immediate, RND
	FormatLoadStore      // LD [I], LD Vx [I], LD B, LD F, ADD I
	FormatDisplay        // CLS, DRW
	FormatTimer          // LD Vx DT, LD DT Vx, LD ST Vx
	FormatInput          // SKP, SKNP, LD Vx K
)

// NumRegisters is the number of V registers an operand may name.
const NumRegisters = 16

// Instruction represents a decoded CHIP-8 instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Execution unit group

	Word uint16 // Raw opcode as fetched

	// Operand fields. All of them are extracted for every instruction;
	// each operation reads only the ones it needs.
	X   uint8  // Register index from bits [11:8]
	Y   uint8  // Register index from bits [7:4]
	N   uint8  // Low nibble, bits [3:0]
	KK  uint8  // Immediate byte, bits [7:0]
	NNN uint16 // 12-bit address, bits [11:0]
}

// String renders the instruction in conventional CHIP-8 assembler syntax.
func (i *Instruction) String() string {
	switch i.Op {
	case OpCLS, OpRET:
		return i.Op.String()
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("%s $%03X", i.Op, i.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP V0, $%03X", i.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("%s V%X, $%02X", i.Op, i.X, i.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADD, OpSUB, OpSUBN:
		return fmt.Sprintf("%s V%X, V%X", i.Op, i.X, i.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", i.Op, i.X)
	case OpLDI:
		return fmt.Sprintf("LD I, $%03X", i.NNN)
	case OpDRW:
		return fmt.Sprintf("DRW V%X, V%X, $%X", i.X, i.Y, i.N)
	case OpLDVxDT:
		return fmt.Sprintf("LD V%X, DT", i.X)
	case OpLDVxK:
		return fmt.Sprintf("LD V%X, K", i.X)
	case OpLDDTVx:
		return fmt.Sprintf("LD DT, V%X", i.X)
	case OpLDSTVx:
		return fmt.Sprintf("LD ST, V%X", i.X)
	case OpADDI:
		return fmt.Sprintf("ADD I, V%X", i.X)
	case OpLDF:
		return fmt.Sprintf("LD F, V%X", i.X)
	case OpLDB:
		return fmt.Sprintf("LD B, V%X", i.X)
	case OpSTM:
		return fmt.Sprintf("LD [I], V%X", i.X)
	case OpLDM:
		return fmt.Sprintf("LD V%X, [I]", i.X)
	default:
		return fmt.Sprintf("DW $%04X", i.Word)
	}
}

// Decoder decodes CHIP-8 opcodes into instructions.
type Decoder struct{}

// NewDecoder creates a new CHIP-8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit big-endian CHIP-8 opcode.
// Opcodes that do not map to a known instruction decode to OpUnknown.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{
		Op:     OpUnknown,
		Format: FormatUnknown,
		Word:   word,
		X:      uint8((word >> 8) & 0xF),
		Y:      uint8((word >> 4) & 0xF),
		N:      uint8(word & 0xF),
		KK:     uint8(word & 0xFF),
		NNN:    word & 0x0FFF,
	}
	inst.checkRegisters()

	switch word >> 12 {
	case 0x0:
		d.decodeSystem(inst)
	case 0x1:
		inst.set(OpJP, FormatBranch)
	case 0x2:
		inst.set(OpCALL, FormatBranch)
	case 0x3:
		inst.set(OpSEImm, FormatSkip)
	case 0x4:
		inst.set(OpSNEImm, FormatSkip)
	case 0x5:
		if inst.N == 0 {
			inst.set(OpSEReg, FormatSkip)
		}
	case 0x6:
		inst.set(OpLDImm, FormatImm)
	case 0x7:
		inst.set(OpADDImm, FormatImm)
	case 0x8:
		d.decodeALU(inst)
	case 0x9:
		if inst.N == 0 {
			inst.set(OpSNEReg, FormatSkip)
		}
	case 0xA:
		inst.set(OpLDI, FormatImm)
	case 0xB:
		inst.set(OpJPV0, FormatBranch)
	case 0xC:
		inst.set(OpRND, FormatImm)
	case 0xD:
		inst.set(OpDRW, FormatDisplay)
	case 0xE:
		d.decodeKeypad(inst)
	case 0xF:
		d.decodeMisc(inst)
	}

	return inst
}

// checkRegisters asserts that both register operands index the V file.
func (i *Instruction) checkRegisters() {
	if int(i.X) >= NumRegisters || int(i.Y) >= NumRegisters {
		panic(fmt.Sprintf("insts: register index out of range in opcode %04X", i.Word))
	}
}

func (i *Instruction) set(op Op, format Format) {
	i.Op = op
	i.Format = format
}

// decodeSystem splits family 0x0 into CLS, RET and SYS.
func (d *Decoder) decodeSystem(inst *Instruction) {
	switch inst.Word {
	case 0x00E0:
		inst.set(OpCLS, FormatDisplay)
	case 0x00EE:
		inst.set(OpRET, FormatBranch)
	default:
		inst.set(OpSYS, FormatSystem)
	}
}

// decodeALU decodes family 0x8 on the low nibble.
func (d *Decoder) decodeALU(inst *Instruction) {
	switch inst.N {
	case 0x0:
		inst.set(OpLDReg, FormatALU)
	case 0x1:
		inst.set(OpOR, FormatALU)
	case 0x2:
		inst.set(OpAND, FormatALU)
	case 0x3:
		inst.set(OpXOR, FormatALU)
	case 0x4:
		inst.set(OpADD, FormatALU)
	case 0x5:
		inst.set(OpSUB, FormatALU)
	case 0x6:
		inst.set(OpSHR, FormatALU)
	case 0x7:
		inst.set(OpSUBN, FormatALU)
	case 0xE:
		inst.set(OpSHL, FormatALU)
	}
}

// decodeKeypad decodes family 0xE on the low byte.
func (d *Decoder) decodeKeypad(inst *Instruction) {
	switch inst.KK {
	case 0x9E:
		inst.set(OpSKP, FormatInput)
	case 0xA1:
		inst.set(OpSKNP, FormatInput)
	}
}

// decodeMisc decodes family 0xF on the low byte.
func (d *Decoder) decodeMisc(inst *Instruction) {
	switch inst.KK {
	case 0x07:
		inst.set(OpLDVxDT, FormatTimer)
	case 0x0A:
		inst.set(OpLDVxK, FormatInput)
	case 0x15:
		inst.set(OpLDDTVx, FormatTimer)
	case 0x18:
		inst.set(OpLDSTVx, FormatTimer)
	case 0x1E:
		inst.set(OpADDI, FormatLoadStore)
	case 0x29:
		inst.set(OpLDF, FormatLoadStore)
	case 0x33:
		inst.set(OpLDB, FormatLoadStore)
	case 0x55:
		inst.set(OpSTM, FormatLoadStore)
	case 0x65:
		inst.set(OpLDM, FormatLoadStore)
	}
}
