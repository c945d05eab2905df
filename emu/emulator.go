// Package emu provides functional CHIP-8 emulation.
package emu

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/sarchlab/c8sim/insts"
)

// HaltReason tells why the execution loop stopped.
type HaltReason uint8

// Halt reasons.
const (
	HaltNone       HaltReason = iota
	HaltZeroOpcode            // the word at PC was 0x0000
	HaltCycleLimit            // the instruction limit was reached
	HaltKeyWait               // LD Vx, K executed without a key source
	HaltFault                 // an instruction faulted, see StepResult.Err
)

func (r HaltReason) String() string {
	switch r {
	case HaltNone:
		return "running"
	case HaltZeroOpcode:
		return "zero opcode"
	case HaltCycleLimit:
		return "cycle limit"
	case HaltKeyWait:
		return "key wait"
	case HaltFault:
		return "fault"
	default:
		return fmt.Sprintf("HaltReason(%d)", uint8(r))
	}
}

// TimerMode selects who decrements the delay and sound timers.
type TimerMode uint8

// Timer modes.
const (
	// TimerPerInstruction decrements both timers after every executed
	// instruction.
	TimerPerInstruction TimerMode = iota

	// TimerExternal leaves the timers to the host, which calls TickTimers
	// at 60 Hz.
	TimerExternal
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the machine has stopped. No further instruction
	// will execute.
	Halted bool

	// Reason tells why the machine halted.
	Reason HaltReason

	// Inst is the instruction executed by this step, nil if none was.
	Inst *insts.Instruction

	// Err is set if the step faulted.
	Err error
}

// Emulator executes CHIP-8 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	stack   *CallStack
	display *Display
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// Host collaborators
	keys      KeySource
	random    RandomSource
	timerMode TimerMode
	logger    logr.Logger

	rom []byte

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
	keyWait          bool
	haltReason       HaltReason
	err              error
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithKeySource connects a live keypad. Without one the input
// instructions follow the headless policy: SKP never skips, SKNP always
// skips and LD Vx, K halts the machine.
func WithKeySource(keys KeySource) EmulatorOption {
	return func(e *Emulator) {
		e.keys = keys
	}
}

// WithRandomSource sets the source used by RND.
func WithRandomSource(src RandomSource) EmulatorOption {
	return func(e *Emulator) {
		e.random = src
	}
}

// WithTimerMode sets who decrements the timers.
func WithTimerMode(mode TimerMode) EmulatorOption {
	return func(e *Emulator) {
		e.timerMode = mode
	}
}

// WithLogger sets the logger. V(1) reports halts, V(2) traces every
// instruction.
func WithLogger(logger logr.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// NewEmulator creates a CHIP-8 machine with the font and the given ROM
// loaded and PC at ProgramStart.
func NewEmulator(rom []byte, opts ...EmulatorOption) (*Emulator, error) {
	e := &Emulator{
		decoder:   insts.NewDecoder(),
		timerMode: TimerPerInstruction,
		logger:    logr.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.random == nil {
		e.random = newClockSource()
	}

	e.rom = make([]byte, len(rom))
	copy(e.rom, rom)

	if err := e.Reset(); err != nil {
		return nil, err
	}

	return e, nil
}

// Reset restores the state right after construction: fresh memory with the
// font and ROM, zeroed registers, empty stack, blank display.
func (e *Emulator) Reset() error {
	memory := NewMemory()
	if err := memory.LoadProgram(e.rom); err != nil {
		return err
	}

	e.memory = memory
	e.regFile = &RegFile{PC: ProgramStart}
	e.stack = &CallStack{}
	e.display = &Display{}

	// Recreate execution units
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile, e.stack)

	e.instructionCount = 0
	e.keyWait = false
	e.haltReason = HaltNone
	e.err = nil

	return nil
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Stack returns the emulator's call stack.
func (e *Emulator) Stack() *CallStack {
	return e.stack
}

// Display returns a snapshot of the framebuffer. The snapshot does not
// follow later changes.
func (e *Emulator) Display() Frame {
	return e.display.Snapshot()
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Halted reports whether the execution loop has stopped.
func (e *Emulator) Halted() bool {
	return e.haltReason != HaltNone
}

// HaltReason returns why the machine stopped, HaltNone while running.
func (e *Emulator) HaltReason() HaltReason {
	return e.haltReason
}

// Err returns the fault that halted the machine, if any.
func (e *Emulator) Err() error {
	return e.err
}

// TickTimers decrements the delay and sound timers once. Hosts using
// TimerExternal call it at 60 Hz.
func (e *Emulator) TickTimers() {
	e.regFile.TickTimers()
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.Halted() {
		return StepResult{Halted: true, Reason: e.haltReason, Err: e.err}
	}

	// Check instruction limit before executing
	if e.limitReached() {
		return e.halt(HaltCycleLimit, nil, nil)
	}

	// 1. Fetch: read the big-endian word at PC
	pc := e.regFile.PC
	word := e.memory.Read16(pc)
	if word == 0 {
		return e.halt(HaltZeroOpcode, nil, nil)
	}

	// 2. Decode
	inst := e.decoder.Decode(word)

	if l := e.logger.V(2); l.Enabled() {
		l.Info("step", "pc", fmt.Sprintf("%03X", pc), "word", fmt.Sprintf("%04X", word), "inst", inst.String())
	}

	// 3. Execute, with PC already pointing at the next instruction
	e.regFile.PC = (pc + InstructionSize) & AddressMask
	if err := e.execute(inst); err != nil {
		e.regFile.PC = pc
		return e.halt(HaltFault, inst, fmt.Errorf("at PC=%03X: %w", pc, err))
	}

	// 4. Timers
	if e.timerMode == TimerPerInstruction {
		e.regFile.TickTimers()
	}

	e.instructionCount++

	// 5. Halt signal raised by the instruction
	if e.keyWait {
		return e.halt(HaltKeyWait, inst, nil)
	}

	// 6. The limit-th instruction halts the machine as it retires
	if e.limitReached() {
		return e.halt(HaltCycleLimit, inst, nil)
	}

	return StepResult{Inst: inst}
}

func (e *Emulator) limitReached() bool {
	return e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions
}

// Run executes instructions until the machine halts.
// Returns the fault that stopped it, or nil for a regular halt.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Halted {
			return result.Err
		}
	}
}

func (e *Emulator) halt(reason HaltReason, inst *insts.Instruction, err error) StepResult {
	e.haltReason = reason
	e.err = err

	if err != nil {
		e.logger.Error(err, "machine fault", "pc", fmt.Sprintf("%03X", e.regFile.PC),
			"instructions", e.instructionCount)
	} else {
		e.logger.V(1).Info("machine halted", "reason", reason.String(),
			"pc", fmt.Sprintf("%03X", e.regFile.PC), "instructions", e.instructionCount)
	}

	return StepResult{Halted: true, Reason: reason, Inst: inst, Err: err}
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) error {
	switch inst.Format {
	case insts.FormatUnknown:
		e.logger.V(1).Info("unknown opcode ignored", "word", fmt.Sprintf("%04X", inst.Word))
	case insts.FormatSystem:
		// Machine-code routines of the original interpreter are not emulated.
	case insts.FormatBranch:
		return e.executeBranch(inst)
	case insts.FormatSkip:
		e.executeSkip(inst)
	case insts.FormatALU:
		e.executeALU(inst)
	case insts.FormatImm:
		e.executeImm(inst)
	case insts.FormatLoadStore:
		e.executeLoadStore(inst)
	case insts.FormatDisplay:
		e.executeDisplay(inst)
	case insts.FormatTimer:
		e.executeTimer(inst)
	case insts.FormatInput:
		e.executeInput(inst)
	default:
		return fmt.Errorf("unimplemented format %d", inst.Format)
	}
	return nil
}

// executeBranch executes jumps, calls and returns.
func (e *Emulator) executeBranch(inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpJP:
		e.branchUnit.JP(inst.NNN)
	case insts.OpJPV0:
		e.branchUnit.JPV0(inst.NNN)
	case insts.OpCALL:
		return e.branchUnit.CALL(inst.NNN)
	case insts.OpRET:
		return e.branchUnit.RET()
	}
	return nil
}

// executeSkip executes the conditional skips.
func (e *Emulator) executeSkip(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpSEImm:
		e.branchUnit.SEImm(inst.X, inst.KK)
	case insts.OpSNEImm:
		e.branchUnit.SNEImm(inst.X, inst.KK)
	case insts.OpSEReg:
		e.branchUnit.SEReg(inst.X, inst.Y)
	case insts.OpSNEReg:
		e.branchUnit.SNEReg(inst.X, inst.Y)
	}
	e.regFile.PC &= AddressMask
}

// executeALU executes register-to-register operations.
func (e *Emulator) executeALU(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLDReg:
		e.alu.LD(inst.X, inst.Y)
	case insts.OpOR:
		e.alu.OR(inst.X, inst.Y)
	case insts.OpAND:
		e.alu.AND(inst.X, inst.Y)
	case insts.OpXOR:
		e.alu.XOR(inst.X, inst.Y)
	case insts.OpADD:
		e.alu.ADD(inst.X, inst.Y)
	case insts.OpSUB:
		e.alu.SUB(inst.X, inst.Y)
	case insts.OpSUBN:
		e.alu.SUBN(inst.X, inst.Y)
	case insts.OpSHR:
		e.alu.SHR(inst.X)
	case insts.OpSHL:
		e.alu.SHL(inst.X)
	}
}

// executeImm executes instructions with an immediate operand.
func (e *Emulator) executeImm(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLDImm:
		e.alu.LDImm(inst.X, inst.KK)
	case insts.OpADDImm:
		e.alu.ADDImm(inst.X, inst.KK)
	case insts.OpLDI:
		e.lsu.LDI(inst.NNN)
	case insts.OpRND:
		e.regFile.WriteReg(inst.X, e.random.Byte()&inst.KK)
	}
}

// executeLoadStore executes index-register memory operations.
func (e *Emulator) executeLoadStore(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpADDI:
		e.lsu.ADDI(inst.X)
	case insts.OpLDF:
		e.lsu.LDF(inst.X)
	case insts.OpLDB:
		e.lsu.LDB(inst.X)
	case insts.OpSTM:
		e.lsu.STM(inst.X)
	case insts.OpLDM:
		e.lsu.LDM(inst.X)
	}
}

// executeDisplay executes CLS and DRW.
func (e *Emulator) executeDisplay(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpCLS:
		e.display.Clear()
	case insts.OpDRW:
		sprite := e.lsu.Sprite(inst.N)
		collision := e.display.Draw(e.regFile.ReadReg(inst.X), e.regFile.ReadReg(inst.Y), sprite)
		e.regFile.SetFlag(collision)
	}
}

// executeTimer executes the delay and sound timer transfers.
func (e *Emulator) executeTimer(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLDVxDT:
		e.regFile.WriteReg(inst.X, e.regFile.DT)
	case insts.OpLDDTVx:
		e.regFile.DT = e.regFile.ReadReg(inst.X)
	case insts.OpLDSTVx:
		e.regFile.ST = e.regFile.ReadReg(inst.X)
	}
}

// executeInput executes the keypad instructions.
func (e *Emulator) executeInput(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpSKP:
		e.branchUnit.SkipIf(e.keys != nil && e.keys.Keys().Pressed(e.regFile.ReadReg(inst.X)))
	case insts.OpSKNP:
		e.branchUnit.SkipIf(e.keys == nil || !e.keys.Keys().Pressed(e.regFile.ReadReg(inst.X)))
	case insts.OpLDVxK:
		if e.keys == nil {
			e.keyWait = true
			return
		}
		key, ok := e.keys.Keys().First()
		if !ok {
			// Re-execute until the host reports a key.
			e.regFile.PC = (e.regFile.PC - InstructionSize) & AddressMask
			return
		}
		e.regFile.WriteReg(inst.X, key)
	}
	e.regFile.PC &= AddressMask
}
