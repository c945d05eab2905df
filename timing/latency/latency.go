// Package latency provides instruction timing models for the timed core.
//
// CHIP-8 defines no instruction timing, so every cost here is a modelling
// choice and can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/c8sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction. Memory-block instructions scale with the number of bytes
// they move, and DRW with the number of sprite rows.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op {
	case insts.OpRND:
		return t.config.RandomLatency
	case insts.OpCLS:
		return t.config.ClearLatency
	case insts.OpDRW:
		return t.config.DrawLatency + uint64(inst.N)*t.config.DrawRowLatency
	case insts.OpLDM:
		return uint64(inst.X+1) * t.config.LoadLatency
	case insts.OpSTM:
		return uint64(inst.X+1) * t.config.StoreLatency
	case insts.OpLDB:
		return 3 * t.config.StoreLatency
	}

	switch inst.Format {
	case insts.FormatALU, insts.FormatImm, insts.FormatLoadStore:
		return t.config.ALULatency
	case insts.FormatBranch, insts.FormatSkip:
		return t.config.BranchLatency
	case insts.FormatTimer:
		return t.config.TimerLatency
	case insts.FormatInput:
		return t.config.InputLatency
	default:
		return t.config.SystemLatency
	}
}

// IsMemoryOp returns true if the instruction reads or writes memory
// through the index register.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	return t.IsLoadOp(inst) || t.IsStoreOp(inst)
}

// IsLoadOp returns true if the instruction reads memory at I.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpLDM || inst.Op == insts.OpDRW
}

// IsStoreOp returns true if the instruction writes memory at I.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpSTM || inst.Op == insts.OpLDB
}

// IsBranchOp returns true if the instruction may change the flow of control.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Format == insts.FormatBranch || inst.Format == insts.FormatSkip
}

// AccessSize returns the number of bytes a memory instruction moves at I.
// It returns 0 for instructions that do not access memory through I.
func (t *Table) AccessSize(inst *insts.Instruction) int {
	if inst == nil {
		return 0
	}

	switch inst.Op {
	case insts.OpLDM, insts.OpSTM:
		return int(inst.X) + 1
	case insts.OpLDB:
		return 3
	case insts.OpDRW:
		return int(inst.N)
	default:
		return 0
	}
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
