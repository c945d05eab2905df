// Package core provides the timed CHIP-8 core.
//
// The core runs the functional emulator in 60 Hz frames. Each frame it
// spends a budget of cycles on instructions, charging every instruction its
// latency from the latency table plus the memory traffic it causes through
// an optional cache, and then ticks the delay and sound timers once. The
// CPU rate and the timer rate are therefore independent.
package core

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Frames is the number of frames simulated.
	Frames uint64
	// Cycles is the total number of cycles charged to instructions.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// MemoryCycles is the part of Cycles spent on fetches and memory
	// accesses.
	MemoryCycles uint64
	// Cache holds the cache statistics, zero when no cache is attached.
	Cache cache.Statistics
}

// Core is a frame-driven timed host around an emu.Emulator.
type Core struct {
	emulator *emu.Emulator
	table    *latency.Table
	logger   logr.Logger

	cacheConfig *cache.Config
	cache       *cache.Cache

	emuOpts []emu.EmulatorOption

	// budget carries unspent or overdrawn cycles into the next frame.
	budget int64
	stats  Stats
}

// CoreOption is a functional option for configuring the Core.
type CoreOption func(*Core)

// WithLatencyTable sets the latency table. The default is latency.NewTable().
func WithLatencyTable(table *latency.Table) CoreOption {
	return func(c *Core) {
		c.table = table
	}
}

// WithCache puts a cache with the given configuration between the core and
// memory. Without it every memory access is free.
func WithCache(config cache.Config) CoreOption {
	return func(c *Core) {
		c.cacheConfig = &config
	}
}

// WithEmulatorOptions passes options through to the emulator. The timer
// mode is always forced to emu.TimerExternal.
func WithEmulatorOptions(opts ...emu.EmulatorOption) CoreOption {
	return func(c *Core) {
		c.emuOpts = append(c.emuOpts, opts...)
	}
}

// WithLogger sets the logger used by the core and the emulator.
func WithLogger(logger logr.Logger) CoreOption {
	return func(c *Core) {
		c.logger = logger
	}
}

// NewCore creates a timed core running the given ROM.
func NewCore(rom []byte, opts ...CoreOption) (*Core, error) {
	c := &Core{
		table:  latency.NewTable(),
		logger: logr.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.table.Config().Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}

	emuOpts := append([]emu.EmulatorOption{emu.WithLogger(c.logger)}, c.emuOpts...)
	emuOpts = append(emuOpts, emu.WithTimerMode(emu.TimerExternal))

	e, err := emu.NewEmulator(rom, emuOpts...)
	if err != nil {
		return nil, err
	}
	c.emulator = e
	c.attachCache()

	return c, nil
}

func (c *Core) attachCache() {
	if c.cacheConfig == nil {
		return
	}
	c.cache = cache.New(*c.cacheConfig, cache.NewMemoryBacking(c.emulator.Memory()))
}

// Emulator returns the functional emulator driven by the core.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Cache returns the attached cache, nil if none.
func (c *Core) Cache() *cache.Cache {
	return c.cache
}

// Halted returns true if the emulator has halted.
func (c *Core) Halted() bool {
	return c.emulator.Halted()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	stats := c.stats
	if c.cache != nil {
		stats.Cache = c.cache.Stats()
	}
	return stats
}

// Tick simulates one frame: it executes instructions until the frame's
// cycle budget is spent or the machine halts, then ticks the timers once.
// Returns true if the machine is still running.
func (c *Core) Tick() bool {
	if c.emulator.Halted() {
		return false
	}

	c.budget += int64(c.table.Config().CyclesPerFrame)
	for c.budget > 0 {
		cycles, result := c.step()
		c.budget -= int64(cycles)
		if result.Halted {
			break
		}
	}

	c.emulator.TickTimers()
	c.stats.Frames++

	if c.emulator.Halted() {
		c.logger.V(1).Info("core halted",
			"reason", c.emulator.HaltReason().String(),
			"frames", c.stats.Frames,
			"cycles", c.stats.Cycles,
			"instructions", c.stats.Instructions)
		return false
	}

	return true
}

// RunFrames executes up to n frames.
// Returns true if still running, false if halted.
func (c *Core) RunFrames(n uint64) bool {
	for i := uint64(0); i < n; i++ {
		if !c.Tick() {
			return false
		}
	}
	return !c.emulator.Halted()
}

// Run executes frames until the machine halts and returns the fault that
// stopped it, if any.
func (c *Core) Run() error {
	for c.Tick() {
	}
	return c.emulator.Err()
}

// Reset restarts the ROM and clears the statistics and the cache.
func (c *Core) Reset() error {
	if err := c.emulator.Reset(); err != nil {
		return err
	}

	c.budget = 0
	c.stats = Stats{}
	c.attachCache()

	return nil
}

// step executes one instruction and returns the cycles it costs.
func (c *Core) step() (uint64, emu.StepResult) {
	regFile := c.emulator.RegFile()
	pc, index := regFile.PC, regFile.I

	result := c.emulator.Step()
	if result.Inst == nil {
		return 0, result
	}

	memCycles := c.fetch(pc)
	cycles := memCycles
	if result.Err == nil {
		memCycles += c.access(result, index)
		cycles = memCycles + c.table.GetLatency(result.Inst)
		c.stats.Instructions++
	}

	c.stats.Cycles += cycles
	c.stats.MemoryCycles += memCycles

	return cycles, result
}

func (c *Core) fetch(pc uint16) uint64 {
	if c.cache == nil {
		return 0
	}
	return c.cache.Read(pc, emu.InstructionSize).Latency
}

// access charges the memory traffic an instruction caused at I. Stores
// are mirrored into the cache with the bytes the emulator just wrote, so
// the cache never holds stale data.
func (c *Core) access(result emu.StepResult, index uint16) uint64 {
	size := c.table.AccessSize(result.Inst)
	if c.cache == nil || size == 0 {
		return 0
	}

	if c.table.IsStoreOp(result.Inst) {
		data := c.emulator.Memory().ReadRange(index, size)
		return c.cache.Write(index, data).Latency
	}

	return c.cache.Read(index, size).Latency
}
