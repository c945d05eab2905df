// Package benchmarks provides timing benchmark infrastructure for the timed
// CHIP-8 core.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Frames is the number of 60 Hz frames until the program halted
	Frames uint64 `json:"frames"`

	// SimulatedCycles is the total cycle count from the timed core
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// MemoryCycles is the part of SimulatedCycles spent on memory traffic
	MemoryCycles uint64 `json:"memory_cycles"`

	// CacheHits/Misses (if cache enabled)
	CacheHits   uint64 `json:"cache_hits,omitempty"`
	CacheMisses uint64 `json:"cache_misses,omitempty"`

	// HaltReason tells how the program stopped
	HaltReason string `json:"halt_reason"`

	// Result is V0 when the program stopped
	Result uint8 `json:"result"`

	// Error is set when the program faulted or could not start
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program is the CHIP-8 ROM image to execute
	Program []byte

	// ExpectedResult is the expected value of V0 at halt (for validation)
	ExpectedResult uint8
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableCache puts the default cache in front of memory
	EnableCache bool

	// Timing overrides the default timing configuration when set
	Timing *latency.TimingConfig

	// MaxFrames bounds each run so a broken program cannot hang the harness
	MaxFrames uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableCache: true,
		MaxFrames:   10_000,
		Output:      os.Stdout,
		Verbose:     false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

// runBenchmark executes a single benchmark on a fresh core.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	opts := []core.CoreOption{
		core.WithEmulatorOptions(emu.WithRandomSource(emu.NewPCGSource(1))),
	}
	if h.config.Timing != nil {
		opts = append(opts, core.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)))
	}
	if h.config.EnableCache {
		opts = append(opts, core.WithCache(cache.DefaultConfig()))
	}

	c, err := core.NewCore(bench.Program, opts...)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	c.RunFrames(h.config.MaxFrames)
	result.WallTime = time.Since(start)

	stats := c.Stats()
	emulator := c.Emulator()

	result.Frames = stats.Frames
	result.SimulatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.MemoryCycles = stats.MemoryCycles
	result.CacheHits = stats.Cache.Hits
	result.CacheMisses = stats.Cache.Misses
	result.HaltReason = emulator.HaltReason().String()
	result.Result = emulator.RegFile().ReadReg(0)
	if stats.Instructions > 0 {
		result.CPI = float64(stats.Cycles) / float64(stats.Instructions)
	}
	if err := emulator.Err(); err != nil {
		result.Error = err.Error()
	}

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d frames, %d instructions\n",
			bench.Name, result.Frames, result.InstructionsRetired)
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== c8sim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Halted: %s (V0 = %d)\n", r.HaltReason, r.Result)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Frames:               %d\n", r.Frames)
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Memory Cycles:        %d\n", r.MemoryCycles)

		if r.CacheHits > 0 || r.CacheMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.CacheHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.CacheMisses)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,frames,cycles,instructions,cpi,memory_cycles,cache_hits,cache_misses,halt_reason,result")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%d,%d,%d,%s,%d\n",
			r.Name,
			r.Frames,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.MemoryCycles,
			r.CacheHits,
			r.CacheMisses,
			r.HaltReason,
			r.Result,
		)
	}
}

// PrintJSON outputs benchmark results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// BuildProgram assembles opcode words into a big-endian ROM image.
func BuildProgram(words ...uint16) []byte {
	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	return program
}

// Instruction encoding helpers

// EncodeHalt encodes the zero word that stops the machine.
func EncodeHalt() uint16 { return 0x0000 }

// EncodeRET encodes RET.
func EncodeRET() uint16 { return 0x00EE }

// EncodeJP encodes JP addr.
func EncodeJP(addr uint16) uint16 { return 0x1000 | addr&0xFFF }

// EncodeCALL encodes CALL addr.
func EncodeCALL(addr uint16) uint16 { return 0x2000 | addr&0xFFF }

// EncodeSEImm encodes SE Vx, byte.
func EncodeSEImm(x, kk uint8) uint16 { return 0x3000 | uint16(x&0xF)<<8 | uint16(kk) }

// EncodeLDImm encodes LD Vx, byte.
func EncodeLDImm(x, kk uint8) uint16 { return 0x6000 | uint16(x&0xF)<<8 | uint16(kk) }

// EncodeADDImm encodes ADD Vx, byte.
func EncodeADDImm(x, kk uint8) uint16 { return 0x7000 | uint16(x&0xF)<<8 | uint16(kk) }

// EncodeLDI encodes LD I, addr.
func EncodeLDI(addr uint16) uint16 { return 0xA000 | addr&0xFFF }

// EncodeDRW encodes DRW Vx, Vy, n.
func EncodeDRW(x, y, n uint8) uint16 {
	return 0xD000 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}

// EncodeMisc encodes the Fx-- family, e.g. EncodeMisc(3, 0x33) for LD B, V3.
func EncodeMisc(x, op uint8) uint16 { return 0xF000 | uint16(x&0xF)<<8 | uint16(op) }
