// Package main provides the c8sim command line interface.
//
// c8sim runs a CHIP-8 ROM in one of three modes: functional emulation
// (default), frame-timed simulation (-timing), or interactive play in the
// terminal (-interactive).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

var (
	timing      = flag.Bool("timing", false, "Run in 60 Hz frames with the timing model")
	interactive = flag.Bool("interactive", false, "Play the ROM in the terminal")
	configPath  = flag.String("config", "", "Path to timing configuration JSON file")
	useCache    = flag.Bool("cache", false, "Model a memory cache in timing modes")
	maxInsts    = flag.Uint64("max-instructions", 1_000_000, "Stop after this many instructions (0 = no limit)")
	frames      = flag.Uint64("frames", 600, "Frames to simulate with -timing (0 = until halt)")
	seed        = flag.Uint64("seed", 0, "Seed for RND (0 = seed from the clock)")
	verbose     = flag.Int("v", 0, "Log verbosity: 1 reports halts, 2 traces every instruction")
)

// options collects the settings shared by all run modes.
type options struct {
	maxInstructions uint64
	frames          uint64
	seed            uint64
	cache           bool
	timingConfig    *latency.TimingConfig
	logger          logr.Logger
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c8sim [options] <rom.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	rom, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM: %v\n", err)
		os.Exit(1)
	}

	opts := options{
		maxInstructions: *maxInsts,
		frames:          *frames,
		seed:            *seed,
		cache:           *useCache,
		timingConfig:    latency.DefaultTimingConfig(),
		logger:          newLogger(os.Stderr, *verbose, lineEnding(*interactive)),
	}

	if *configPath != "" {
		opts.timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
	}

	if *verbose > 0 {
		fmt.Printf("Loaded: %s (%d bytes)\n", rom.Name, rom.Size())
	}

	switch {
	case *interactive:
		os.Exit(runInteractive(rom, opts))
	case *timing:
		os.Exit(runTiming(rom, opts, os.Stdout, os.Stderr))
	default:
		os.Exit(runEmulation(rom, opts, os.Stdout, os.Stderr))
	}
}

// newLogger returns a funcr logger writing one line per entry to w, each
// ended by eol. Raw terminal mode needs "\r\n".
func newLogger(w io.Writer, verbosity int, eol string) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s%s", prefix, args, eol)
			return
		}
		fmt.Fprintf(w, "%s%s", args, eol)
	}, funcr.Options{Verbosity: verbosity})
}

// lineEnding returns the log line terminator for the run mode. The
// interactive host keeps the terminal in raw mode, where a bare "\n" does
// not return the cursor.
func lineEnding(interactive bool) string {
	if interactive {
		return "\r\n"
	}
	return "\n"
}

func (o options) emulatorOptions() []emu.EmulatorOption {
	opts := []emu.EmulatorOption{
		emu.WithLogger(o.logger),
		emu.WithMaxInstructions(o.maxInstructions),
	}
	if o.seed != 0 {
		opts = append(opts, emu.WithRandomSource(emu.NewPCGSource(o.seed)))
	}
	return opts
}

func (o options) newCore(rom *loader.ROM, extra ...emu.EmulatorOption) (*core.Core, error) {
	coreOpts := []core.CoreOption{
		core.WithLogger(o.logger),
		core.WithLatencyTable(latency.NewTableWithConfig(o.timingConfig)),
		core.WithEmulatorOptions(append(o.emulatorOptions(), extra...)...),
	}
	if o.cache {
		coreOpts = append(coreOpts, core.WithCache(cache.DefaultConfig()))
	}
	return core.NewCore(rom.Data, coreOpts...)
}

// runEmulation runs the ROM functionally until it halts and prints the
// final frame.
func runEmulation(rom *loader.ROM, opts options, stdout, stderr io.Writer) int {
	emulator, err := emu.NewEmulator(rom.Data, opts.emulatorOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating emulator: %v\n", err)
		return 1
	}

	runErr := emulator.Run()

	frame := emulator.Display()
	fmt.Fprint(stdout, frame.String())
	fmt.Fprintf(stdout, "\nProgram: %s\n", rom.Name)
	fmt.Fprintf(stdout, "Halted: %s\n", emulator.HaltReason())
	fmt.Fprintf(stdout, "Instructions executed: %d\n", emulator.InstructionCount())

	if runErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return 1
	}
	return 0
}

// runTiming runs the ROM in timed frames and prints the final frame with
// the timing statistics.
func runTiming(rom *loader.ROM, opts options, stdout, stderr io.Writer) int {
	c, err := opts.newCore(rom)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating core: %v\n", err)
		return 1
	}

	if opts.frames == 0 {
		_ = c.Run()
	} else {
		c.RunFrames(opts.frames)
	}

	emulator := c.Emulator()
	stats := c.Stats()

	frame := emulator.Display()
	fmt.Fprint(stdout, frame.String())
	fmt.Fprintf(stdout, "\nProgram: %s\n", rom.Name)
	fmt.Fprintf(stdout, "Halted: %s\n", emulator.HaltReason())
	fmt.Fprintf(stdout, "Frames: %d\n", stats.Frames)
	fmt.Fprintf(stdout, "Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(stdout, "Cycles: %d (memory %d)\n", stats.Cycles, stats.MemoryCycles)
	if stats.Frames > 0 {
		fmt.Fprintf(stdout, "Instructions per frame: %.2f\n",
			float64(stats.Instructions)/float64(stats.Frames))
	}
	if c.Cache() != nil {
		fmt.Fprintf(stdout, "Cache: %d hits, %d misses (%.1f%% hit rate)\n",
			stats.Cache.Hits, stats.Cache.Misses, 100*stats.Cache.HitRate())
	}

	if err := emulator.Err(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
