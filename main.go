// Package main provides the entry point for c8sim.
// c8sim is a CHIP-8 virtual machine with a frame-timed host.
//
// The simulator itself lives in ./cmd/c8sim; this binary only explains
// how to invoke it.
package main

import (
	"fmt"
	"io"
	"os"
)

// flagHelp lists the cmd/c8sim flags in the order they are declared there.
var flagHelp = [][2]string{
	{"-timing", "Run in 60 Hz frames with the timing model"},
	{"-interactive", "Play the ROM in the terminal"},
	{"-config <file>", "Timing configuration JSON file"},
	{"-cache", "Model a memory cache in timing modes"},
	{"-max-instructions <n>", "Stop after n instructions, 0 for no limit (default 1000000)"},
	{"-frames <n>", "Frames to simulate with -timing, 0 until halt (default 600)"},
	{"-seed <n>", "Seed for RND, 0 seeds from the clock"},
	{"-v <level>", "Log verbosity: 1 halts, 2 every instruction"},
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "c8sim - CHIP-8 virtual machine")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: go run ./cmd/c8sim [flags] <rom.ch8>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	for _, f := range flagHelp {
		fmt.Fprintf(w, "  %-24s %s\n", f[0], f[1])
	}
}

func main() {
	printUsage(os.Stdout)
	if len(os.Args) > 1 {
		fmt.Fprintln(os.Stderr, "\nc8sim: arguments ignored, run ./cmd/c8sim instead")
		os.Exit(2)
	}
}
