package emu

import (
	"errors"
	"fmt"
)

// StackDepth is the number of return addresses the call stack can hold.
const StackDepth = 16

// Call stack faults.
var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// CallStack is the fixed-capacity return-address stack.
type CallStack struct {
	entries [StackDepth]uint16
	depth   int
}

// Push stores a return address. It fails without modifying the stack when
// all StackDepth slots are in use.
func (s *CallStack) Push(addr uint16) error {
	if s.depth >= StackDepth {
		return fmt.Errorf("%w: push of %03X at depth %d", ErrStackOverflow, addr, s.depth)
	}
	s.entries[s.depth] = addr
	s.depth++
	return nil
}

// Pop removes and returns the most recent return address.
func (s *CallStack) Pop() (uint16, error) {
	if s.depth == 0 {
		return 0, ErrStackUnderflow
	}
	s.depth--
	return s.entries[s.depth], nil
}

// Depth returns the number of stored return addresses.
func (s *CallStack) Depth() int {
	return s.depth
}

// Entries returns a copy of the stored addresses, oldest first.
func (s *CallStack) Entries() []uint16 {
	out := make([]uint16, s.depth)
	copy(out, s.entries[:s.depth])
	return out
}
