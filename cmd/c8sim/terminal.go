package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
)

// keyHoldFrames is how long a key stays down after its last byte arrived.
// Terminals report key presses but never releases, and auto-repeat fills
// the gap while a key is held.
const keyHoldFrames = 6

// keyMap lays the hexadecimal keypad over the left of a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var keyMap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Bytes that end an interactive session.
const (
	keyEscape = 0x1B
	keyCtrlC  = 0x03
)

// mapKey translates a terminal byte to a keypad key.
func mapKey(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keyMap[b]
	return key, ok
}

// keyboard turns raw terminal bytes into keypad state. It implements
// emu.KeySource.
type keyboard struct {
	mu   sync.Mutex
	held [emu.NumKeys]int

	quit     chan struct{}
	quitOnce sync.Once
}

func newKeyboard() *keyboard {
	return &keyboard{quit: make(chan struct{})}
}

// Keys returns the keys currently held.
func (k *keyboard) Keys() emu.KeyState {
	k.mu.Lock()
	defer k.mu.Unlock()

	var state emu.KeyState
	for key, frames := range k.held {
		state[key] = frames > 0
	}
	return state
}

// press handles one byte from the terminal.
func (k *keyboard) press(b byte) {
	if b == keyEscape || b == keyCtrlC {
		k.quitOnce.Do(func() { close(k.quit) })
		return
	}

	key, ok := mapKey(b)
	if !ok {
		return
	}

	k.mu.Lock()
	k.held[key] = keyHoldFrames
	k.mu.Unlock()
}

// decay ages every held key by one frame.
func (k *keyboard) decay() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for key := range k.held {
		if k.held[key] > 0 {
			k.held[key]--
		}
	}
}

// read feeds bytes from r until it fails.
func (k *keyboard) read(r io.Reader) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			k.quitOnce.Do(func() { close(k.quit) })
			return
		}
		k.press(b)
	}
}

// render draws a frame with ANSI escapes, starting from the top-left
// corner. Each pixel is cellWidth characters wide; raw mode needs explicit
// carriage returns.
func render(w io.Writer, frame emu.Frame, cellWidth int) {
	on := strings.Repeat("█", cellWidth)
	off := strings.Repeat(" ", cellWidth)

	var sb strings.Builder
	sb.WriteString("\x1b[H")
	for y := 0; y < emu.DisplayHeight; y++ {
		for x := 0; x < emu.DisplayWidth; x++ {
			if frame.At(x, y) != 0 {
				sb.WriteString(on)
			} else {
				sb.WriteString(off)
			}
		}
		sb.WriteString("\r\n")
	}
	_, _ = io.WriteString(w, sb.String())
}

// cellWidthFor picks two columns per pixel when the terminal is wide
// enough, which keeps pixels roughly square.
func cellWidthFor(columns int) int {
	if columns >= 2*emu.DisplayWidth {
		return 2
	}
	return 1
}

// runInteractive plays the ROM in the terminal at the configured frame
// rate until the machine halts or the player presses Esc or Ctrl-C.
func runInteractive(rom *loader.ROM, opts options) int {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "Error: -interactive needs a terminal on stdin\n")
		return 1
	}

	kb := newKeyboard()
	opts.maxInstructions = 0
	c, err := opts.newCore(rom, emu.WithKeySource(kb))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating core: %v\n", err)
		return 1
	}

	cellWidth := 1
	if columns, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cellWidth = cellWidthFor(columns)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting raw mode: %v\n", err)
		return 1
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	go kb.read(os.Stdin)

	// Clear the screen and hide the cursor.
	fmt.Print("\x1b[2J\x1b[?25l")
	defer fmt.Print("\x1b[?25h")

	ticker := time.NewTicker(opts.timingConfig.FrameDuration())
	defer ticker.Stop()

	for {
		select {
		case <-kb.quit:
			fmt.Print("\r\n")
			return 0
		case <-ticker.C:
			running := c.Tick()
			kb.decay()
			render(os.Stdout, c.Emulator().Display(), cellWidth)

			if !running {
				emulator := c.Emulator()
				fmt.Printf("Halted: %s after %d instructions\r\n",
					emulator.HaltReason(), emulator.InstructionCount())
				if err := emulator.Err(); err != nil {
					fmt.Printf("Error: %v\r\n", err)
					return 1
				}
				return 0
			}
		}
	}
}
