package emu

import "strings"

// Display dimensions.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight
)

// Frame is an immutable snapshot of the display, row-major, one byte per
// pixel holding 0 or 1.
type Frame [DisplaySize]uint8

// At returns the pixel at column x, row y.
func (f Frame) At(x, y int) uint8 {
	return f[y*DisplayWidth+x]
}

// Lit returns the number of set pixels.
func (f Frame) Lit() int {
	n := 0
	for _, p := range f {
		n += int(p)
	}
	return n
}

// String renders the frame as text, one line per row, '#' for set pixels.
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow((DisplayWidth + 1) * DisplayHeight)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if f.At(x, y) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Display is the 64x32 monochrome framebuffer.
type Display struct {
	pixels Frame
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.pixels = Frame{}
}

// Draw XORs sprite rows onto the framebuffer with its top-left corner at
// (x mod 64, y mod 32). Pixels that run past an edge wrap to the opposite
// edge. It reports whether any set pixel was turned off.
func (d *Display) Draw(x, y uint8, sprite []byte) bool {
	ox := int(x) % DisplayWidth
	oy := int(y) % DisplayHeight
	collision := false

	for row, bits := range sprite {
		py := (oy + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (ox + col) % DisplayWidth
			idx := py*DisplayWidth + px
			if d.pixels[idx] == 1 {
				collision = true
			}
			d.pixels[idx] ^= 1
		}
	}

	return collision
}

// Snapshot returns a copy of the framebuffer.
func (d *Display) Snapshot() Frame {
	return d.pixels
}
