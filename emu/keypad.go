package emu

// NumKeys is the number of keys on the hexadecimal keypad.
const NumKeys = 16

// KeyState holds one pressed flag per hexadecimal key 0-F.
type KeyState [NumKeys]bool

// Pressed reports whether key (low nibble) is down.
func (k KeyState) Pressed(key uint8) bool {
	return k[key&0xF]
}

// First returns the lowest-numbered pressed key.
func (k KeyState) First() (uint8, bool) {
	for i, down := range k {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}

// KeySource supplies the keypad state to the input instructions.
// It is consulted only by SKP, SKNP and LD Vx, K.
type KeySource interface {
	Keys() KeyState
}

// KeySourceFunc adapts a function to KeySource.
type KeySourceFunc func() KeyState

// Keys calls f.
func (f KeySourceFunc) Keys() KeyState {
	return f()
}
