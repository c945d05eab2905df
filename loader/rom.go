// Package loader provides ROM image loading for CHIP-8 programs.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sarchlab/c8sim/emu"
)

// MaxSize is the largest ROM image that fits in program memory.
const MaxSize = emu.MaxROMSize

// ErrEmptyROM is returned when a ROM image contains no bytes.
var ErrEmptyROM = errors.New("empty rom")

// ROM is a raw CHIP-8 program image.
type ROM struct {
	// Name identifies the image, usually the file's base name.
	Name string
	// Data holds the bytes to be copied to emu.ProgramStart.
	Data []byte
}

// Load reads a ROM image from a file.
func Load(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(filepath.Base(path), f)
}

// Parse reads a ROM image from r. Images larger than MaxSize are rejected
// with emu.ErrROMTooLarge without reading the rest of the stream.
func Parse(name string, r io.Reader) (*ROM, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM %q: %w", name, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyROM, name)
	}

	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: %q exceeds %d bytes", emu.ErrROMTooLarge, name, MaxSize)
	}

	return &ROM{Name: name, Data: data}, nil
}

// Size returns the image length in bytes.
func (r *ROM) Size() int {
	return len(r.Data)
}

// End returns the first address past the loaded image.
func (r *ROM) End() uint16 {
	return uint16(emu.ProgramStart + len(r.Data))
}
