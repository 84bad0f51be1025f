// Package memory implements the 4 KB byte addressable store of the CHIP-8 VM.
//
// Memory map:
//
//	0x000-0x04F: unused interpreter area
//	0x050-0x09F: hexadecimal font sprites (16 glyphs, 5 bytes each)
//	0x0A0-0x1FF: unused interpreter area
//	0x200-0xFFF: program space
package memory

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chip8vm/internal/translate"
)

// Memory layout constants
const (
	Size         = 0x1000
	MaxAddress   = Size - 1
	ProgramStart = 0x200
	MaxProgram   = Size - ProgramStart

	FontBase      = 0x50
	FontGlyphSize = 5
)

var f = translate.From

var (
	// ErrAddress is returned for accesses beyond MaxAddress.
	ErrAddress = errors.New(f("address out of range"))
	// ErrProgramTooLarge is returned when a program does not fit into the program space.
	ErrProgramTooLarge = errors.New(f("program size exceeds the maximum size"))
)

// AddressError reports the offending address of an out of range access.
type AddressError struct {
	Addr int
}

func (err *AddressError) Error() string {
	return f("address %#04x out of range", err.Addr)
}

func (err *AddressError) Unwrap() error {
	return ErrAddress
}

var fontset = [16 * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the VM's byte addressable store.
type Memory struct {
	data [Size]byte
}

// New returns a memory with the font sprites preloaded at FontBase.
func New() *Memory {
	m := &Memory{}
	copy(m.data[FontBase:], fontset[:])
	return m
}

// Glyph returns the address of the font sprite for the hexadecimal digit.
func Glyph(digit byte) uint16 {
	return FontBase + uint16(digit&0xF)*FontGlyphSize
}

// Read returns the byte stored at addr.
func (m *Memory) Read(addr uint16) (byte, error) {
	if addr > MaxAddress {
		return 0, &AddressError{Addr: int(addr)}
	}
	return m.data[addr], nil
}

// Write stores v at addr.
func (m *Memory) Write(addr uint16, v byte) error {
	if addr > MaxAddress {
		return &AddressError{Addr: int(addr)}
	}
	m.data[addr] = v
	return nil
}

// ReadWord returns the big-endian 16-bit word stored at addr and addr+1.
func (m *Memory) ReadWord(addr uint16) (uint16, error) {
	if int(addr)+1 > MaxAddress {
		return 0, &AddressError{Addr: int(addr) + 1}
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// Slice returns the n bytes starting at addr. The slice aliases memory.
func (m *Memory) Slice(addr uint16, n int) ([]byte, error) {
	end := int(addr) + n
	if n < 0 || end > Size {
		return nil, &AddressError{Addr: end - 1}
	}
	return m.data[addr:end], nil
}

// Load copies a program image from r into the program space.
func (m *Memory) Load(r io.Reader) (int, error) {
	// Read one byte past the limit to detect oversized images.
	data, err := io.ReadAll(io.LimitReader(r, MaxProgram+1))
	if err != nil {
		return 0, fmt.Errorf("reading program: %w", err)
	}
	if len(data) > MaxProgram {
		return 0, ErrProgramTooLarge
	}
	return copy(m.data[ProgramStart:], data), nil
}

// LoadFile loads the program stored in the named file.
func (m *Memory) LoadFile(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("opening file '%s': %w", filename, err)
	}
	defer func() {
		_ = file.Close()
	}()

	n, err := m.Load(file)
	if err != nil {
		return 0, fmt.Errorf("loading '%s': %w", filename, err)
	}
	return n, nil
}
