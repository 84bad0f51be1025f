package internal

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic returns the lowercase instruction name of an instruction word, or
// an empty string for unknown words.
func Mnemonic(word uint16) string {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[firstNibble] {
		if op.Info.Mask&word == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return ""
}

// Disassemble formats an instruction word as assembly, for example
// "ld V0, $05". Unknown words are formatted as data.
func Disassemble(word uint16) string {
	ins, err := Decode(word)
	name := Mnemonic(word)
	if err != nil || name == "" {
		return fmt.Sprintf("db $%04X", word)
	}
	if params := operands(ins); params != "" {
		return name + " " + params
	}
	return name
}

func operands(ins Instruction) string {
	x, y := ins.X(), ins.Y()

	switch ins.Kind {
	case Kind00E0, Kind00EE:
		return "" // No parameters
	case Kind1NNN, Kind2NNN:
		return fmt.Sprintf("$%03X", ins.NNN())
	case KindBNNN:
		return fmt.Sprintf("V0, $%03X", ins.NNN())
	case Kind3XNN, Kind4XNN, Kind6XNN, Kind7XNN, KindCXNN:
		return fmt.Sprintf("V%X, $%02X", x, ins.NN())
	case Kind5XY0, Kind9XY0, Kind8XY0, Kind8XY1, Kind8XY2, Kind8XY3, Kind8XY4, Kind8XY5, Kind8XY7:
		return fmt.Sprintf("V%X, V%X", x, y)
	case Kind8XY6, Kind8XYE, KindEX9E, KindEXA1:
		return fmt.Sprintf("V%X", x)
	case KindANNN:
		return fmt.Sprintf("I, $%03X", ins.NNN())
	case KindDXYN:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, ins.N())
	case KindFX07:
		return fmt.Sprintf("V%X, DT", x)
	case KindFX0A:
		return fmt.Sprintf("V%X, K", x)
	case KindFX15:
		return fmt.Sprintf("DT, V%X", x)
	case KindFX18:
		return fmt.Sprintf("ST, V%X", x)
	case KindFX1E:
		return fmt.Sprintf("I, V%X", x)
	case KindFX29:
		return fmt.Sprintf("F, V%X", x)
	case KindFX33:
		return fmt.Sprintf("B, V%X", x)
	case KindFX55:
		return fmt.Sprintf("[I], V%X", x)
	case KindFX65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// DisassembleROM lists a program image loaded at base, one line per word:
//
//	0200: 6005  ld V0, $05
//
// A trailing odd byte is listed as data.
func DisassembleROM(data []byte, base uint16) string {
	var sb strings.Builder
	i := 0
	for ; i+1 < len(data); i += 2 {
		word := uint16(data[i])<<8 | uint16(data[i+1])
		fmt.Fprintf(&sb, "%04X: %04X  %s\n", base+uint16(i), word, Disassemble(word))
	}
	if i < len(data) {
		fmt.Fprintf(&sb, "%04X: %02X    db $%02X\n", base+uint16(i), data[i], data[i])
	}
	return sb.String()
}
