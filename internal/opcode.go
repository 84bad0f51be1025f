package internal

// Opcode is a 16-bit CHIP-8 instruction word.
type Opcode uint16

// X returns the lower 4 bits of the high byte of the instruction.
func (op Opcode) X() uint8 { return uint8(op>>8) & 0x0F }

// Y returns the upper 4 bits of the low byte of the instruction.
func (op Opcode) Y() uint8 { return uint8(op>>4) & 0x0F }

// N returns the lowest 4 bits of the instruction.
func (op Opcode) N() uint8 { return uint8(op) & 0x0F }

// NN returns the lowest 8 bits of the instruction.
func (op Opcode) NN() uint8 { return uint8(op) }

// NNN returns the lowest 12 bits of the instruction.
func (op Opcode) NNN() uint16 { return uint16(op) & 0x0FFF }

// Family returns the high nibble that selects the instruction family.
func (op Opcode) Family() uint8 { return uint8(op >> 12) }

// Kind identifies one of the 35 CHIP-8 instruction forms.
type Kind uint8

// Instruction forms, named after their canonical encoding.
const (
	KindInvalid Kind = iota
	Kind00E0         // CLS
	Kind00EE         // RET
	Kind1NNN         // JP nnn
	Kind2NNN         // CALL nnn
	Kind3XNN         // SE Vx, nn
	Kind4XNN         // SNE Vx, nn
	Kind5XY0         // SE Vx, Vy
	Kind6XNN         // LD Vx, nn
	Kind7XNN         // ADD Vx, nn
	Kind8XY0         // LD Vx, Vy
	Kind8XY1         // OR Vx, Vy
	Kind8XY2         // AND Vx, Vy
	Kind8XY3         // XOR Vx, Vy
	Kind8XY4         // ADD Vx, Vy
	Kind8XY5         // SUB Vx, Vy
	Kind8XY6         // SHR Vx
	Kind8XY7         // SUBN Vx, Vy
	Kind8XYE         // SHL Vx
	Kind9XY0         // SNE Vx, Vy
	KindANNN         // LD I, nnn
	KindBNNN         // JP V0, nnn
	KindCXNN         // RND Vx, nn
	KindDXYN         // DRW Vx, Vy, n
	KindEX9E         // SKP Vx
	KindEXA1         // SKNP Vx
	KindFX07         // LD Vx, DT
	KindFX0A         // LD Vx, K
	KindFX15         // LD DT, Vx
	KindFX18         // LD ST, Vx
	KindFX1E         // ADD I, Vx
	KindFX29         // LD F, Vx
	KindFX33         // LD B, Vx
	KindFX55         // LD [I], Vx
	KindFX65         // LD Vx, [I]

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid: "invalid",
	Kind00E0:    "00E0", Kind00EE: "00EE", Kind1NNN: "1NNN", Kind2NNN: "2NNN",
	Kind3XNN: "3XNN", Kind4XNN: "4XNN", Kind5XY0: "5XY0", Kind6XNN: "6XNN",
	Kind7XNN: "7XNN", Kind8XY0: "8XY0", Kind8XY1: "8XY1", Kind8XY2: "8XY2",
	Kind8XY3: "8XY3", Kind8XY4: "8XY4", Kind8XY5: "8XY5", Kind8XY6: "8XY6",
	Kind8XY7: "8XY7", Kind8XYE: "8XYE", Kind9XY0: "9XY0", KindANNN: "ANNN",
	KindBNNN: "BNNN", KindCXNN: "CXNN", KindDXYN: "DXYN", KindEX9E: "EX9E",
	KindEXA1: "EXA1", KindFX07: "FX07", KindFX0A: "FX0A", KindFX15: "FX15",
	KindFX18: "FX18", KindFX1E: "FX1E", KindFX29: "FX29", KindFX33: "FX33",
	KindFX55: "FX55", KindFX65: "FX65",
}

func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Opcode
	Kind Kind
}

// Decode classifies an instruction word. Words that match no instruction form
// return ErrUnknownOpcode.
func Decode(word uint16) (Instruction, error) {
	op := Opcode(word)
	kind := decodeKind(op)
	if kind == KindInvalid {
		return Instruction{Opcode: op}, ErrUnknownOpcode
	}
	return Instruction{Opcode: op, Kind: kind}, nil
}

func decodeKind(op Opcode) Kind {
	switch op.Family() { // Compare against the first 4 bits of the instruction only
	case 0x0:
		switch op {
		case 0x00E0:
			return Kind00E0
		case 0x00EE:
			return Kind00EE
		}
	case 0x1:
		return Kind1NNN
	case 0x2:
		return Kind2NNN
	case 0x3:
		return Kind3XNN
	case 0x4:
		return Kind4XNN
	case 0x5:
		if op.N() == 0x0 {
			return Kind5XY0
		}
	case 0x6:
		return Kind6XNN
	case 0x7:
		return Kind7XNN
	case 0x8:
		switch op.N() {
		case 0x0:
			return Kind8XY0
		case 0x1:
			return Kind8XY1
		case 0x2:
			return Kind8XY2
		case 0x3:
			return Kind8XY3
		case 0x4:
			return Kind8XY4
		case 0x5:
			return Kind8XY5
		case 0x6:
			return Kind8XY6
		case 0x7:
			return Kind8XY7
		case 0xE:
			return Kind8XYE
		}
	case 0x9:
		if op.N() == 0x0 {
			return Kind9XY0
		}
	case 0xA:
		return KindANNN
	case 0xB:
		return KindBNNN
	case 0xC:
		return KindCXNN
	case 0xD:
		return KindDXYN
	case 0xE:
		switch op.NN() {
		case 0x9E:
			return KindEX9E
		case 0xA1:
			return KindEXA1
		}
	case 0xF:
		switch op.NN() {
		case 0x07:
			return KindFX07
		case 0x0A:
			return KindFX0A
		case 0x15:
			return KindFX15
		case 0x18:
			return KindFX18
		case 0x1E:
			return KindFX1E
		case 0x29:
			return KindFX29
		case 0x33:
			return KindFX33
		case 0x55:
			return KindFX55
		case 0x65:
			return KindFX65
		}
	}
	return KindInvalid
}
