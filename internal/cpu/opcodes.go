package cpu

// Instruction describes one legal opcode: mnemonic, addressing mode, encoded
// length and base cycle count. PageCross marks the memory-read instructions
// that pay one extra cycle when an indexed effective address crosses a page.
type Instruction struct {
	Name      string
	Opcode    uint8
	Bytes     uint8
	Cycles    uint8
	Mode      AddressingMode
	PageCross bool
}

// instructions maps the 151 official opcode bytes. Entries left nil are
// illegal and fail decoding.
var instructions = [256]*Instruction{
	// Load
	0xA9: {"LDA", 0xA9, 2, 2, Immediate, false},
	0xA5: {"LDA", 0xA5, 2, 3, ZeroPage, false},
	0xB5: {"LDA", 0xB5, 2, 4, ZeroPageX, false},
	0xAD: {"LDA", 0xAD, 3, 4, Absolute, false},
	0xBD: {"LDA", 0xBD, 3, 4, AbsoluteX, true},
	0xB9: {"LDA", 0xB9, 3, 4, AbsoluteY, true},
	0xA1: {"LDA", 0xA1, 2, 6, IndexedIndirect, false},
	0xB1: {"LDA", 0xB1, 2, 5, IndirectIndexed, true},

	0xA2: {"LDX", 0xA2, 2, 2, Immediate, false},
	0xA6: {"LDX", 0xA6, 2, 3, ZeroPage, false},
	0xB6: {"LDX", 0xB6, 2, 4, ZeroPageY, false},
	0xAE: {"LDX", 0xAE, 3, 4, Absolute, false},
	0xBE: {"LDX", 0xBE, 3, 4, AbsoluteY, true},

	0xA0: {"LDY", 0xA0, 2, 2, Immediate, false},
	0xA4: {"LDY", 0xA4, 2, 3, ZeroPage, false},
	0xB4: {"LDY", 0xB4, 2, 4, ZeroPageX, false},
	0xAC: {"LDY", 0xAC, 3, 4, Absolute, false},
	0xBC: {"LDY", 0xBC, 3, 4, AbsoluteX, true},

	// Store
	0x85: {"STA", 0x85, 2, 3, ZeroPage, false},
	0x95: {"STA", 0x95, 2, 4, ZeroPageX, false},
	0x8D: {"STA", 0x8D, 3, 4, Absolute, false},
	0x9D: {"STA", 0x9D, 3, 5, AbsoluteX, false},
	0x99: {"STA", 0x99, 3, 5, AbsoluteY, false},
	0x81: {"STA", 0x81, 2, 6, IndexedIndirect, false},
	0x91: {"STA", 0x91, 2, 6, IndirectIndexed, false},

	0x86: {"STX", 0x86, 2, 3, ZeroPage, false},
	0x96: {"STX", 0x96, 2, 4, ZeroPageY, false},
	0x8E: {"STX", 0x8E, 3, 4, Absolute, false},

	0x84: {"STY", 0x84, 2, 3, ZeroPage, false},
	0x94: {"STY", 0x94, 2, 4, ZeroPageX, false},
	0x8C: {"STY", 0x8C, 3, 4, Absolute, false},

	// Arithmetic
	0x69: {"ADC", 0x69, 2, 2, Immediate, false},
	0x65: {"ADC", 0x65, 2, 3, ZeroPage, false},
	0x75: {"ADC", 0x75, 2, 4, ZeroPageX, false},
	0x6D: {"ADC", 0x6D, 3, 4, Absolute, false},
	0x7D: {"ADC", 0x7D, 3, 4, AbsoluteX, true},
	0x79: {"ADC", 0x79, 3, 4, AbsoluteY, true},
	0x61: {"ADC", 0x61, 2, 6, IndexedIndirect, false},
	0x71: {"ADC", 0x71, 2, 5, IndirectIndexed, true},

	0xE9: {"SBC", 0xE9, 2, 2, Immediate, false},
	0xE5: {"SBC", 0xE5, 2, 3, ZeroPage, false},
	0xF5: {"SBC", 0xF5, 2, 4, ZeroPageX, false},
	0xED: {"SBC", 0xED, 3, 4, Absolute, false},
	0xFD: {"SBC", 0xFD, 3, 4, AbsoluteX, true},
	0xF9: {"SBC", 0xF9, 3, 4, AbsoluteY, true},
	0xE1: {"SBC", 0xE1, 2, 6, IndexedIndirect, false},
	0xF1: {"SBC", 0xF1, 2, 5, IndirectIndexed, true},

	// Logical
	0x29: {"AND", 0x29, 2, 2, Immediate, false},
	0x25: {"AND", 0x25, 2, 3, ZeroPage, false},
	0x35: {"AND", 0x35, 2, 4, ZeroPageX, false},
	0x2D: {"AND", 0x2D, 3, 4, Absolute, false},
	0x3D: {"AND", 0x3D, 3, 4, AbsoluteX, true},
	0x39: {"AND", 0x39, 3, 4, AbsoluteY, true},
	0x21: {"AND", 0x21, 2, 6, IndexedIndirect, false},
	0x31: {"AND", 0x31, 2, 5, IndirectIndexed, true},

	0x09: {"ORA", 0x09, 2, 2, Immediate, false},
	0x05: {"ORA", 0x05, 2, 3, ZeroPage, false},
	0x15: {"ORA", 0x15, 2, 4, ZeroPageX, false},
	0x0D: {"ORA", 0x0D, 3, 4, Absolute, false},
	0x1D: {"ORA", 0x1D, 3, 4, AbsoluteX, true},
	0x19: {"ORA", 0x19, 3, 4, AbsoluteY, true},
	0x01: {"ORA", 0x01, 2, 6, IndexedIndirect, false},
	0x11: {"ORA", 0x11, 2, 5, IndirectIndexed, true},

	0x49: {"EOR", 0x49, 2, 2, Immediate, false},
	0x45: {"EOR", 0x45, 2, 3, ZeroPage, false},
	0x55: {"EOR", 0x55, 2, 4, ZeroPageX, false},
	0x4D: {"EOR", 0x4D, 3, 4, Absolute, false},
	0x5D: {"EOR", 0x5D, 3, 4, AbsoluteX, true},
	0x59: {"EOR", 0x59, 3, 4, AbsoluteY, true},
	0x41: {"EOR", 0x41, 2, 6, IndexedIndirect, false},
	0x51: {"EOR", 0x51, 2, 5, IndirectIndexed, true},

	// Compare
	0xC9: {"CMP", 0xC9, 2, 2, Immediate, false},
	0xC5: {"CMP", 0xC5, 2, 3, ZeroPage, false},
	0xD5: {"CMP", 0xD5, 2, 4, ZeroPageX, false},
	0xCD: {"CMP", 0xCD, 3, 4, Absolute, false},
	0xDD: {"CMP", 0xDD, 3, 4, AbsoluteX, true},
	0xD9: {"CMP", 0xD9, 3, 4, AbsoluteY, true},
	0xC1: {"CMP", 0xC1, 2, 6, IndexedIndirect, false},
	0xD1: {"CMP", 0xD1, 2, 5, IndirectIndexed, true},

	0xE0: {"CPX", 0xE0, 2, 2, Immediate, false},
	0xE4: {"CPX", 0xE4, 2, 3, ZeroPage, false},
	0xEC: {"CPX", 0xEC, 3, 4, Absolute, false},

	0xC0: {"CPY", 0xC0, 2, 2, Immediate, false},
	0xC4: {"CPY", 0xC4, 2, 3, ZeroPage, false},
	0xCC: {"CPY", 0xCC, 3, 4, Absolute, false},

	// Shift and rotate
	0x0A: {"ASL", 0x0A, 1, 2, Accumulator, false},
	0x06: {"ASL", 0x06, 2, 5, ZeroPage, false},
	0x16: {"ASL", 0x16, 2, 6, ZeroPageX, false},
	0x0E: {"ASL", 0x0E, 3, 6, Absolute, false},
	0x1E: {"ASL", 0x1E, 3, 7, AbsoluteX, false},

	0x4A: {"LSR", 0x4A, 1, 2, Accumulator, false},
	0x46: {"LSR", 0x46, 2, 5, ZeroPage, false},
	0x56: {"LSR", 0x56, 2, 6, ZeroPageX, false},
	0x4E: {"LSR", 0x4E, 3, 6, Absolute, false},
	0x5E: {"LSR", 0x5E, 3, 7, AbsoluteX, false},

	0x2A: {"ROL", 0x2A, 1, 2, Accumulator, false},
	0x26: {"ROL", 0x26, 2, 5, ZeroPage, false},
	0x36: {"ROL", 0x36, 2, 6, ZeroPageX, false},
	0x2E: {"ROL", 0x2E, 3, 6, Absolute, false},
	0x3E: {"ROL", 0x3E, 3, 7, AbsoluteX, false},

	0x6A: {"ROR", 0x6A, 1, 2, Accumulator, false},
	0x66: {"ROR", 0x66, 2, 5, ZeroPage, false},
	0x76: {"ROR", 0x76, 2, 6, ZeroPageX, false},
	0x6E: {"ROR", 0x6E, 3, 6, Absolute, false},
	0x7E: {"ROR", 0x7E, 3, 7, AbsoluteX, false},

	// Increment and decrement
	0xE6: {"INC", 0xE6, 2, 5, ZeroPage, false},
	0xF6: {"INC", 0xF6, 2, 6, ZeroPageX, false},
	0xEE: {"INC", 0xEE, 3, 6, Absolute, false},
	0xFE: {"INC", 0xFE, 3, 7, AbsoluteX, false},

	0xC6: {"DEC", 0xC6, 2, 5, ZeroPage, false},
	0xD6: {"DEC", 0xD6, 2, 6, ZeroPageX, false},
	0xCE: {"DEC", 0xCE, 3, 6, Absolute, false},
	0xDE: {"DEC", 0xDE, 3, 7, AbsoluteX, false},

	0xE8: {"INX", 0xE8, 1, 2, Implied, false},
	0xC8: {"INY", 0xC8, 1, 2, Implied, false},
	0xCA: {"DEX", 0xCA, 1, 2, Implied, false},
	0x88: {"DEY", 0x88, 1, 2, Implied, false},

	// Register transfers
	0xAA: {"TAX", 0xAA, 1, 2, Implied, false},
	0xA8: {"TAY", 0xA8, 1, 2, Implied, false},
	0x8A: {"TXA", 0x8A, 1, 2, Implied, false},
	0x98: {"TYA", 0x98, 1, 2, Implied, false},
	0xBA: {"TSX", 0xBA, 1, 2, Implied, false},
	0x9A: {"TXS", 0x9A, 1, 2, Implied, false},

	// Bit test
	0x24: {"BIT", 0x24, 2, 3, ZeroPage, false},
	0x2C: {"BIT", 0x2C, 3, 4, Absolute, false},

	// Control flow
	0x4C: {"JMP", 0x4C, 3, 3, Absolute, false},
	0x6C: {"JMP", 0x6C, 3, 5, Indirect, false},
	0x20: {"JSR", 0x20, 3, 6, Absolute, false},
	0x60: {"RTS", 0x60, 1, 6, Implied, false},
	0x40: {"RTI", 0x40, 1, 6, Implied, false},
	0x00: {"BRK", 0x00, 1, 7, Implied, false},

	// Stack
	0x48: {"PHA", 0x48, 1, 3, Implied, false},
	0x08: {"PHP", 0x08, 1, 3, Implied, false},
	0x68: {"PLA", 0x68, 1, 4, Implied, false},
	0x28: {"PLP", 0x28, 1, 4, Implied, false},

	// Branches
	0x10: {"BPL", 0x10, 2, 2, Relative, false},
	0x30: {"BMI", 0x30, 2, 2, Relative, false},
	0x50: {"BVC", 0x50, 2, 2, Relative, false},
	0x70: {"BVS", 0x70, 2, 2, Relative, false},
	0x90: {"BCC", 0x90, 2, 2, Relative, false},
	0xB0: {"BCS", 0xB0, 2, 2, Relative, false},
	0xD0: {"BNE", 0xD0, 2, 2, Relative, false},
	0xF0: {"BEQ", 0xF0, 2, 2, Relative, false},

	// Flag operations
	0x18: {"CLC", 0x18, 1, 2, Implied, false},
	0x38: {"SEC", 0x38, 1, 2, Implied, false},
	0x58: {"CLI", 0x58, 1, 2, Implied, false},
	0x78: {"SEI", 0x78, 1, 2, Implied, false},
	0xB8: {"CLV", 0xB8, 1, 2, Implied, false},
	0xD8: {"CLD", 0xD8, 1, 2, Implied, false},
	0xF8: {"SED", 0xF8, 1, 2, Implied, false},

	0xEA: {"NOP", 0xEA, 1, 2, Implied, false},
}

// Decode maps an opcode byte to its instruction, or nil for bytes outside
// the official set.
func Decode(opcode uint8) *Instruction {
	return instructions[opcode]
}
