// Package trace renders the instruction at the current program counter as
// one nestest-convention log line. It reads the machine exclusively through
// side-effect-free peeks, so tracing never perturbs emulation.
package trace

import (
	"fmt"
	"strings"

	"famicore/internal/cpu"
)

// Peeker is the side-effect-free view of the CPU bus.
type Peeker interface {
	Peek(address uint16) uint8
	PeekWord(address uint16) uint16
}

// Line formats the instruction the CPU is about to execute:
//
//	PC  HEXDUMP  MNEMONIC OPERAND  A:.. X:.. Y:.. P:.. SP:.. PPU:SL,DOT CYC:N
//
// scanline and dot are the PPU counters at this instruction boundary.
func Line(c *cpu.CPU, mem Peeker, scanline, dot int, cycles uint64) (string, error) {
	pc := c.PC
	opcode := mem.Peek(pc)
	inst := cpu.Decode(opcode)
	if inst == nil {
		return "", fmt.Errorf("%w: byte 0x%02X at $%04X", cpu.ErrIllegalOpcode, opcode, pc)
	}

	var hexParts []string
	for i := uint16(0); i < uint16(inst.Bytes); i++ {
		hexParts = append(hexParts, fmt.Sprintf("%02X", mem.Peek(pc+i)))
	}

	asm := fmt.Sprintf("%04X  %-8s %4s %s",
		pc, strings.Join(hexParts, " "), inst.Name, operandText(c, mem, inst, pc))
	asm = strings.TrimRight(asm, " ")

	return fmt.Sprintf("%-47s A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		asm, c.A, c.X, c.Y, c.Status(), c.SP, scanline, dot, cycles), nil
}

// operandText renders the operand column, including the effective address
// and the byte stored there for the modes that read memory.
func operandText(c *cpu.CPU, mem Peeker, inst *cpu.Instruction, pc uint16) string {
	switch inst.Mode {
	case cpu.Implied:
		return ""
	case cpu.Accumulator:
		return "A"

	case cpu.Immediate:
		return fmt.Sprintf("#$%02X", mem.Peek(pc+1))

	case cpu.ZeroPage:
		addr := uint16(mem.Peek(pc + 1))
		return fmt.Sprintf("$%02X = %02X", addr, mem.Peek(addr))

	case cpu.ZeroPageX:
		arg := mem.Peek(pc + 1)
		addr := uint16(arg + c.X)
		return fmt.Sprintf("$%02X,X @ %02X = %02X", arg, addr, mem.Peek(addr))

	case cpu.ZeroPageY:
		arg := mem.Peek(pc + 1)
		addr := uint16(arg + c.Y)
		return fmt.Sprintf("$%02X,Y @ %02X = %02X", arg, addr, mem.Peek(addr))

	case cpu.Relative:
		offset := int8(mem.Peek(pc + 1))
		return fmt.Sprintf("$%04X", pc+2+uint16(int16(offset)))

	case cpu.Absolute:
		addr := mem.PeekWord(pc + 1)
		if inst.Name == "JMP" || inst.Name == "JSR" {
			return fmt.Sprintf("$%04X", addr)
		}
		return fmt.Sprintf("$%04X = %02X", addr, mem.Peek(addr))

	case cpu.AbsoluteX:
		arg := mem.PeekWord(pc + 1)
		addr := arg + uint16(c.X)
		return fmt.Sprintf("$%04X,X @ %04X = %02X", arg, addr, mem.Peek(addr))

	case cpu.AbsoluteY:
		arg := mem.PeekWord(pc + 1)
		addr := arg + uint16(c.Y)
		return fmt.Sprintf("$%04X,Y @ %04X = %02X", arg, addr, mem.Peek(addr))

	case cpu.Indirect:
		arg := mem.PeekWord(pc + 1)
		// Reproduce the vector page-wrap the CPU applies.
		high := arg&0xFF00 | (arg+1)&0x00FF
		target := uint16(mem.Peek(high))<<8 | uint16(mem.Peek(arg))
		return fmt.Sprintf("($%04X) = %04X", arg, target)

	case cpu.IndexedIndirect:
		arg := mem.Peek(pc + 1)
		pointer := arg + c.X
		addr := peekWordPageWrap(mem, uint16(pointer))
		return fmt.Sprintf("($%02X,X) @ %02X = %04X = %02X", arg, pointer, addr, mem.Peek(addr))

	case cpu.IndirectIndexed:
		arg := mem.Peek(pc + 1)
		base := peekWordPageWrap(mem, uint16(arg))
		addr := base + uint16(c.Y)
		return fmt.Sprintf("($%02X),Y = %04X @ %04X = %02X", arg, base, addr, mem.Peek(addr))

	default:
		return ""
	}
}

// peekWordPageWrap mirrors the zero-page pointer wrap of the indirect modes.
func peekWordPageWrap(mem Peeker, address uint16) uint16 {
	high := address&0xFF00 | (address+1)&0x00FF
	return uint16(mem.Peek(high))<<8 | uint16(mem.Peek(address))
}
