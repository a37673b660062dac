// Package cpu implements the 6502 interpreter: decoding, addressing-mode
// effective-address computation, status-flag semantics, stack and interrupt
// discipline, and per-instruction cycle accounting. Decimal mode does not
// exist on this CPU variant and is not implemented.
package cpu

import (
	"errors"
	"fmt"
)

// ErrIllegalOpcode indicates a byte outside the official instruction set.
var ErrIllegalOpcode = errors.New("illegal opcode")

// AddressingMode selects how an instruction's operand is computed from the
// bytes following the opcode and the current register values.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// Status register bit masks
const (
	flagC = 0x01
	flagZ = 0x02
	flagI = 0x04
	flagD = 0x08
	flagB = 0x10
	flagU = 0x20 // always set
	flagV = 0x40
	flagN = 0x80
)

// Interrupt and reset vectors
const (
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	stackBase = 0x0100
)

// MemoryInterface is the CPU's view of the bus. Every access can fail;
// errors propagate out of Step with the CPU left at the point of failure.
type MemoryInterface interface {
	Read(address uint16) (uint8, error)
	Write(address uint16, value uint8) error
	ReadWord(address uint16) (uint16, error)
	ReadWordPageWrap(address uint16) (uint16, error)
}

// OperandKind tags how an instruction's operand is represented.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandValue
	OperandAddress
)

// Operand is the decoded operand: nothing (implied and accumulator forms),
// an immediate byte, or an effective address.
type Operand struct {
	Kind    OperandKind
	Value   uint8
	Address uint16
}

// Record describes one executed instruction for tracer consumers.
type Record struct {
	PC       uint16 // address the opcode was fetched from
	Opcode   uint8
	Mnemonic string
	Mode     AddressingMode
	Bytes    uint8
	Cycles   uint8 // total cycles including penalties
	Operand  Operand
}

// CPU represents the 6502 processor state.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	// Status flags. The unused bit reads as set; see Status.
	C bool // carry
	Z bool // zero
	I bool // interrupt disable
	D bool // decimal (ignored by the ALU)
	B bool // break
	V bool // overflow
	N bool // negative

	memory MemoryInterface
	cycles uint64

	// Latches set during operand fetch and branch execution, consumed by
	// cycle accounting at the end of Step.
	pageCross   bool
	branchTaken bool
}

// New creates a CPU attached to the given bus. Call Reset before stepping.
func New(memory MemoryInterface) *CPU {
	return &CPU{memory: memory}
}

// Reset restores the power-up contract: I and the unused bit set, SP at
// $FD, PC loaded from the reset vector, and the cycle counter at 7 for the
// hardware reset sequence.
func (cpu *CPU) Reset() error {
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = 0xFD
	cpu.SetStatus(flagI | flagU)

	pc, err := cpu.memory.ReadWord(resetVector)
	if err != nil {
		return fmt.Errorf("reading reset vector: %w", err)
	}
	cpu.PC = pc
	cpu.cycles = 7
	return nil
}

// Cycles returns the cumulative cycle counter.
func (cpu *CPU) Cycles() uint64 {
	return cpu.cycles
}

// AddCycles charges cycles that happen outside instruction execution, such
// as the OAM DMA stall.
func (cpu *CPU) AddCycles(n uint64) {
	cpu.cycles += n
}

// Status packs the flags into the P register byte. The unused bit always
// reads as set.
func (cpu *CPU) Status() uint8 {
	var status uint8 = flagU
	if cpu.N {
		status |= flagN
	}
	if cpu.V {
		status |= flagV
	}
	if cpu.B {
		status |= flagB
	}
	if cpu.D {
		status |= flagD
	}
	if cpu.I {
		status |= flagI
	}
	if cpu.Z {
		status |= flagZ
	}
	if cpu.C {
		status |= flagC
	}
	return status
}

// SetStatus unpacks a P register byte. The break flag is cleared, as PLP
// and RTI do; the unused bit is implicit.
func (cpu *CPU) SetStatus(status uint8) {
	cpu.N = status&flagN != 0
	cpu.V = status&flagV != 0
	cpu.B = false
	cpu.D = status&flagD != 0
	cpu.I = status&flagI != 0
	cpu.Z = status&flagZ != 0
	cpu.C = status&flagC != 0
}

// NMI services a non-maskable interrupt: three pushes (PC high, PC low,
// P with break clear), interrupts disabled, and the jump through $FFFA.
func (cpu *CPU) NMI() error {
	if err := cpu.pushWord(cpu.PC); err != nil {
		return err
	}
	if err := cpu.push(cpu.Status() &^ flagB); err != nil {
		return err
	}
	cpu.I = true

	pc, err := cpu.memory.ReadWord(nmiVector)
	if err != nil {
		return err
	}
	cpu.PC = pc
	cpu.cycles += 7
	return nil
}

// Step executes one instruction: fetch, decode, operand fetch, execute,
// cycle accounting. On error the CPU is left partly advanced, as the bus
// access that failed saw it.
func (cpu *CPU) Step() (Record, error) {
	pc := cpu.PC

	opcode, err := cpu.memory.Read(pc)
	if err != nil {
		return Record{}, err
	}
	inst := Decode(opcode)
	if inst == nil {
		return Record{}, fmt.Errorf("%w: byte 0x%02X at $%04X", ErrIllegalOpcode, opcode, pc)
	}
	cpu.PC++

	cpu.pageCross = false
	cpu.branchTaken = false

	operand, err := cpu.fetchOperand(inst.Mode)
	if err != nil {
		return Record{}, err
	}

	extra, err := cpu.execute(inst, operand)
	if err != nil {
		return Record{}, err
	}

	total := inst.Cycles + extra
	if inst.PageCross && cpu.pageCross {
		total++
	}
	cpu.cycles += uint64(total)

	return Record{
		PC:       pc,
		Opcode:   opcode,
		Mnemonic: inst.Name,
		Mode:     inst.Mode,
		Bytes:    inst.Bytes,
		Cycles:   total,
		Operand:  operand,
	}, nil
}

// fetchOperand consumes the operand bytes after the opcode and computes the
// effective operand. It records page crossings in the pageCross latch for
// the indexed modes that can pay a penalty.
func (cpu *CPU) fetchOperand(mode AddressingMode) (Operand, error) {
	switch mode {
	case Implied, Accumulator:
		return Operand{Kind: OperandNone}, nil

	case Immediate, Relative:
		value, err := cpu.fetchByte()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandValue, Value: value}, nil

	case ZeroPage:
		base, err := cpu.fetchByte()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandAddress, Address: uint16(base)}, nil

	case ZeroPageX:
		base, err := cpu.fetchByte()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandAddress, Address: uint16(base + cpu.X)}, nil

	case ZeroPageY:
		base, err := cpu.fetchByte()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandAddress, Address: uint16(base + cpu.Y)}, nil

	case Absolute:
		address, err := cpu.fetchWord()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandAddress, Address: address}, nil

	case AbsoluteX:
		base, err := cpu.fetchWord()
		if err != nil {
			return Operand{}, err
		}
		address := base + uint16(cpu.X)
		cpu.pageCross = base&0xFF00 != address&0xFF00
		return Operand{Kind: OperandAddress, Address: address}, nil

	case AbsoluteY:
		base, err := cpu.fetchWord()
		if err != nil {
			return Operand{}, err
		}
		address := base + uint16(cpu.Y)
		cpu.pageCross = base&0xFF00 != address&0xFF00
		return Operand{Kind: OperandAddress, Address: address}, nil

	case Indirect:
		pointer, err := cpu.fetchWord()
		if err != nil {
			return Operand{}, err
		}
		// A pointer at $xxFF fetches its high byte from $xx00.
		address, err := cpu.memory.ReadWordPageWrap(pointer)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandAddress, Address: address}, nil

	case IndexedIndirect:
		base, err := cpu.fetchByte()
		if err != nil {
			return Operand{}, err
		}
		address, err := cpu.memory.ReadWordPageWrap(uint16(base + cpu.X))
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandAddress, Address: address}, nil

	case IndirectIndexed:
		pointer, err := cpu.fetchByte()
		if err != nil {
			return Operand{}, err
		}
		base, err := cpu.memory.ReadWordPageWrap(uint16(pointer))
		if err != nil {
			return Operand{}, err
		}
		address := base + uint16(cpu.Y)
		cpu.pageCross = base&0xFF00 != address&0xFF00
		return Operand{Kind: OperandAddress, Address: address}, nil

	default:
		return Operand{}, fmt.Errorf("%w: addressing mode %d", ErrIllegalOpcode, mode)
	}
}

func (cpu *CPU) fetchByte() (uint8, error) {
	value, err := cpu.memory.Read(cpu.PC)
	if err != nil {
		return 0, err
	}
	cpu.PC++
	return value, nil
}

func (cpu *CPU) fetchWord() (uint16, error) {
	value, err := cpu.memory.ReadWord(cpu.PC)
	if err != nil {
		return 0, err
	}
	cpu.PC += 2
	return value, nil
}

// operandByte reads the value an instruction operates on.
func (cpu *CPU) operandByte(op Operand) (uint8, error) {
	switch op.Kind {
	case OperandValue:
		return op.Value, nil
	case OperandAddress:
		return cpu.memory.Read(op.Address)
	default:
		return 0, fmt.Errorf("%w: missing operand", ErrIllegalOpcode)
	}
}

// Stack operations
func (cpu *CPU) push(value uint8) error {
	if err := cpu.memory.Write(stackBase+uint16(cpu.SP), value); err != nil {
		return err
	}
	cpu.SP--
	return nil
}

func (cpu *CPU) pop() (uint8, error) {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) error {
	if err := cpu.push(uint8(value >> 8)); err != nil {
		return err
	}
	return cpu.push(uint8(value))
}

func (cpu *CPU) popWord() (uint16, error) {
	low, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	high, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}

// setZN sets the zero and negative flags from a result byte.
func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&0x80 != 0
}
