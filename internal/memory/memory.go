// Package memory implements the CPU's view of the address space: internal
// RAM with its mirrors, the PPU register window, the controller ports, the
// OAM DMA port, the APU stub and cartridge PRG ROM.
package memory

import (
	"errors"
	"fmt"
)

// ErrIllegalRead indicates a read from an address no component claims.
var ErrIllegalRead = errors.New("illegal read from unmapped address")

// PPUInterface is the register-level view the bus needs of the PPU.
type PPUInterface interface {
	ReadRegister(address uint16) (uint8, error)
	WriteRegister(address uint16, value uint8) error
	PeekRegister(address uint16) uint8
}

// APUInterface is the register stub at $4000-$4017.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// ControllerInterface is one serial controller port.
type ControllerInterface interface {
	Read() uint8
	Write(value uint8)
	Peek() uint8
}

// CartridgeInterface is the PRG side of the cartridge.
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8) error
}

// Memory decodes CPU addresses and routes accesses, preserving each
// register's side effects. It is a projection over components owned by the
// console, not an owner itself.
type Memory struct {
	ram [0x800]uint8

	ppu         PPUInterface
	apu         APUInterface
	controller1 ControllerInterface
	controller2 ControllerInterface
	cart        CartridgeInterface

	// Invoked on a $4014 write with the source page; the console performs
	// the OAM copy and accounts the stall cycles.
	dmaCallback func(page uint8) error
}

// New creates the address decoder over the given components.
func New(ppu PPUInterface, apu APUInterface, pad1, pad2 ControllerInterface, cart CartridgeInterface) *Memory {
	return &Memory{
		ppu:         ppu,
		apu:         apu,
		controller1: pad1,
		controller2: pad2,
		cart:        cart,
	}
}

// SetDMACallback wires the OAM DMA handler.
func (m *Memory) SetDMACallback(callback func(page uint8) error) {
	m.dmaCallback = callback
}

// Read reads a byte from the given address.
func (m *Memory) Read(address uint16) (uint8, error) {
	switch {
	case address < 0x2000:
		// Internal RAM, mirrored through $1FFF.
		return m.ram[address&0x07FF], nil

	case address < 0x4000:
		// PPU registers, mirrored every 8 bytes.
		return m.ppu.ReadRegister(address & 0x0007)

	case address == 0x4015:
		return m.apu.ReadStatus(), nil

	case address == 0x4016:
		return m.controller1.Read(), nil

	case address == 0x4017:
		return m.controller2.Read(), nil

	case address < 0x4018:
		// Write-only APU/IO registers.
		return 0, nil

	case address < 0x6000:
		// $4018-$401F test registers and the expansion area are unclaimed.
		return 0, fmt.Errorf("%w: $%04X", ErrIllegalRead, address)

	default:
		// Cartridge PRG RAM and ROM.
		return m.cart.ReadPRG(address), nil
	}
}

// Write writes a byte to the given address.
func (m *Memory) Write(address uint16, value uint8) error {
	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value
		return nil

	case address < 0x4000:
		return m.ppu.WriteRegister(address&0x0007, value)

	case address == 0x4014:
		if m.dmaCallback != nil {
			return m.dmaCallback(value)
		}
		return nil

	case address == 0x4016:
		// Strobe line is shared by both pads.
		m.controller1.Write(value)
		m.controller2.Write(value)
		return nil

	case address < 0x4018:
		m.apu.WriteRegister(address, value)
		return nil

	case address < 0x6000:
		// Unclaimed; the write falls off the bus.
		return nil

	default:
		return m.cart.WritePRG(address, value)
	}
}

// ReadWord reads a 16-bit little-endian value.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	low, err := m.Read(address)
	if err != nil {
		return 0, err
	}
	high, err := m.Read(address + 1)
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}

// ReadWordPageWrap reads a 16-bit value whose high byte comes from the same
// page as the low byte: the increment wraps within the page. The indirect
// addressing modes use it to reproduce the 6502 page-wrap bug.
func (m *Memory) ReadWordPageWrap(address uint16) (uint16, error) {
	low, err := m.Read(address)
	if err != nil {
		return 0, err
	}
	highAddr := address&0xFF00 | (address+1)&0x00FF
	high, err := m.Read(highAddr)
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}

// Peek reads without side effects, for the tracer. Registers report their
// latched state; unclaimed addresses read as zero.
func (m *Memory) Peek(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.ram[address&0x07FF]
	case address < 0x4000:
		return m.ppu.PeekRegister(address & 0x0007)
	case address == 0x4015:
		return m.apu.ReadStatus()
	case address == 0x4016:
		return m.controller1.Peek()
	case address == 0x4017:
		return m.controller2.Peek()
	case address < 0x6000:
		return 0
	default:
		return m.cart.ReadPRG(address)
	}
}

// PeekWord is the side-effect-free 16-bit read.
func (m *Memory) PeekWord(address uint16) uint16 {
	return uint16(m.Peek(address+1))<<8 | uint16(m.Peek(address))
}
