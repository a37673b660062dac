// Package bus wires the CPU, PPU, APU, controllers and cartridge into one
// console and drives them in lockstep: each executed CPU instruction
// advances the PPU by three dots per cycle. It exposes the two public step
// granularities, one instruction and one frame.
package bus

import (
	"errors"
	"fmt"
	"io"

	"famicore/internal/apu"
	"famicore/internal/cartridge"
	"famicore/internal/cpu"
	"famicore/internal/input"
	"famicore/internal/memory"
	"famicore/internal/ppu"
	"famicore/internal/trace"
)

// ErrNoCartridge is returned when stepping before a cartridge is loaded.
var ErrNoCartridge = errors.New("no cartridge loaded")

const (
	dmaBaseCycles = 513
	ppuDotsPerCPU = 3
)

// Bus is the console: it exclusively owns every component and projects them
// into the CPU's address space through the memory decoder.
type Bus struct {
	CPU         *cpu.CPU
	PPU         *ppu.PPU
	APU         *apu.APU
	Memory      *memory.Memory
	Controller1 *input.Controller
	Controller2 *input.Controller

	cart *cartridge.Cartridge

	// Stall cycles charged by an OAM DMA triggered inside the current
	// instruction, drained by cycle accounting at the end of the step.
	dmaStall uint64

	frameCount uint64
}

// New creates a console with no cartridge. Load must be called before
// stepping.
func New() *Bus {
	return &Bus{
		APU:         apu.New(),
		Controller1: input.New(),
		Controller2: input.New(),
	}
}

// Load inserts a cartridge, rebuilds the address space around it and
// resets the machine.
func (b *Bus) Load(cart *cartridge.Cartridge) error {
	b.cart = cart
	b.PPU = ppu.New(cart, cart.Mirror())
	b.Memory = memory.New(b.PPU, b.APU, b.Controller1, b.Controller2, cart)
	b.Memory.SetDMACallback(b.oamDMA)
	b.CPU = cpu.New(b.Memory)

	return b.Reset()
}

// LoadFromFile loads an iNES image from disk.
func (b *Bus) LoadFromFile(path string) error {
	cart, err := cartridge.LoadFromFile(path)
	if err != nil {
		return err
	}
	return b.Load(cart)
}

// LoadFromReader loads an iNES image from a stream.
func (b *Bus) LoadFromReader(r io.Reader) error {
	cart, err := cartridge.LoadFromReader(r)
	if err != nil {
		return err
	}
	return b.Load(cart)
}

// Reset restores the power-up contract on every component. The PPU is
// advanced past the 7-cycle CPU reset sequence to keep the two clocks in
// lockstep from the first instruction.
func (b *Bus) Reset() error {
	if b.cart == nil {
		return ErrNoCartridge
	}

	b.APU.Reset()
	b.Controller1.Reset()
	b.Controller2.Reset()
	b.PPU.Reset()
	if err := b.CPU.Reset(); err != nil {
		return err
	}
	b.PPU.Tick(ppuDotsPerCPU * b.CPU.Cycles())

	b.dmaStall = 0
	b.frameCount = 0
	return nil
}

// StepInstruction advances the console by one CPU instruction: interrupt
// poll, fetch, execute, then cycle accounting and the PPU dot advance.
// Vblank and NMI latches raised during the dot advance become visible to
// the next instruction's interrupt poll.
func (b *Bus) StepInstruction() (cpu.Record, error) {
	if b.cart == nil {
		return cpu.Record{}, ErrNoCartridge
	}

	before := b.CPU.Cycles()

	if b.PPU.TakeNMI() {
		if err := b.CPU.NMI(); err != nil {
			return cpu.Record{}, fmt.Errorf("servicing NMI: %w", err)
		}
	}

	record, err := b.CPU.Step()
	if err != nil {
		return cpu.Record{}, err
	}

	if b.dmaStall > 0 {
		b.CPU.AddCycles(b.dmaStall)
		b.dmaStall = 0
	}

	b.PPU.Tick(ppuDotsPerCPU * (b.CPU.Cycles() - before))
	if b.PPU.TakeFrameComplete() {
		b.frameCount++
	}
	return record, nil
}

// StepFrame runs instructions until the PPU signals frame completion, then
// renders the finished picture.
func (b *Bus) StepFrame() (*ppu.Frame, error) {
	if b.cart == nil {
		return nil, ErrNoCartridge
	}

	target := b.frameCount + 1
	for b.frameCount < target {
		if _, err := b.StepInstruction(); err != nil {
			return nil, err
		}
	}
	return b.PPU.Render()
}

// oamDMA handles a $4014 write: copy the named page into OAM and charge
// the stall, 513 cycles plus one when the transfer starts on an odd cycle.
func (b *Bus) oamDMA(page uint8) error {
	var data [256]uint8
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v, err := b.Memory.Read(base + uint16(i))
		if err != nil {
			return fmt.Errorf("OAM DMA from page $%02X: %w", page, err)
		}
		data[i] = v
	}
	b.PPU.WriteOAMDMA(&data)

	b.dmaStall = dmaBaseCycles
	if b.CPU.Cycles()%2 == 1 {
		b.dmaStall++
	}
	return nil
}

// SetButton publishes host input for one controller port (1 or 2). The
// host layer must call it between steps, never during one.
func (b *Bus) SetButton(port int, button input.Button, pressed bool) {
	switch port {
	case 2:
		b.Controller2.SetButton(button, pressed)
	default:
		b.Controller1.SetButton(button, pressed)
	}
}

// TraceLine renders the instruction about to execute in the nestest log
// convention, without disturbing the machine.
func (b *Bus) TraceLine() (string, error) {
	if b.cart == nil {
		return "", ErrNoCartridge
	}
	return trace.Line(b.CPU, b.Memory, b.PPU.Scanline(), b.PPU.Dot(), b.CPU.Cycles())
}

// Cartridge returns the loaded cartridge, or nil.
func (b *Bus) Cartridge() *cartridge.Cartridge {
	return b.cart
}

// FrameCount returns how many frames have completed since reset.
func (b *Bus) FrameCount() uint64 {
	return b.frameCount
}

// Cycles returns the CPU's cumulative cycle counter.
func (b *Bus) Cycles() uint64 {
	if b.CPU == nil {
		return 0
	}
	return b.CPU.Cycles()
}
