package memory

import (
	"errors"
	"testing"

	"famicore/internal/apu"
	"famicore/internal/cartridge"
	"famicore/internal/input"
	"famicore/internal/ppu"
)

func newTestMemory(t *testing.T) (*Memory, *ppu.PPU, *input.Controller, *cartridge.Cartridge) {
	t.Helper()

	prg := make([]uint8, 0x4000)
	for i := range prg {
		prg[i] = uint8(i)
	}
	cart, err := cartridge.New(prg, make([]uint8, 0x2000), cartridge.MirrorHorizontal)
	if err != nil {
		t.Fatalf("cartridge.New failed: %v", err)
	}

	p := ppu.New(cart, cart.Mirror())
	pad1 := input.New()
	pad2 := input.New()
	return New(p, apu.New(), pad1, pad2, cart), p, pad1, cart
}

func read(t *testing.T, m *Memory, addr uint16) uint8 {
	t.Helper()
	v, err := m.Read(addr)
	if err != nil {
		t.Fatalf("Read $%04X failed: %v", addr, err)
	}
	return v
}

func write(t *testing.T, m *Memory, addr uint16, v uint8) {
	t.Helper()
	if err := m.Write(addr, v); err != nil {
		t.Fatalf("Write $%04X failed: %v", addr, err)
	}
}

func TestRAM_ShouldMirrorEvery2KB(t *testing.T) {
	m, _, _, _ := newTestMemory(t)

	for _, base := range []uint16{0x0000, 0x0234, 0x07FF} {
		value := uint8(base&0xFF) ^ 0xA5
		write(t, m, base, value)

		for k := uint16(0); k < 4; k++ {
			if got := read(t, m, base+k*0x0800); got != value {
				t.Errorf("Mirror $%04X of $%04X: expected 0x%02X, got 0x%02X",
					base+k*0x0800, base, value, got)
			}
		}
	}

	// Writing through a mirror lands in the backing RAM.
	write(t, m, 0x1801, 0x3C)
	if got := read(t, m, 0x0001); got != 0x3C {
		t.Errorf("Expected write through mirror to land at $0001, got 0x%02X", got)
	}
}

func TestPPURegisters_ShouldMirrorEvery8Bytes(t *testing.T) {
	m, _, _, _ := newTestMemory(t)

	// $2006/$2007 via a distant mirror: $3FFE is $2006, $3FFF is $2007.
	write(t, m, 0x3FFE, 0x21)
	write(t, m, 0x3FFE, 0x55)
	write(t, m, 0x3FFF, 0x77)

	// Read back through yet another mirror of PPUDATA.
	write(t, m, 0x2006, 0x21)
	write(t, m, 0x2006, 0x55)
	read(t, m, 0x200F) // buffered
	if got := read(t, m, 0x200F); got != 0x77 {
		t.Errorf("Expected 0x77 through mirrored PPUDATA, got 0x%02X", got)
	}
}

func TestControllerPort_ShouldStrobeAndShift(t *testing.T) {
	m, _, pad1, _ := newTestMemory(t)

	pad1.SetButton(input.ButtonA, true)
	pad1.SetButton(input.ButtonStart, true)

	write(t, m, 0x4016, 1)
	write(t, m, 0x4016, 0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0} // A, B, Select, Start, ...
	for i, w := range want {
		if got := read(t, m, 0x4016); got != w {
			t.Errorf("Read %d: expected %d, got %d", i, w, got)
		}
	}
	if got := read(t, m, 0x4016); got != 1 {
		t.Errorf("Exhausted read: expected 1, got %d", got)
	}
}

func TestPRGROM_Reads_ShouldHitCartridge(t *testing.T) {
	m, _, _, cart := newTestMemory(t)

	if got := read(t, m, 0x8005); got != cart.ReadPRG(0x8005) {
		t.Errorf("Expected cartridge byte, got 0x%02X", got)
	}
	// 16KB image mirrors into the upper window.
	if read(t, m, 0x8005) != read(t, m, 0xC005) {
		t.Error("Expected $8005 and $C005 to mirror for a 16KB image")
	}
}

func TestPRGROM_Writes_ShouldFailIllegalWrite(t *testing.T) {
	m, _, _, _ := newTestMemory(t)

	if err := m.Write(0x8000, 0x01); !errors.Is(err, cartridge.ErrIllegalWrite) {
		t.Errorf("Expected ErrIllegalWrite, got %v", err)
	}
}

func TestUnclaimedAddresses_Reads_ShouldFailIllegalRead(t *testing.T) {
	m, _, _, _ := newTestMemory(t)

	for _, addr := range []uint16{0x4018, 0x401F, 0x4020, 0x5FFF} {
		if _, err := m.Read(addr); !errors.Is(err, ErrIllegalRead) {
			t.Errorf("Read $%04X: expected ErrIllegalRead, got %v", addr, err)
		}
	}

	// APU slots are claimed; they read as zero rather than failing.
	for _, addr := range []uint16{0x4000, 0x4013} {
		if got := read(t, m, addr); got != 0 {
			t.Errorf("Read $%04X: expected 0, got 0x%02X", addr, got)
		}
	}
}

func TestReadWord_ShouldBeLittleEndian(t *testing.T) {
	m, _, _, _ := newTestMemory(t)

	write(t, m, 0x0200, 0x34)
	write(t, m, 0x0201, 0x12)

	got, err := m.ReadWord(0x0200)
	if err != nil {
		t.Fatalf("ReadWord failed: %v", err)
	}
	if got != 0x1234 {
		t.Errorf("Expected 0x1234, got 0x%04X", got)
	}
}

func TestReadWordPageWrap_ShouldWrapWithinPage(t *testing.T) {
	m, _, _, _ := newTestMemory(t)

	write(t, m, 0x02FF, 0xCD)
	write(t, m, 0x0200, 0xAB) // high byte comes from the page start
	write(t, m, 0x0300, 0x99) // must not be used

	got, err := m.ReadWordPageWrap(0x02FF)
	if err != nil {
		t.Fatalf("ReadWordPageWrap failed: %v", err)
	}
	if got != 0xABCD {
		t.Errorf("Expected 0xABCD, got 0x%04X", got)
	}
}

func TestPeek_ShouldNotDisturbRegisters(t *testing.T) {
	m, p, pad1, _ := newTestMemory(t)

	// Peeking PPUSTATUS must not clear vblank: raise it via the clock.
	p.Tick(241*341 + 1)
	if !p.VBlank() {
		t.Fatal("Expected vblank")
	}
	m.Peek(0x2002)
	if !p.VBlank() {
		t.Error("Peek cleared vblank")
	}

	// Peeking the controller must not advance the shift register.
	pad1.SetButton(input.ButtonA, true)
	write(t, m, 0x4016, 1)
	write(t, m, 0x4016, 0)
	m.Peek(0x4016)
	m.Peek(0x4016)
	if got := read(t, m, 0x4016); got != 1 {
		t.Errorf("Expected A bit after peeks, got %d", got)
	}
}

func TestWrite4014_ShouldInvokeDMACallback(t *testing.T) {
	m, _, _, _ := newTestMemory(t)

	var gotPage uint8 = 0xFF
	m.SetDMACallback(func(page uint8) error {
		gotPage = page
		return nil
	})

	write(t, m, 0x4014, 0x02)
	if gotPage != 0x02 {
		t.Errorf("Expected DMA callback with page 0x02, got 0x%02X", gotPage)
	}
}
