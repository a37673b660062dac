package ppu

import (
	"testing"

	"famicore/internal/cartridge"
)

// solidTile fills tile n of the fake CHR with color index 3.
func solidTile(chr *fakeCHR, bank uint16, n int) {
	base := bank + uint16(n)*16
	for y := 0; y < 8; y++ {
		chr.data[base+uint16(y)] = 0xFF   // low plane
		chr.data[base+uint16(y)+8] = 0xFF // high plane
	}
}

// dotTile puts a single color-3 pixel in the top-left corner of tile n.
func dotTile(chr *fakeCHR, bank uint16, n int) {
	base := bank + uint16(n)*16
	chr.data[base] = 0x80
	chr.data[base+8] = 0x80
}

func enableRendering(t *testing.T, p *PPU, mask uint8) {
	t.Helper()
	if err := p.WriteRegister(0x2001, mask); err != nil {
		t.Fatalf("PPUMASK write failed: %v", err)
	}
}

func TestRender_Background_ShouldPaintTilesWithPalette(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	solidTile(chr, 0, 1)

	p.vram[0] = 1          // tile (0,0) uses pattern 1
	p.palette[0] = 0x0F    // universal background
	p.palette[3] = 0x21    // palette 0, color 3
	enableRendering(t, p, maskShowBackground)

	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := frame.At(0, 0); got != SystemColor(0x21) {
		t.Errorf("Expected tile pixel color $21, got %+v", got)
	}
	if got := frame.At(7, 7); got != SystemColor(0x21) {
		t.Errorf("Expected full tile coverage, got %+v at (7,7)", got)
	}
	// The neighboring tile is pattern 0: all pixels show the universal color.
	if got := frame.At(8, 0); got != SystemColor(0x0F) {
		t.Errorf("Expected universal background color, got %+v", got)
	}
}

func TestRender_BackgroundDisabled_ShouldLeaveFrameBlack(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	solidTile(chr, 0, 1)
	p.vram[0] = 1
	p.palette[3] = 0x21

	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := frame.At(0, 0); got != (Color{}) {
		t.Errorf("Expected black frame with rendering disabled, got %+v", got)
	}
}

func TestRender_AttributeTable_ShouldSelectQuadrantPalettes(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	solidTile(chr, 0, 1)

	p.vram[0] = 1 // tile (0,0): quadrant (0,0) of attribute cell 0
	p.vram[2] = 1 // tile (2,0): quadrant (1,0)
	p.vram[0x3C0] = 0b0000_0100 // palette 0 top-left, palette 1 top-right

	p.palette[3] = 0x16  // palette 0, color 3
	p.palette[7] = 0x2A  // palette 1, color 3
	enableRendering(t, p, maskShowBackground)

	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := frame.At(0, 0); got != SystemColor(0x16) {
		t.Errorf("Expected palette 0 color at (0,0), got %+v", got)
	}
	if got := frame.At(16, 0); got != SystemColor(0x2A) {
		t.Errorf("Expected palette 1 color at (16,0), got %+v", got)
	}
}

func TestRender_BackgroundPatternBank_ShouldFollowPPUCTRL(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	solidTile(chr, 0x1000, 1) // pattern only exists in the upper bank

	p.vram[0] = 1
	p.palette[3] = 0x21
	if err := p.WriteRegister(0x2000, ctrlBackgroundBank); err != nil {
		t.Fatalf("PPUCTRL write failed: %v", err)
	}
	enableRendering(t, p, maskShowBackground)

	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := frame.At(0, 0); got != SystemColor(0x21) {
		t.Errorf("Expected upper-bank tile, got %+v", got)
	}
}

func TestRender_HorizontalScroll_ShouldRevealNeighborNametable(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	solidTile(chr, 0, 1)

	// Main nametable tile (1,0) is solid; neighbor tile (0,0) is solid too.
	p.vram[1] = 1
	p.vram[0x400] = 1
	p.palette[3] = 0x21
	enableRendering(t, p, maskShowBackground)

	// Scroll 8 pixels right: main tile (1,0) lands at screen x 0.
	if err := p.WriteRegister(0x2005, 8); err != nil {
		t.Fatalf("PPUSCROLL write failed: %v", err)
	}
	if err := p.WriteRegister(0x2005, 0); err != nil {
		t.Fatalf("PPUSCROLL write failed: %v", err)
	}

	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := frame.At(0, 0); got != SystemColor(0x21) {
		t.Errorf("Expected scrolled main tile at x=0, got %+v", got)
	}
	// The rightmost 8 pixels come from the neighbor's tile (0,0).
	if got := frame.At(248, 0); got != SystemColor(0x21) {
		t.Errorf("Expected neighbor tile in revealed strip, got %+v", got)
	}
	// Middle of the screen is pattern 0: the universal background color.
	if got := frame.At(120, 0); got != SystemColor(p.palette[0]) {
		t.Errorf("Expected background color mid-screen, got %+v", got)
	}
}

func TestRender_Sprites_ShouldDrawFlipAndClip(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	dotTile(chr, 0, 5)

	p.palette[0x13] = 0x27 // sprite palette 0, color 3
	enableRendering(t, p, maskShowSprites)

	// Plain sprite at (100, 50).
	copy(p.oam[0:], []uint8{50, 5, 0x00, 100})
	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := frame.At(100, 50); got != SystemColor(0x27) {
		t.Errorf("Expected sprite dot at (100,50), got %+v", got)
	}
	// Color 0 is transparent: the rest of the tile leaves the frame black.
	if got := frame.At(101, 50); got != (Color{}) {
		t.Errorf("Expected transparency at (101,50), got %+v", got)
	}

	// Horizontal flip moves the dot to the right edge of the tile.
	copy(p.oam[0:], []uint8{50, 5, 0x40, 100})
	frame, err = p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := frame.At(107, 50); got != SystemColor(0x27) {
		t.Errorf("Expected flipped dot at (107,50), got %+v", got)
	}

	// Vertical flip moves it to the bottom edge.
	copy(p.oam[0:], []uint8{50, 5, 0x80, 100})
	frame, err = p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := frame.At(100, 57); got != SystemColor(0x27) {
		t.Errorf("Expected flipped dot at (100,57), got %+v", got)
	}
}

func TestRender_SpriteBehindBackground_ShouldNotDraw(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	dotTile(chr, 0, 5)

	p.palette[0x13] = 0x27
	enableRendering(t, p, maskShowSprites)
	copy(p.oam[0:], []uint8{50, 5, 0x20, 100}) // priority: behind background

	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := frame.At(100, 50); got != (Color{}) {
		t.Errorf("Expected behind-background sprite to be skipped, got %+v", got)
	}
}

func TestRender_SpriteOverlap_LowerIndexWins(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorVertical)
	dotTile(chr, 0, 5)

	p.palette[0x13] = 0x27 // sprite palette 0, color 3
	p.palette[0x17] = 0x12 // sprite palette 1, color 3
	enableRendering(t, p, maskShowSprites)

	copy(p.oam[0:], []uint8{50, 5, 0x00, 100}) // sprite 0, palette 0
	copy(p.oam[4:], []uint8{50, 5, 0x01, 100}) // sprite 1, palette 1

	frame, err := p.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := frame.At(100, 50); got != SystemColor(0x27) {
		t.Errorf("Expected sprite 0 to win the overlap, got %+v", got)
	}
}

func TestRender_FourScreen_ShouldFailUnsupported(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorFourScreen)
	enableRendering(t, p, maskShowBackground)

	if _, err := p.Render(); err == nil {
		t.Fatal("Expected error for four-screen mirroring")
	}
}

func TestFrame_RGBA_ShouldFlattenPixels(t *testing.T) {
	frame := NewFrame()
	frame.SetPixel(0, 0, Color{R: 1, G: 2, B: 3})
	frame.SetPixel(255, 239, Color{R: 9, G: 8, B: 7})
	frame.SetPixel(-1, 0, Color{R: 0xFF}) // out of bounds: dropped
	frame.SetPixel(0, 240, Color{R: 0xFF})

	rgba := frame.RGBA()
	if len(rgba) != FrameWidth*FrameHeight*4 {
		t.Fatalf("Expected %d bytes, got %d", FrameWidth*FrameHeight*4, len(rgba))
	}
	if rgba[0] != 1 || rgba[1] != 2 || rgba[2] != 3 || rgba[3] != 0xFF {
		t.Errorf("Unexpected first pixel: %v", rgba[:4])
	}
	last := (239*FrameWidth + 255) * 4
	if rgba[last] != 9 || rgba[last+1] != 8 || rgba[last+2] != 7 {
		t.Errorf("Unexpected last pixel: %v", rgba[last:last+4])
	}
}
