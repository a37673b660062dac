package ppu

// Frame dimensions of the visible picture.
const (
	FrameWidth  = 256
	FrameHeight = 240
)

// Frame is a finished 256x240 RGB picture in scanline order, top-left
// first. It is what the console hands to the presentation layer.
type Frame struct {
	pix [FrameWidth * FrameHeight]Color
}

// NewFrame creates a black frame.
func NewFrame() *Frame {
	return &Frame{}
}

// SetPixel writes one pixel. Coordinates outside the frame are dropped,
// which lets sprite rendering run off the right and bottom edges.
func (f *Frame) SetPixel(x, y int, c Color) {
	if x < 0 || x >= FrameWidth || y < 0 || y >= FrameHeight {
		return
	}
	f.pix[y*FrameWidth+x] = c
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) Color {
	return f.pix[y*FrameWidth+x]
}

// RGBA flattens the frame into 4-byte RGBA pixels for display backends.
func (f *Frame) RGBA() []uint8 {
	out := make([]uint8, FrameWidth*FrameHeight*4)
	for i, c := range f.pix {
		out[i*4+0] = c.R
		out[i*4+1] = c.G
		out[i*4+2] = c.B
		out[i*4+3] = 0xFF
	}
	return out
}

// viewport is the clip rectangle used when painting a nametable shifted by
// the scroll registers. Bounds are half-open.
type viewport struct {
	x0, y0, x1, y1 int
}

// Render paints the current PPU state into a new frame: the scrolled
// background from the two active nametables, then sprites back-to-front.
// It reads the PPU as a snapshot and has no side effects on it.
func (p *PPU) Render() (*Frame, error) {
	frame := NewFrame()

	if p.mask&maskShowBackground != 0 {
		if err := p.renderBackground(frame); err != nil {
			return nil, err
		}
	}
	if p.mask&maskShowSprites != 0 {
		p.renderSprites(frame)
	}
	return frame, nil
}

// renderBackground paints the primary nametable shifted by the scroll and
// its neighbor into the strip the scroll reveals.
func (p *PPU) renderBackground(frame *Frame) error {
	sx := int(p.scrollX)
	sy := int(p.scrollY)

	// Resolve the selected logical nametable to one of the two physical
	// pages; the neighbor revealed by scrolling is always the other page
	// under horizontal or vertical mirroring.
	mainPage, err := p.nametableIndex(uint16(p.ctrl&ctrlNametableMask) << 10)
	if err != nil {
		return err
	}
	secondPage := mainPage ^ 0x400

	main := p.vram[mainPage : mainPage+0x400]
	second := p.vram[secondPage : secondPage+0x400]

	p.renderNametable(frame, main, viewport{sx, sy, FrameWidth, FrameHeight}, -sx, -sy)
	if sx > 0 {
		p.renderNametable(frame, second, viewport{0, 0, sx, FrameHeight}, FrameWidth-sx, 0)
	} else if sy > 0 {
		p.renderNametable(frame, second, viewport{0, 0, FrameWidth, sy}, 0, FrameHeight-sy)
	}
	return nil
}

// renderNametable paints one 32x30 tile grid, clipped to the viewport and
// shifted into frame coordinates.
func (p *PPU) renderNametable(frame *Frame, nt []uint8, view viewport, shiftX, shiftY int) {
	bank := p.backgroundPatternBase()

	for i := 0; i < 0x3C0; i++ {
		tileN := uint16(nt[i])
		tileX := i % 32
		tileY := i / 32
		pal := p.backgroundPalette(nt, tileX, tileY)

		base := bank + tileN*16
		for y := 0; y < 8; y++ {
			lo := p.chr.ReadCHR(base + uint16(y))
			hi := p.chr.ReadCHR(base + uint16(y) + 8)

			for x := 7; x >= 0; x-- {
				ci := (hi&1)<<1 | lo&1
				hi >>= 1
				lo >>= 1

				px := tileX*8 + x
				py := tileY*8 + y
				if px < view.x0 || px >= view.x1 || py < view.y0 || py >= view.y1 {
					continue
				}
				frame.SetPixel(px+shiftX, py+shiftY, SystemColor(pal[ci]))
			}
		}
	}
}

// backgroundPalette picks the four palette-RAM entries for a tile from the
// attribute table at the end of the nametable. Entry 0 is the universal
// background color.
func (p *PPU) backgroundPalette(nt []uint8, tileX, tileY int) [4]uint8 {
	attr := nt[0x3C0+8*(tileY/4)+tileX/4]

	var sel uint8
	switch [2]int{tileX % 4 / 2, tileY % 4 / 2} {
	case [2]int{0, 0}:
		sel = attr & 0x03
	case [2]int{1, 0}:
		sel = attr >> 2 & 0x03
	case [2]int{0, 1}:
		sel = attr >> 4 & 0x03
	case [2]int{1, 1}:
		sel = attr >> 6 & 0x03
	}

	base := 4 * int(sel)
	return [4]uint8{
		p.palette[0],
		p.palette[base+1],
		p.palette[base+2],
		p.palette[base+3],
	}
}

// renderSprites paints OAM back-to-front so lower-index sprites win ties.
// Sprites flagged behind the background are not drawn in this core.
func (p *PPU) renderSprites(frame *Frame) {
	bank := p.spritePatternBase()

	for i := len(p.oam) - 4; i >= 0; i -= 4 {
		spriteY := int(p.oam[i])
		tileN := uint16(p.oam[i+1])
		attr := p.oam[i+2]
		spriteX := int(p.oam[i+3])

		if attr&0x20 != 0 { // behind-background priority
			continue
		}
		flipH := attr&0x40 != 0
		flipV := attr&0x80 != 0
		pal := p.spritePalette(attr & 0x03)

		base := bank + tileN*16
		for y := 0; y < 8; y++ {
			lo := p.chr.ReadCHR(base + uint16(y))
			hi := p.chr.ReadCHR(base + uint16(y) + 8)

			for x := 7; x >= 0; x-- {
				ci := (hi&1)<<1 | lo&1
				hi >>= 1
				lo >>= 1
				if ci == 0 { // transparent
					continue
				}

				px, py := x, y
				if flipH {
					px = 7 - x
				}
				if flipV {
					py = 7 - y
				}
				frame.SetPixel(spriteX+px, spriteY+py, SystemColor(pal[ci]))
			}
		}
	}
}

// spritePalette returns the four palette-RAM entries for a sprite palette;
// entry 0 is never used because color 0 is transparent.
func (p *PPU) spritePalette(sel uint8) [4]uint8 {
	base := 0x10 + 4*int(sel)
	return [4]uint8{
		0,
		p.palette[base+1],
		p.palette[base+2],
		p.palette[base+3],
	}
}

func (p *PPU) backgroundPatternBase() uint16 {
	if p.ctrl&ctrlBackgroundBank != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) spritePatternBase() uint16 {
	if p.ctrl&ctrlSpritePattern != 0 {
		return 0x1000
	}
	return 0
}
