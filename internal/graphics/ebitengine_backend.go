package graphics

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"famicore/internal/input"
	"famicore/internal/ppu"
)

// errWindowClosed unwinds ebiten.RunGame when the user quits; Run maps it
// back to a clean exit.
var errWindowClosed = errors.New("window closed")

// EbitengineBackend presents frames in a window through ebitengine and
// feeds keyboard state back into the controller ports.
type EbitengineBackend struct{}

// NewEbitengineBackend creates the windowed backend.
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Name returns the backend name.
func (b *EbitengineBackend) Name() string {
	return "ebitengine"
}

// keyMap binds the keyboard to controller 1: arrows for the pad, Z/X for
// B/A, Enter for Start and right shift for Select.
var keyMap = map[ebiten.Key]input.Button{
	ebiten.KeyX:          input.ButtonA,
	ebiten.KeyZ:          input.ButtonB,
	ebiten.KeyShiftRight: input.ButtonSelect,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

// Run opens the window and hands control to the ebitengine game loop.
func (b *EbitengineBackend) Run(src FrameSource, config Config) error {
	scale := config.Scale
	if scale < 1 {
		scale = 3
	}
	ebiten.SetWindowSize(ppu.FrameWidth*scale, ppu.FrameHeight*scale)
	ebiten.SetWindowTitle(config.Title)

	game := &ebitengineGame{
		src:    src,
		screen: ebiten.NewImage(ppu.FrameWidth, ppu.FrameHeight),
	}
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errWindowClosed) {
		return fmt.Errorf("ebitengine loop: %w", err)
	}
	return nil
}

// ebitengineGame adapts the console to ebiten.Game: input is published
// between frames, then the console runs exactly one frame per Update tick.
type ebitengineGame struct {
	src    FrameSource
	screen *ebiten.Image
}

func (g *ebitengineGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return errWindowClosed
	}

	for key, button := range keyMap {
		g.src.SetButton(1, button, ebiten.IsKeyPressed(key))
	}

	frame, err := g.src.StepFrame()
	if err != nil {
		return err
	}
	g.screen.WritePixels(frame.RGBA())
	return nil
}

func (g *ebitengineGame) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.screen, nil)
}

func (g *ebitengineGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.FrameWidth, ppu.FrameHeight
}
