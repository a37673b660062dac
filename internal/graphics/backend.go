// Package graphics abstracts the presentation layer behind a Backend
// interface so the core never links a windowing library directly: the
// ebitengine backend opens a window, the headless backend runs frames with
// no display for tests and batch tracing.
package graphics

import (
	"famicore/internal/input"
	"famicore/internal/ppu"
)

// FrameSource is the console as the presentation layer sees it: one
// finished frame per video tick, with input published between ticks.
type FrameSource interface {
	StepFrame() (*ppu.Frame, error)
	SetButton(port int, button input.Button, pressed bool)
}

// Backend drives the host loop around a FrameSource.
type Backend interface {
	// Run takes over the calling goroutine until the window closes, the
	// frame budget is exhausted, or the console fails.
	Run(src FrameSource, config Config) error

	// Name identifies the backend in logs.
	Name() string
}

// Config selects and parameterizes a backend.
type Config struct {
	// Window configuration
	Title string
	Scale int // NES resolution multiplier

	// Headless configuration: stop after this many frames (0 = run forever).
	Frames int
}

// New picks a backend by name; unknown names fall back to headless.
func New(name string) Backend {
	switch name {
	case "ebitengine":
		return NewEbitengineBackend()
	default:
		return NewHeadlessBackend()
	}
}
