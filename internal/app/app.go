package app

import (
	"fmt"
	"io"
	"log"
	"os"

	"famicore/internal/bus"
	"famicore/internal/graphics"
	"famicore/internal/input"
	"famicore/internal/ppu"
)

// Application owns the console and the presentation backend and runs the
// host loop: poll input, advance one frame, display it.
type Application struct {
	config  *Config
	console *bus.Bus

	traceOut io.WriteCloser
}

// New creates an application from the config at path; a missing file
// yields the defaults.
func New(configPath string) (*Application, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	return &Application{
		config:  config,
		console: bus.New(),
	}, nil
}

// Config exposes the active configuration for CLI overrides.
func (a *Application) Config() *Config {
	return a.config
}

// Console exposes the wired console, for tools and tests.
func (a *Application) Console() *bus.Bus {
	return a.console
}

// LoadROM inserts the iNES image at path and resets the console.
func (a *Application) LoadROM(path string) error {
	if err := a.console.LoadFromFile(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	cart := a.console.Cartridge()
	log.Printf("loaded %s (mapper %d, %s mirroring)", path, cart.MapperID(), cart.Mirror())
	return nil
}

// Run drives the backend until it exits. With a trace file configured,
// every instruction is logged in the nestest convention on the way.
func (a *Application) Run() error {
	var src graphics.FrameSource = a.console

	if a.config.Debug.TraceFile != "" {
		out, err := openTraceOutput(a.config.Debug.TraceFile)
		if err != nil {
			return err
		}
		a.traceOut = out
		src = &tracedConsole{
			console:   a.console,
			out:       out,
			remaining: a.config.Debug.TraceLimit,
		}
	}

	// The backend is picked here, after CLI overrides have landed.
	backend := graphics.New(a.config.Video.Backend)
	log.Printf("running with %s backend", backend.Name())
	return backend.Run(src, graphics.Config{
		Title:  a.config.Window.Title,
		Scale:  a.config.Window.Scale,
		Frames: a.config.Video.Frames,
	})
}

// Cleanup releases resources held by the application.
func (a *Application) Cleanup() error {
	if a.traceOut != nil {
		return a.traceOut.Close()
	}
	return nil
}

func openTraceOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	return f, nil
}

// tracedConsole wraps the console as a FrameSource that logs one line per
// executed instruction. The log line is rendered before the instruction
// runs, so it shows the pre-execution machine state.
type tracedConsole struct {
	console *bus.Bus
	out     io.Writer

	// Instructions left to log; negative once the limit is spent,
	// zero from the start means unlimited.
	remaining int
}

func (t *tracedConsole) StepFrame() (*ppu.Frame, error) {
	target := t.console.FrameCount() + 1
	for t.console.FrameCount() < target {
		if t.remaining >= 0 {
			if line, err := t.console.TraceLine(); err == nil {
				fmt.Fprintln(t.out, line)
				if t.remaining > 0 {
					t.remaining--
					if t.remaining == 0 {
						t.remaining = -1
					}
				}
			}
		}
		if _, err := t.console.StepInstruction(); err != nil {
			return nil, err
		}
	}
	return t.console.PPU.Render()
}

func (t *tracedConsole) SetButton(port int, button input.Button, pressed bool) {
	t.console.SetButton(port, button, pressed)
}
