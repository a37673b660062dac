// Package input implements the serial-latched NES controllers.
package input

// Button represents NES controller buttons, in shift-out order.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller models the standard pad: eight live buttons behind a strobed
// shift register. While strobe is high the register continuously reloads from
// the live state; on the falling edge it freezes and eight reads shift the
// snapshot out LSB-first. Once exhausted, further reads return 1, as the
// hardware does.
type Controller struct {
	// Current live button states, set by the host between steps.
	buttons uint8

	// Shift register state frozen at the strobe falling edge.
	shiftRegister uint8
	reads         uint8
	strobe        bool
}

// New creates a new Controller instance
func New() *Controller {
	return &Controller{}
}

// SetButton sets the live state of a single button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// SetButtons replaces the whole live button mask at once.
func (c *Controller) SetButtons(mask uint8) {
	c.buttons = mask
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// IsPressed returns true if the button is currently pressed.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles writes to the controller port. Only bit 0 matters: 1 raises
// strobe, 0 drops it and freezes the snapshot for serial readout.
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.shiftRegister = c.buttons
		c.reads = 0
	}
}

// Read shifts one bit out of the register. With strobe high it always
// returns the A button of the live state.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.shiftRegister = c.buttons
		c.reads = 0
		return c.buttons & 1
	}
	if c.reads >= 8 {
		return 1
	}
	bit := c.shiftRegister & 1
	c.shiftRegister >>= 1
	c.reads++
	return bit
}

// Peek returns what Read would return without advancing the shift register.
// The tracer uses it to inspect the port without side effects.
func (c *Controller) Peek() uint8 {
	if c.strobe {
		return c.buttons & 1
	}
	if c.reads >= 8 {
		return 1
	}
	return c.shiftRegister & 1
}

// Reset returns the controller to power-up state.
func (c *Controller) Reset() {
	c.buttons = 0
	c.shiftRegister = 0
	c.reads = 0
	c.strobe = false
}
