package graphics

// HeadlessBackend runs the console with no display: tests, CI and batch
// tracing use it. Frames are produced and discarded at full speed.
type HeadlessBackend struct{}

// NewHeadlessBackend creates the display-less backend.
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Name returns the backend name.
func (b *HeadlessBackend) Name() string {
	return "headless"
}

// Run steps frames until the budget is spent or the console fails. With a
// zero budget it runs until an error stops it.
func (b *HeadlessBackend) Run(src FrameSource, config Config) error {
	for i := 0; config.Frames == 0 || i < config.Frames; i++ {
		if _, err := src.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}
