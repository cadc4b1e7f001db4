package video

// NullRenderer discards every frame; run selects it with --video null
// for a session without a live display.
type NullRenderer struct{}

// RenderFrame is a no-op.
func (NullRenderer) RenderFrame(screen []uint8, palette [16][3]uint8) {}

// GetName returns the name of this driver.
func (NullRenderer) GetName() string {
	return "null"
}

// init registers our driver, by name.
func init() {
	Register("null", func() Renderer {
		return NullRenderer{}
	})
}
