package video

import (
	"fmt"
	"io"
	"os"
)

// AnsiRenderer renders a frame as a grid of 2x2-pixel blocks, each printed
// as two background-colored spaces using a 24-bit-color ANSI escape — a
// terminal-friendly preview of the VDP's screen buffer, not a pixel-exact
// rendering.
type AnsiRenderer struct {
	writer io.Writer
}

// RenderFrame prints screen to the driver's writer.
func (ar *AnsiRenderer) RenderFrame(screen []uint8, palette [16][3]uint8) {
	const width, height = 256, 192

	var b []byte
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x += 2 {
			idx := screen[y*width+x]
			c := palette[idx&0x0F]
			b = append(b, fmt.Sprintf("\x1b[48;2;%d;%d;%dm  ", c[0], c[1], c[2])...)
		}
		b = append(b, "\x1b[0m\n"...)
	}
	ar.writer.Write(b)
}

// GetName returns the name of this driver.
func (ar *AnsiRenderer) GetName() string {
	return "ansi"
}

// init registers our driver, by name.
func init() {
	Register("ansi", func() Renderer {
		return &AnsiRenderer{writer: os.Stdout}
	})
}
