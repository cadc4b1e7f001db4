package main

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/fcoury/wasmsx/machine"
	"github.com/fcoury/wasmsx/vdp"
)

var (
	screenshotFrames int
	screenshotOut    string
	screenshotLabel  string
)

var screenshotCmd = &cobra.Command{
	Use:                   "screenshot BIOS-ROM",
	Short:                 "Run headlessly for N frames and save the VDP screen buffer as a PNG",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bios, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		m, err := machine.New(bios, machine.WithLogger(log))
		if err != nil {
			return err
		}

		for i := 0; i < screenshotFrames; i++ {
			m.StepFor(machine.CyclesPerFrame)
		}

		img := paletteImage(m.Screen())
		if screenshotLabel != "" {
			drawLabel(img, screenshotLabel)
		}

		f, err := os.Create(screenshotOut)
		if err != nil {
			return err
		}
		defer f.Close()

		return png.Encode(f, img)
	},
}

// paletteImage builds a 256x192 paletted image from a Machine.Screen()
// buffer using the VDP's fixed 16-color palette.
func paletteImage(screen []uint8) *image.Paletted {
	pal := make(color.Palette, len(vdp.Palette))
	for i, c := range vdp.Palette {
		pal[i] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xFF}
	}

	img := image.NewPaletted(image.Rect(0, 0, 256, 192), pal)
	copy(img.Pix, screen)
	return img
}

// drawLabel stamps label into the screenshot's bottom-left corner.
func drawLabel(img *image.Paletted, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 188),
	}
	d.DrawString(label)
}

func init() {
	screenshotCmd.Flags().IntVar(&screenshotFrames, "frames", 60, "number of frames to run before capturing")
	screenshotCmd.Flags().StringVar(&screenshotOut, "out", "shot.png", "output PNG file path")
	screenshotCmd.Flags().StringVar(&screenshotLabel, "label", "", "optional text label stamped onto the screenshot")
	rootCmd.AddCommand(screenshotCmd)
}
