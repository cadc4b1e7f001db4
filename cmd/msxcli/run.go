package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fcoury/wasmsx/input"
	"github.com/fcoury/wasmsx/machine"
	"github.com/fcoury/wasmsx/video"
)

var (
	runDiskROM     string
	runDiskImage   string
	runInputDriver string
	runVideoDriver string
	runFrames      int
)

var runCmd = &cobra.Command{
	Use:                   "run BIOS-ROM",
	Short:                 "Run an MSX1 emulator session against a BIOS ROM image",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bios, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var m *machine.Machine
		if runDiskROM != "" {
			diskROM, err := os.ReadFile(runDiskROM)
			if err != nil {
				return err
			}
			m, err = machine.NewWithDisk(bios, diskROM, machine.WithLogger(log))
			if err != nil {
				return err
			}
		} else {
			m, err = machine.New(bios, machine.WithLogger(log))
			if err != nil {
				return err
			}
		}

		if runDiskImage != "" {
			raw, err := os.ReadFile(runDiskImage)
			if err != nil {
				return err
			}
			if err := m.InsertDisk(0, raw); err != nil {
				return err
			}
		}

		in, err := input.New(runInputDriver)
		if err != nil {
			return err
		}
		if err := in.Setup(); err != nil {
			return fmt.Errorf("setting up input driver %q: %w", runInputDriver, err)
		}
		defer in.TearDown()

		vid, err := video.New(runVideoDriver)
		if err != nil {
			return err
		}

		const frameInterval = time.Second / 60
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		frame := 0
		for runFrames == 0 || frame < runFrames {
			<-ticker.C

			for _, ev := range in.Poll() {
				if ev.Down {
					m.KeyDown(ev.Code)
				} else {
					m.KeyUp(ev.Code)
				}
			}

			m.StepFor(machine.CyclesPerFrame)
			vid.RenderFrame(m.Screen())
			frame++
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runDiskROM, "diskrom", "", "optional disk ROM image for slot 1")
	runCmd.Flags().StringVar(&runDiskImage, "disk", "", "optional FAT12 DSK image to insert into drive 0")
	runCmd.Flags().StringVar(&runInputDriver, "input", "term", "keyboard input driver (term, script)")
	runCmd.Flags().StringVar(&runVideoDriver, "video", "ansi", "video output driver (ansi, null)")
	runCmd.Flags().IntVar(&runFrames, "frames", 0, "stop after N frames (0 = run until interrupted)")
	rootCmd.AddCommand(runCmd)
}
