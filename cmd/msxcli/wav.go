package main

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/fcoury/wasmsx/machine"
)

var (
	wavFrames int
	wavOut    string
)

var wavCmd = &cobra.Command{
	Use:                   "wav BIOS-ROM",
	Short:                 "Run headlessly for N frames and save the PSG output as a WAV file",
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

		f, err := os.Create(wavOut)
		if err != nil {
			return err
		}
		defer f.Close()

		enc := wav.NewEncoder(f, machine.SampleRate, 16, 1, 1)
		defer enc.Close()

		samplesPerFrame := machine.SampleRate / 60
		buf := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: machine.SampleRate},
			SourceBitDepth: 16,
		}

		for i := 0; i < wavFrames; i++ {
			m.StepFor(machine.CyclesPerFrame)

			samples := m.GenerateAudioSamples(samplesPerFrame)
			buf.Data = buf.Data[:0]
			for _, s := range samples {
				buf.Data = append(buf.Data, int(s))
			}
			if err := enc.Write(buf); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	wavCmd.Flags().IntVar(&wavFrames, "frames", 60, "number of frames to render audio for")
	wavCmd.Flags().StringVar(&wavOut, "out", "out.wav", "output WAV file path")
	rootCmd.AddCommand(wavCmd)
}
