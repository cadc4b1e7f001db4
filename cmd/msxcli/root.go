package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fcoury/wasmsx/version"
)

// log is the shared logger every subcommand constructs its Machine with.
// Library packages never build their own handler (see package machine) —
// this is the one place in the program that does, exactly as the
// teacher's main.go builds its own JSON handler gated by $DEBUG.
var log *slog.Logger

var rootCmd = &cobra.Command{
	Use:     "msxcli",
	Short:   "msxcli runs and inspects an MSX1 emulator core",
	Version: version.GetVersionString(),
}

func init() {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	if os.Getenv("DEBUG") != "" {
		lvl.Set(slog.LevelDebug)
	}

	log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
