// Package main runs CHIP-8 programs in a terminal.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/emulator"
	"github.com/mnafees/chip8vm/internal/cli"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/pkg/term"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := cli.ParseFlags("chip8vm-term", os.Args[1:])
	if err != nil {
		return emulator.HandleFlagError(err, config.CreateLogger(false, false))
	}

	// The screen belongs to termbox while running, logs are printed after.
	var logs bytes.Buffer
	defer func() {
		_, _ = os.Stdout.Write(logs.Bytes())
	}()

	emu, err := emulator.New(opts, &logs)
	if err != nil {
		fmt.Fprintln(&logs, fmt.Errorf("starting emulator failed: %w", err))
		return 1
	}
	emulator.PrintBanner(emu.Logger, opts.Quiet, "chip8vm-term", version, commit, date)

	io := term.NewIO(emu.Display, emu.Logger)
	if err := io.Setup(); err != nil {
		emu.Logger.Error("Setting up terminal failed", log.Err(err))
		return 1
	}
	err = emu.Runner(io).Run(app.Context())
	io.Destroy()

	return emu.Report(err)
}
