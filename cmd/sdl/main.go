// Package main runs CHIP-8 programs in an SDL window.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/emulator"
	"github.com/mnafees/chip8vm/internal/cli"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/pkg/sdl"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL calls have to be made from the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := cli.ParseFlags("chip8vm-sdl", os.Args[1:])
	if err != nil {
		return emulator.HandleFlagError(err, config.CreateLogger(false, false))
	}

	emu, err := emulator.New(opts, nil)
	if err != nil {
		fmt.Println(fmt.Errorf("starting emulator failed: %w", err))
		return 1
	}
	emulator.PrintBanner(emu.Logger, opts.Quiet, "chip8vm-sdl", version, commit, date)

	io := sdl.NewIO(emu.Display, emu.Logger)
	defer io.Destroy()
	if err := io.SetupWindow("chip8vm | CHIP-8 Emulator"); err != nil {
		emu.Logger.Error("Setting up window failed", log.Err(err))
		return 1
	}

	return emu.Report(emu.Runner(io).Run(app.Context()))
}
