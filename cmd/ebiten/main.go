// Package main runs CHIP-8 programs in an Ebitengine window.
package main

import (
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"

	"github.com/mnafees/chip8vm/emulator"
	"github.com/mnafees/chip8vm/internal/cli"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/pkg/ebiten"
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
	opts, err := cli.ParseFlags("chip8vm-ebiten", os.Args[1:])
	if err != nil {
		return emulator.HandleFlagError(err, config.CreateLogger(false, false))
	}

	emu, err := emulator.New(opts, nil)
	if err != nil {
		fmt.Println(fmt.Errorf("starting emulator failed: %w", err))
		return 1
	}
	emulator.PrintBanner(emu.Logger, opts.Quiet, "chip8vm-ebiten", version, commit, date)

	game := ebiten.NewGame(emu.Display, emu.Logger)
	game.SetRunner(emu.Runner(game))
	return emu.Report(game.Run(app.Context(), "chip8vm | CHIP-8 Emulator"))
}
