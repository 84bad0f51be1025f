// Package main implements a CHIP-8 program disassembler
package main

import (
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chip8vm/emulator"
	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/cli"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/internal/memory"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := cli.ParseDisasmFlags("c8dis", os.Args[1:])
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		os.Exit(emulator.HandleFlagError(err, logger))
	}

	// Keep the banner out of listings printed on the console.
	emulator.PrintBanner(logger, opts.Quiet || opts.Output == "", "c8dis", version, commit, date)

	if err := disasmFile(opts, logger); err != nil {
		logger.Fatal("Disassembling failed", log.Err(err))
	}
}

func disasmFile(opts cli.DisasmOptions, logger *log.Logger) error {
	data, err := os.ReadFile(opts.ROM)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if len(data) > memory.MaxProgram {
		return fmt.Errorf("'%s': %w", opts.ROM, memory.ErrProgramTooLarge)
	}
	logger.Debug("Program read", log.String("file", opts.ROM), log.Int("size", len(data)))

	listing := internal.DisassembleROM(data, memory.ProgramStart)
	if opts.Output == "" {
		fmt.Print(listing)
		return nil
	}

	if err := os.WriteFile(opts.Output, []byte(listing), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	logger.Info("Listing written", log.String("file", opts.Output))
	return nil
}
